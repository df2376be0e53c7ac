package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// Store — in-memory хранилище каталога и заказов для локальной разработки
// и тестов. Все репозитории разделяют одно состояние под общим мьютексом,
// поэтому ссылочная целостность проверяется так же, как в PostgreSQL.
type Store struct {
	mu sync.RWMutex

	customers  map[string]domain.Customer
	categories map[string]domain.Category
	products   map[string]domain.Product
	orders     map[string]domain.Order
	history    []domain.PriceChange
}

// NewStore создаёт пустое in-memory хранилище.
func NewStore() *Store {
	return &Store{
		customers:  make(map[string]domain.Customer),
		categories: make(map[string]domain.Category),
		products:   make(map[string]domain.Product),
		orders:     make(map[string]domain.Order),
	}
}

// Customers возвращает репозиторий клиентов.
func (s *Store) Customers() domain.CustomerRepository { return &customerRepository{store: s} }

// Categories возвращает репозиторий категорий.
func (s *Store) Categories() domain.CategoryRepository { return &categoryRepository{store: s} }

// Products возвращает репозиторий товаров.
func (s *Store) Products() domain.ProductRepository { return &productRepository{store: s} }

// cloneOrder копирует заказ вместе со срезом позиций, отбрасывая
// навигационные указатели: в хранилище лежат только "плоские" данные.
func cloneOrder(o domain.Order) domain.Order {
	out := o
	out.Customer = nil
	out.Lines = make([]domain.OrderLine, len(o.Lines))
	for i, line := range o.Lines {
		line.Product = nil
		out.Lines[i] = line
	}
	return out
}

func cloneOrderMap(src map[string]domain.Order) map[string]domain.Order {
	dst := make(map[string]domain.Order, len(src))
	for id, o := range src {
		dst[id] = cloneOrder(o)
	}
	return dst
}

func cloneProductMap(src map[string]domain.Product) map[string]domain.Product {
	dst := make(map[string]domain.Product, len(src))
	for id, p := range src {
		p.Category = nil
		dst[id] = p
	}
	return dst
}
