package domain

import "context"

// CustomerRepository — доступ к клиентам.
type CustomerRepository interface {
	Create(ctx context.Context, customer Customer) error
	Get(ctx context.Context, id string) (Customer, error)
	GetByEmail(ctx context.Context, email string) (Customer, error)
	List(ctx context.Context) ([]Customer, error)
}

// CategoryRepository — доступ к категориям каталога.
type CategoryRepository interface {
	Create(ctx context.Context, category Category) error
	Get(ctx context.Context, id string) (Category, error)
	// List возвращает категории по алфавиту; search фильтрует по подстроке имени.
	List(ctx context.Context, search string) ([]Category, error)
	Update(ctx context.Context, category Category) error
	// Delete обязан вернуть ErrCategoryHasProducts, пока в категории есть товары.
	Delete(ctx context.Context, id string) error
}

// ProductRepository — доступ к товарам каталога. Остаток товара через
// этот интерфейс не меняется: им владеет движок заказов.
type ProductRepository interface {
	Create(ctx context.Context, product Product) error
	Get(ctx context.Context, id string) (Product, error)
	List(ctx context.Context, search string) ([]Product, error)
	Update(ctx context.Context, product Product) error
	// Delete обязан вернуть ErrProductReferenced, пока на товар ссылаются позиции заказов.
	Delete(ctx context.Context, id string) error
	// ListLowStock возвращает товары с остатком <= threshold по возрастанию остатка.
	ListLowStock(ctx context.Context, threshold int32) ([]Product, error)
	// PriceHistory возвращает историю цен товара, новые записи первыми.
	PriceHistory(ctx context.Context, productID string) ([]PriceChange, error)
}

// OrderTx — операции, доступные движку заказов внутри одной транзакции.
// Все чтения видят состояние транзакции, все записи откатываются вместе с ней.
type OrderTx interface {
	// CustomerByID возвращает клиента или ErrCustomerNotFound.
	CustomerByID(ctx context.Context, id string) (Customer, error)
	// ProductForUpdate возвращает товар, захватывая строку до конца
	// транзакции (в PostgreSQL — SELECT ... FOR UPDATE).
	ProductForUpdate(ctx context.Context, id string) (Product, error)
	// OrderWithLines возвращает заказ с позициями или ErrOrderNotFound.
	OrderWithLines(ctx context.Context, id string) (Order, error)

	InsertOrder(ctx context.Context, order Order) error
	InsertLine(ctx context.Context, line OrderLine) error
	UpdateLineQty(ctx context.Context, lineID string, qty int32) error
	DeleteLine(ctx context.Context, lineID string) error
	DeleteOrderLines(ctx context.Context, orderID string) error
	DeleteOrder(ctx context.Context, orderID string) error
	// AdjustStock прибавляет delta к остатку товара (delta может быть отрицательной).
	AdjustStock(ctx context.Context, productID string, delta int32) error
	SetOrderTotal(ctx context.Context, orderID string, totalMinor int64) error
}

// OrderStore — единица работы движка заказов плюс его операции чтения.
type OrderStore interface {
	// WithinTx выполняет fn внутри одной атомарной транзакции. Любая
	// ошибка fn приводит к откату всех выполненных в ней записей.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx OrderTx) error) error

	// OrderByID возвращает заказ с клиентом и товарами позиций.
	OrderByID(ctx context.Context, id string) (Order, error)
	// ListOrders возвращает все заказы, новые первыми.
	ListOrders(ctx context.Context) ([]Order, error)
	ListOrdersPaged(ctx context.Context, page PageRequest) ([]Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID string) ([]Order, error)
	CountOrders(ctx context.Context) (int, error)
	// Summaries читает отчётную проекцию заказов.
	Summaries(ctx context.Context) ([]OrderSummary, error)
}

// Типы событий заказа, публикуемых после успешного коммита.
const (
	EventOrderCreated      = "order.created"
	EventOrderItemsUpdated = "order.items_updated"
	EventOrderDeleted      = "order.deleted"
)

// OrderEventPublisher публикует события жизненного цикла заказа.
// Публикация не должна влиять на результат операции движка.
type OrderEventPublisher interface {
	PublishOrderEvent(eventType string, order Order) error
}
