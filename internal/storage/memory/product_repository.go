package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// productRepository — in-memory реализация ProductRepository.
// История цен ведётся здесь же, повторяя поведение триггера PostgreSQL.
type productRepository struct {
	store *Store
}

// Create сохраняет товар и фиксирует его стартовую цену в истории.
func (r *productRepository) Create(_ context.Context, product domain.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.categories[product.CategoryID]; !ok {
		return domain.ErrCategoryNotFound
	}

	product.Category = nil
	r.store.products[product.ID] = product
	r.store.history = append(r.store.history, domain.PriceChange{
		ID:            uuid.NewString(),
		ProductID:     product.ID,
		ProductName:   product.Name,
		OldPriceMinor: 0,
		NewPriceMinor: product.PriceMinor,
		ChangedAt:     time.Now().UTC(),
		ChangeType:    domain.PriceChangeInsert,
	})
	return nil
}

// Get возвращает товар с категорией или ErrProductNotFound.
func (r *productRepository) Get(_ context.Context, id string) (domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	product, ok := r.store.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	attachCategoryLocked(r.store, &product)
	return product, nil
}

// List возвращает товары по алфавиту с фильтром по подстроке имени.
func (r *productRepository) List(_ context.Context, search string) ([]domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	search = strings.ToLower(strings.TrimSpace(search))
	result := make([]domain.Product, 0, len(r.store.products))
	for _, product := range r.store.products {
		if search != "" && !strings.Contains(strings.ToLower(product.Name), search) {
			continue
		}
		attachCategoryLocked(r.store, &product)
		result = append(result, product)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Update перезаписывает товар; изменение цены попадает в историю.
func (r *productRepository) Update(_ context.Context, product domain.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.products[product.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if _, ok := r.store.categories[product.CategoryID]; !ok {
		return domain.ErrCategoryNotFound
	}

	if current.PriceMinor != product.PriceMinor {
		r.store.history = append(r.store.history, domain.PriceChange{
			ID:            uuid.NewString(),
			ProductID:     product.ID,
			ProductName:   product.Name,
			OldPriceMinor: current.PriceMinor,
			NewPriceMinor: product.PriceMinor,
			ChangedAt:     time.Now().UTC(),
			ChangeType:    domain.PriceChangeUpdate,
		})
	}

	product.Category = nil
	r.store.products[product.ID] = product
	return nil
}

// Delete удаляет товар; запрещено, пока на него ссылаются позиции заказов.
func (r *productRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	for _, order := range r.store.orders {
		for _, line := range order.Lines {
			if line.ProductID == id {
				return domain.ErrProductReferenced
			}
		}
	}
	delete(r.store.products, id)
	return nil
}

// ListLowStock возвращает товары с остатком <= threshold по возрастанию остатка.
func (r *productRepository) ListLowStock(_ context.Context, threshold int32) ([]domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]domain.Product, 0)
	for _, product := range r.store.products {
		if product.Stock > threshold {
			continue
		}
		attachCategoryLocked(r.store, &product)
		result = append(result, product)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Stock != result[j].Stock {
			return result[i].Stock < result[j].Stock
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// PriceHistory возвращает историю цен товара, новые записи первыми.
func (r *productRepository) PriceHistory(_ context.Context, productID string) ([]domain.PriceChange, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]domain.PriceChange, 0)
	for _, change := range r.store.history {
		if change.ProductID == productID {
			result = append(result, change)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ChangedAt.After(result[j].ChangedAt) })
	return result, nil
}

func attachCategoryLocked(s *Store, product *domain.Product) {
	if category, ok := s.categories[product.CategoryID]; ok {
		category := category
		product.Category = &category
	}
}

var _ domain.ProductRepository = (*productRepository)(nil)
