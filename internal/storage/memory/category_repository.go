package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// categoryRepository — in-memory реализация CategoryRepository.
type categoryRepository struct {
	store *Store
}

// Create сохраняет категорию, проверяя уникальность имени без учёта регистра.
func (r *categoryRepository) Create(_ context.Context, category domain.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.nameTakenLocked(category.Name, "") {
		return domain.ErrCategoryNameTaken
	}
	r.store.categories[category.ID] = category
	return nil
}

// Get возвращает категорию или ErrCategoryNotFound.
func (r *categoryRepository) Get(_ context.Context, id string) (domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	category, ok := r.store.categories[id]
	if !ok {
		return domain.Category{}, domain.ErrCategoryNotFound
	}
	return category, nil
}

// List возвращает категории по алфавиту с фильтром по подстроке имени.
func (r *categoryRepository) List(_ context.Context, search string) ([]domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	search = strings.ToLower(strings.TrimSpace(search))
	result := make([]domain.Category, 0, len(r.store.categories))
	for _, category := range r.store.categories {
		if search != "" && !strings.Contains(strings.ToLower(category.Name), search) {
			continue
		}
		result = append(result, category)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Update перезаписывает категорию, сохраняя уникальность имени.
func (r *categoryRepository) Update(_ context.Context, category domain.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.categories[category.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	if r.nameTakenLocked(category.Name, category.ID) {
		return domain.ErrCategoryNameTaken
	}
	r.store.categories[category.ID] = category
	return nil
}

// Delete удаляет категорию; запрещено, пока в ней остаются товары.
func (r *categoryRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	for _, product := range r.store.products {
		if product.CategoryID == id {
			return domain.ErrCategoryHasProducts
		}
	}
	delete(r.store.categories, id)
	return nil
}

func (r *categoryRepository) nameTakenLocked(name, excludeID string) bool {
	for id, existing := range r.store.categories {
		if id == excludeID {
			continue
		}
		if strings.EqualFold(existing.Name, name) {
			return true
		}
	}
	return false
}

var _ domain.CategoryRepository = (*categoryRepository)(nil)
