package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// customerRepository — in-memory реализация CustomerRepository.
type customerRepository struct {
	store *Store
}

// Create сохраняет клиента, проверяя уникальность e-mail.
func (r *customerRepository) Create(_ context.Context, customer domain.Customer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.customers {
		if strings.EqualFold(existing.Email, customer.Email) {
			return domain.ErrEmailTaken
		}
	}

	r.store.customers[customer.ID] = customer
	return nil
}

// Get возвращает клиента или ErrCustomerNotFound.
func (r *customerRepository) Get(_ context.Context, id string) (domain.Customer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	customer, ok := r.store.customers[id]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return customer, nil
}

// GetByEmail ищет клиента по e-mail без учёта регистра.
func (r *customerRepository) GetByEmail(_ context.Context, email string) (domain.Customer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, customer := range r.store.customers {
		if strings.EqualFold(customer.Email, email) {
			return customer, nil
		}
	}
	return domain.Customer{}, domain.ErrCustomerNotFound
}

// List возвращает клиентов, отсортированных по имени.
func (r *customerRepository) List(_ context.Context) ([]domain.Customer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]domain.Customer, 0, len(r.store.customers))
	for _, customer := range r.store.customers {
		result = append(result, customer)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

var _ domain.CustomerRepository = (*customerRepository)(nil)
