package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// CustomerService регистрирует и читает клиентов.
type CustomerService struct {
	customers domain.CustomerRepository
	logger    *log.Entry
}

// NewCustomerService создаёт сервис клиентов.
func NewCustomerService(customers domain.CustomerRepository, logger *log.Entry) *CustomerService {
	if logger == nil {
		logger = log.WithField("component", "customer-service")
	}
	return &CustomerService{customers: customers, logger: logger}
}

// Register валидирует и сохраняет нового клиента. PasswordHash принимается
// уже захешированным.
func (s *CustomerService) Register(ctx context.Context, name, email, address, passwordHash string) (domain.Customer, error) {
	customer := domain.Customer{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        strings.TrimSpace(email),
		Address:      address,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if errs := customer.ValidateForRegistration(); len(errs) > 0 {
		return domain.Customer{}, errors.Join(errs...)
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		return domain.Customer{}, err
	}
	s.logger.WithField("customer_id", customer.ID).Info("customer registered")
	return customer, nil
}

// Get возвращает клиента по идентификатору.
func (s *CustomerService) Get(ctx context.Context, id string) (domain.Customer, error) {
	return s.customers.Get(ctx, id)
}

// GetByEmail ищет клиента по e-mail без учёта регистра.
func (s *CustomerService) GetByEmail(ctx context.Context, email string) (domain.Customer, error) {
	return s.customers.GetByEmail(ctx, email)
}

// List возвращает всех клиентов, отсортированных по имени.
func (s *CustomerService) List(ctx context.Context) ([]domain.Customer, error) {
	return s.customers.List(ctx)
}
