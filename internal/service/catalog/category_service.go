// Package catalog содержит сервисы справочных данных: категории, товары
// и клиенты. Сервисы валидируют вход и делегируют хранению; заказы и
// остатки остаются в ведении транзакционного движка заказов.
package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// CategoryService управляет товарными категориями.
type CategoryService struct {
	categories domain.CategoryRepository
	logger     *log.Entry
}

// NewCategoryService создаёт сервис категорий.
func NewCategoryService(categories domain.CategoryRepository, logger *log.Entry) *CategoryService {
	if logger == nil {
		logger = log.WithField("component", "category-service")
	}
	return &CategoryService{categories: categories, logger: logger}
}

// Create валидирует и сохраняет новую категорию.
func (s *CategoryService) Create(ctx context.Context, name, description string) (domain.Category, error) {
	category := domain.Category{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Description: description,
	}
	if errs := category.Validate(); len(errs) > 0 {
		return domain.Category{}, errors.Join(errs...)
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return domain.Category{}, err
	}
	s.logger.WithField("category_id", category.ID).Info("category created")
	return category, nil
}

// Get возвращает категорию по идентификатору.
func (s *CategoryService) Get(ctx context.Context, id string) (domain.Category, error) {
	return s.categories.Get(ctx, id)
}

// List возвращает категории с необязательным фильтром по подстроке имени.
func (s *CategoryService) List(ctx context.Context, search string) ([]domain.Category, error) {
	return s.categories.List(ctx, search)
}

// Update валидирует и перезаписывает категорию.
func (s *CategoryService) Update(ctx context.Context, category domain.Category) (domain.Category, error) {
	category.Name = strings.TrimSpace(category.Name)
	if errs := category.Validate(); len(errs) > 0 {
		return domain.Category{}, errors.Join(errs...)
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return domain.Category{}, err
	}
	s.logger.WithField("category_id", category.ID).Info("category updated")
	return category, nil
}

// Delete удаляет категорию; отклоняется, пока в ней остаются товары.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("category_id", id).Info("category deleted")
	return nil
}
