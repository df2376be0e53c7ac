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

// ProductService управляет товарами каталога. Остаток здесь задаётся
// только при создании и ручном редактировании; списания и возвраты
// делает движок заказов.
type ProductService struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	logger     *log.Entry
}

// NewProductService создаёт сервис товаров.
func NewProductService(products domain.ProductRepository, categories domain.CategoryRepository, logger *log.Entry) *ProductService {
	if logger == nil {
		logger = log.WithField("component", "product-service")
	}
	return &ProductService{products: products, categories: categories, logger: logger}
}

// Create валидирует и сохраняет новый товар в существующей категории.
func (s *ProductService) Create(ctx context.Context, categoryID, name string, priceMinor int64, stock int32) (domain.Product, error) {
	product := domain.Product{
		ID:         uuid.NewString(),
		CategoryID: categoryID,
		Name:       strings.TrimSpace(name),
		PriceMinor: priceMinor,
		Stock:      stock,
		CreatedAt:  time.Now().UTC(),
	}
	if errs := product.Validate(); len(errs) > 0 {
		return domain.Product{}, errors.Join(errs...)
	}
	if _, err := s.categories.Get(ctx, categoryID); err != nil {
		return domain.Product{}, err
	}

	if err := s.products.Create(ctx, product); err != nil {
		return domain.Product{}, err
	}
	s.logger.WithFields(log.Fields{
		"product_id":  product.ID,
		"category_id": categoryID,
		"price_minor": priceMinor,
	}).Info("product created")
	return product, nil
}

// Get возвращает товар с категорией.
func (s *ProductService) Get(ctx context.Context, id string) (domain.Product, error) {
	return s.products.Get(ctx, id)
}

// List возвращает товары с необязательным фильтром по подстроке имени.
func (s *ProductService) List(ctx context.Context, search string) ([]domain.Product, error) {
	return s.products.List(ctx, search)
}

// Update валидирует и перезаписывает товар. Смена цены попадает в
// историю цен на слое хранения.
func (s *ProductService) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	product.Name = strings.TrimSpace(product.Name)
	if errs := product.Validate(); len(errs) > 0 {
		return domain.Product{}, errors.Join(errs...)
	}
	if _, err := s.categories.Get(ctx, product.CategoryID); err != nil {
		return domain.Product{}, err
	}

	if err := s.products.Update(ctx, product); err != nil {
		return domain.Product{}, err
	}
	s.logger.WithField("product_id", product.ID).Info("product updated")
	return product, nil
}

// Delete удаляет товар; отклоняется, пока на него ссылаются заказы.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("product_id", id).Info("product deleted")
	return nil
}

// PriceHistory возвращает историю изменений цены товара, новые первыми.
func (s *ProductService) PriceHistory(ctx context.Context, productID string) ([]domain.PriceChange, error) {
	if _, err := s.products.Get(ctx, productID); err != nil {
		return nil, err
	}
	return s.products.PriceHistory(ctx, productID)
}
