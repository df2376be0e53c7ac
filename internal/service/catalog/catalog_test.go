package catalog_test

import (
	"context"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/service/catalog"
	"github.com/vladislavdragonenkov/shop/internal/storage/memory"
)

func newServices(t *testing.T) (*catalog.CategoryService, *catalog.ProductService, *catalog.CustomerService) {
	t.Helper()

	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel)
	logger := baseLogger.WithField("component", "catalog-test")

	store := memory.NewStore()
	return catalog.NewCategoryService(store.Categories(), logger),
		catalog.NewProductService(store.Products(), store.Categories(), logger),
		catalog.NewCustomerService(store.Customers(), logger)
}

func TestCategoryService_CreateValidation(t *testing.T) {
	categories, _, _ := newServices(t)
	ctx := context.Background()

	_, err := categories.Create(ctx, "", "")
	require.ErrorIs(t, err, domain.ErrNameRequired)
	require.True(t, domain.IsValidation(err))

	_, err = categories.Create(ctx, "X", "")
	require.ErrorIs(t, err, domain.ErrCategoryNameLength)

	_, err = categories.Create(ctx, "Sports Equipment", strings.Repeat("a", 501))
	require.ErrorIs(t, err, domain.ErrDescriptionTooLong)

	created, err := categories.Create(ctx, "  Sports Equipment  ", "Balls and gear")
	require.NoError(t, err)
	require.Equal(t, "Sports Equipment", created.Name)
	require.NotEmpty(t, created.ID)

	_, err = categories.Create(ctx, "sports equipment", "")
	require.ErrorIs(t, err, domain.ErrCategoryNameTaken)
	require.True(t, domain.IsConflict(err))
}

func TestCategoryService_UpdateAndDelete(t *testing.T) {
	categories, products, _ := newServices(t)
	ctx := context.Background()

	created, err := categories.Create(ctx, "Sports Equipment", "")
	require.NoError(t, err)

	created.Description = "Balls and gear"
	updated, err := categories.Update(ctx, created)
	require.NoError(t, err)
	require.Equal(t, "Balls and gear", updated.Description)

	_, err = products.Create(ctx, created.ID, "Basketball", 1699, 50)
	require.NoError(t, err)
	require.ErrorIs(t, categories.Delete(ctx, created.ID), domain.ErrCategoryHasProducts)
}

func TestProductService_CreateValidation(t *testing.T) {
	categories, products, _ := newServices(t)
	ctx := context.Background()

	category, err := categories.Create(ctx, "Sports Equipment", "")
	require.NoError(t, err)

	_, err = products.Create(ctx, category.ID, "Basketball", 0, 50)
	require.ErrorIs(t, err, domain.ErrPriceInvalid)

	_, err = products.Create(ctx, category.ID, "Basketball", 1699, -1)
	require.ErrorIs(t, err, domain.ErrStockNegative)

	_, err = products.Create(ctx, category.ID, "B", 1699, 50)
	require.ErrorIs(t, err, domain.ErrProductNameLength)

	// Валидация полей идёт раньше обращения к хранилищу, проверка
	// категории — раньше вставки.
	_, err = products.Create(ctx, "missing-category", "Basketball", 1699, 50)
	require.ErrorIs(t, err, domain.ErrCategoryNotFound)

	created, err := products.Create(ctx, category.ID, "Basketball", 1699, 50)
	require.NoError(t, err)
	require.Equal(t, int64(1699), created.PriceMinor)

	got, err := products.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	require.Equal(t, "Sports Equipment", got.Category.Name)
}

func TestProductService_PriceHistory(t *testing.T) {
	categories, products, _ := newServices(t)
	ctx := context.Background()

	category, err := categories.Create(ctx, "Sports Equipment", "")
	require.NoError(t, err)
	created, err := products.Create(ctx, category.ID, "Basketball", 1699, 50)
	require.NoError(t, err)

	created.PriceMinor = 1899
	created.Category = nil
	_, err = products.Update(ctx, created)
	require.NoError(t, err)

	history, err := products.PriceHistory(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, domain.PriceChangeUpdate, history[0].ChangeType)

	_, err = products.PriceHistory(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCustomerService_Register(t *testing.T) {
	_, _, customers := newServices(t)
	ctx := context.Background()

	_, err := customers.Register(ctx, "", "sal123@su.com", "", "")
	require.ErrorIs(t, err, domain.ErrNameRequired)

	_, err = customers.Register(ctx, "Sal", "not-an-email", "", "")
	require.ErrorIs(t, err, domain.ErrEmailInvalid)

	created, err := customers.Register(ctx, "Sal", " sal123@su.com ", "12 Main St", "hash")
	require.NoError(t, err)
	require.Equal(t, "sal123@su.com", created.Email)

	_, err = customers.Register(ctx, "Other", "SAL123@SU.COM", "", "")
	require.ErrorIs(t, err, domain.ErrEmailTaken)

	got, err := customers.GetByEmail(ctx, "Sal123@su.com")
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
}
