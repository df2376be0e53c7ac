package integration

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/metrics"
	"github.com/vladislavdragonenkov/shop/internal/service/catalog"
	"github.com/vladislavdragonenkov/shop/internal/service/order"
	"github.com/vladislavdragonenkov/shop/internal/storage/memory"
)

// OrderLifecycleTestSuite прогоняет полный жизненный цикл заказа через
// сервисы каталога и движок заказов поверх in-memory хранилища.
type OrderLifecycleTestSuite struct {
	suite.Suite

	ctx       context.Context
	store     *memory.Store
	engine    *order.Engine
	customers *catalog.CustomerService
	products  *catalog.ProductService

	customer domain.Customer
	ball     domain.Product // 16.99, 50 шт.
	shirt    domain.Product // 11.99, 3 шт.
}

func (s *OrderLifecycleTestSuite) SetupTest() {
	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel) // Уменьшаем шум в тестах
	logger := baseLogger.WithField("component", "integration-test")

	s.ctx = context.Background()
	s.store = memory.NewStore()

	m := metrics.NewOrderMetricsWithRegisterer(prometheus.NewRegistry())
	s.engine = order.NewEngine(s.store, s.store.Products(), nil, m, logger)

	categories := catalog.NewCategoryService(s.store.Categories(), logger)
	s.products = catalog.NewProductService(s.store.Products(), s.store.Categories(), logger)
	s.customers = catalog.NewCustomerService(s.store.Customers(), logger)

	var err error
	s.customer, err = s.customers.Register(s.ctx, "Sal", "sal123@su.com", "", "")
	s.Require().NoError(err)

	sports, err := categories.Create(s.ctx, "Sports Equipment", "")
	s.Require().NoError(err)

	s.ball, err = s.products.Create(s.ctx, sports.ID, "Basketball", 1699, 50)
	s.Require().NoError(err)
	s.shirt, err = s.products.Create(s.ctx, sports.ID, "T-Shirt", 1199, 3)
	s.Require().NoError(err)
}

func (s *OrderLifecycleTestSuite) stockOf(productID string) int32 {
	product, err := s.products.Get(s.ctx, productID)
	s.Require().NoError(err)
	return product.Stock
}

func (s *OrderLifecycleTestSuite) TestCreateUpdateDelete() {
	created, err := s.engine.Create(s.ctx, s.customer.ID, []order.ItemRequest{
		{ProductID: s.ball.ID, Qty: 2},
	})
	s.Require().NoError(err)
	s.Equal(int64(3398), created.TotalMinor)
	s.EqualValues(48, s.stockOf(s.ball.ID))

	updated, err := s.engine.UpdateItems(s.ctx, created.ID, s.ball.ID, 5)
	s.Require().NoError(err)
	s.Equal(int64(8495), updated.TotalMinor)
	s.EqualValues(45, s.stockOf(s.ball.ID))

	s.Require().NoError(s.engine.Delete(s.ctx, created.ID))
	s.EqualValues(50, s.stockOf(s.ball.ID))

	_, err = s.engine.Get(s.ctx, created.ID)
	s.Require().ErrorIs(err, domain.ErrOrderNotFound)
}

func (s *OrderLifecycleTestSuite) TestCapturedPriceSurvivesRepricing() {
	created, err := s.engine.Create(s.ctx, s.customer.ID, []order.ItemRequest{
		{ProductID: s.ball.ID, Qty: 3},
	})
	s.Require().NoError(err)

	repriced, err := s.products.Get(s.ctx, s.ball.ID)
	s.Require().NoError(err)
	repriced.PriceMinor = 9999
	_, err = s.products.Update(s.ctx, repriced)
	s.Require().NoError(err)

	got, err := s.engine.Get(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(int64(3*1699), got.TotalMinor)
	s.Equal(int64(1699), got.Lines[0].PriceMinor)
}

func (s *OrderLifecycleTestSuite) TestInsufficientStockLeavesNoTrace() {
	before, err := s.engine.Count(s.ctx)
	s.Require().NoError(err)

	_, err = s.engine.Create(s.ctx, s.customer.ID, []order.ItemRequest{
		{ProductID: s.ball.ID, Qty: 1},
		{ProductID: s.shirt.ID, Qty: 4},
	})

	var stockErr *domain.InsufficientStockError
	s.Require().ErrorAs(err, &stockErr)
	s.Equal(s.shirt.ID, stockErr.ProductID)
	s.EqualValues(3, stockErr.Available)
	s.EqualValues(4, stockErr.Requested)

	// Первая позиция тоже не должна была списать остаток.
	s.EqualValues(50, s.stockOf(s.ball.ID))
	s.EqualValues(3, s.stockOf(s.shirt.ID))

	after, err := s.engine.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(before, after)
}

func (s *OrderLifecycleTestSuite) TestRemovingLastLineKeepsEmptyOrder() {
	created, err := s.engine.Create(s.ctx, s.customer.ID, []order.ItemRequest{
		{ProductID: s.ball.ID, Qty: 2},
	})
	s.Require().NoError(err)

	updated, err := s.engine.UpdateItems(s.ctx, created.ID, s.ball.ID, 0)
	s.Require().NoError(err)
	s.Empty(updated.Lines)
	s.Equal(int64(0), updated.TotalMinor)
	s.EqualValues(50, s.stockOf(s.ball.ID))
}

func (s *OrderLifecycleTestSuite) TestCustomerHistoryAndSummaries() {
	first, err := s.engine.Create(s.ctx, s.customer.ID, []order.ItemRequest{
		{ProductID: s.ball.ID, Qty: 1},
	})
	s.Require().NoError(err)
	_, err = s.engine.Create(s.ctx, s.customer.ID, []order.ItemRequest{
		{ProductID: s.shirt.ID, Qty: 2},
	})
	s.Require().NoError(err)

	history, err := s.engine.ListByCustomer(s.ctx, s.customer.ID)
	s.Require().NoError(err)
	s.Len(history, 2)

	summaries, err := s.engine.Summaries(s.ctx)
	s.Require().NoError(err)
	s.Len(summaries, 2)
	s.Equal("Sal", summaries[0].CustomerName)

	s.Require().NoError(s.engine.Delete(s.ctx, first.ID))
	summaries, err = s.engine.Summaries(s.ctx)
	s.Require().NoError(err)
	s.Len(summaries, 1)
}

func TestOrderLifecycleSuite(t *testing.T) {
	suite.Run(t, new(OrderLifecycleTestSuite))
}

// Конкурентные заказы на один товар не уводят остаток в минус.
func TestConcurrentOrdersNeverOversell(t *testing.T) {
	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel)
	logger := baseLogger.WithField("component", "integration-test")

	store := memory.NewStore()
	engine := order.NewEngine(store, store.Products(), nil, nil, logger)
	ctx := context.Background()

	customers := catalog.NewCustomerService(store.Customers(), logger)
	categories := catalog.NewCategoryService(store.Categories(), logger)
	products := catalog.NewProductService(store.Products(), store.Categories(), logger)

	customer, err := customers.Register(ctx, "Amjad", "amjad123@su.com", "", "")
	require.NoError(t, err)
	category, err := categories.Create(ctx, "Sports Equipment", "")
	require.NoError(t, err)
	product, err := products.Create(ctx, category.ID, "Basketball", 1699, 10)
	require.NoError(t, err)

	const workers = 20
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			_, err := engine.Create(ctx, customer.ID, []order.ItemRequest{
				{ProductID: product.ID, Qty: 1},
			})
			results <- err
		}()
	}

	succeeded := 0
	for i := 0; i < workers; i++ {
		if err := <-results; err == nil {
			succeeded++
		} else {
			require.True(t, domain.IsInsufficientStock(err))
		}
	}
	require.Equal(t, 10, succeeded)

	got, err := products.Get(ctx, product.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, got.Stock)
}
