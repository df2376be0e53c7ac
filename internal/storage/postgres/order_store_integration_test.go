package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

func seedIntegrationCatalog(t *testing.T, store *Store) (domain.Customer, domain.Product) {
	t.Helper()
	ctx := context.Background()

	customer := domain.Customer{
		ID:        uuid.NewString(),
		Name:      "Sal",
		Email:     "sal123@su.com",
		CreatedAt: time.Now().UTC(),
	}
	if err := store.Customers().Create(ctx, customer); err != nil {
		t.Fatalf("create customer: %v", err)
	}

	category := domain.Category{ID: uuid.NewString(), Name: "Sports Equipment"}
	if err := store.Categories().Create(ctx, category); err != nil {
		t.Fatalf("create category: %v", err)
	}

	product := domain.Product{
		ID:         uuid.NewString(),
		CategoryID: category.ID,
		Name:       "Basketball",
		PriceMinor: 1699,
		Stock:      50,
		CreatedAt:  time.Now().UTC(),
	}
	if err := store.Products().Create(ctx, product); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return customer, product
}

func TestIntegration_OrderTransactionCommitAndRollback(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	customer, product := seedIntegrationCatalog(t, store)
	ctx := context.Background()

	orderID := uuid.NewString()
	err := store.WithinTx(ctx, func(ctx context.Context, tx domain.OrderTx) error {
		if _, err := tx.ProductForUpdate(ctx, product.ID); err != nil {
			return err
		}
		if err := tx.InsertOrder(ctx, domain.Order{
			ID: orderID, CustomerID: customer.ID, CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		if err := tx.InsertLine(ctx, domain.OrderLine{
			ID: uuid.NewString(), OrderID: orderID, ProductID: product.ID,
			PriceMinor: 1699, Qty: 2, CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		if err := tx.AdjustStock(ctx, product.ID, -2); err != nil {
			return err
		}
		return tx.SetOrderTotal(ctx, orderID, 3398)
	})
	if err != nil {
		t.Fatalf("commit order tx: %v", err)
	}

	got, err := store.OrderByID(ctx, orderID)
	if err != nil {
		t.Fatalf("read order: %v", err)
	}
	if got.TotalMinor != 3398 || len(got.Lines) != 1 {
		t.Fatalf("unexpected order state: total=%d lines=%d", got.TotalMinor, len(got.Lines))
	}
	if got.Customer == nil || got.Customer.Email != customer.Email {
		t.Fatalf("expected hydrated customer on order")
	}

	// Откат: ошибка внутри fn не оставляет следов.
	boom := errors.New("boom")
	rollbackOrderID := uuid.NewString()
	err = store.WithinTx(ctx, func(ctx context.Context, tx domain.OrderTx) error {
		if err := tx.InsertOrder(ctx, domain.Order{
			ID: rollbackOrderID, CustomerID: customer.ID, CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		if err := tx.AdjustStock(ctx, product.ID, -10); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if _, err := store.OrderByID(ctx, rollbackOrderID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected rolled back order to be absent, got %v", err)
	}

	fresh, err := store.Products().Get(ctx, product.ID)
	if err != nil {
		t.Fatalf("read product: %v", err)
	}
	if fresh.Stock != 48 {
		t.Fatalf("expected stock 48 after commit+rollback, got %d", fresh.Stock)
	}
}

func TestIntegration_AdjustStockRejectsNegative(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	_, product := seedIntegrationCatalog(t, store)

	err := store.WithinTx(context.Background(), func(ctx context.Context, tx domain.OrderTx) error {
		return tx.AdjustStock(ctx, product.ID, -51)
	})

	var stockErr *domain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.Available != 50 || stockErr.Requested != 51 {
		t.Fatalf("unexpected shortfall details: %+v", stockErr)
	}
}

func TestIntegration_SummariesViewAndPriceHistoryTrigger(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	customer, product := seedIntegrationCatalog(t, store)
	ctx := context.Background()

	orderID := uuid.NewString()
	err := store.WithinTx(ctx, func(ctx context.Context, tx domain.OrderTx) error {
		if err := tx.InsertOrder(ctx, domain.Order{
			ID: orderID, CustomerID: customer.ID, CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		if err := tx.InsertLine(ctx, domain.OrderLine{
			ID: uuid.NewString(), OrderID: orderID, ProductID: product.ID,
			PriceMinor: 1699, Qty: 1, CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		return tx.SetOrderTotal(ctx, orderID, 1699)
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	summaries, err := store.Summaries(ctx)
	if err != nil {
		t.Fatalf("read summaries: %v", err)
	}
	if len(summaries) != 1 || summaries[0].OrderID != orderID || summaries[0].LineCount != 1 {
		t.Fatalf("unexpected summaries: %+v", summaries)
	}
	if summaries[0].CustomerName != customer.Name {
		t.Fatalf("expected customer name in summary, got %q", summaries[0].CustomerName)
	}

	// Триггер: INSERT уже записан, смена цены добавляет UPDATE.
	product.PriceMinor = 1899
	if err := store.Products().Update(ctx, product); err != nil {
		t.Fatalf("update product: %v", err)
	}
	history, err := store.Products().PriceHistory(ctx, product.ID)
	if err != nil {
		t.Fatalf("read price history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history records, got %d", len(history))
	}
	if history[0].ChangeType != domain.PriceChangeUpdate || history[0].NewPriceMinor != 1899 {
		t.Fatalf("unexpected latest history record: %+v", history[0])
	}
}

func TestIntegration_ConstraintMapping(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	customer, product := seedIntegrationCatalog(t, store)
	ctx := context.Background()

	dup := domain.Customer{
		ID: uuid.NewString(), Name: "Other", Email: "SAL123@SU.COM", CreatedAt: time.Now().UTC(),
	}
	if err := store.Customers().Create(ctx, dup); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	if err := store.Categories().Delete(ctx, product.CategoryID); !errors.Is(err, domain.ErrCategoryHasProducts) {
		t.Fatalf("expected ErrCategoryHasProducts, got %v", err)
	}

	orderID := uuid.NewString()
	err := store.WithinTx(ctx, func(ctx context.Context, tx domain.OrderTx) error {
		if err := tx.InsertOrder(ctx, domain.Order{
			ID: orderID, CustomerID: customer.ID, CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		return tx.InsertLine(ctx, domain.OrderLine{
			ID: uuid.NewString(), OrderID: orderID, ProductID: product.ID,
			PriceMinor: 1699, Qty: 1, CreatedAt: time.Now().UTC(),
		})
	})
	if err != nil {
		t.Fatalf("create referencing order: %v", err)
	}
	if err := store.Products().Delete(ctx, product.ID); !errors.Is(err, domain.ErrProductReferenced) {
		t.Fatalf("expected ErrProductReferenced, got %v", err)
	}
}

func TestPgErrorCodeHelpers(t *testing.T) {
	t.Parallel()

	if !isUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("expected unique violation for code 23505")
	}
	if !isForeignKeyViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("expected foreign key violation for code 23503")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "22001"}) {
		t.Fatal("did not expect unique violation for unrelated code")
	}
	if isForeignKeyViolation(errors.New("plain")) {
		t.Fatal("did not expect foreign key violation for non-pg error")
	}
}
