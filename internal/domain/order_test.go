package domain_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// helper для заказа с двумя позициями и согласованной суммой.
func makeOrder() domain.Order {
	now := time.Now().UTC()
	return domain.Order{
		ID:         "order-1",
		CustomerID: "customer-1",
		CreatedAt:  now,
		TotalMinor: 2*1699 + 4*1199,
		Lines: []domain.OrderLine{
			{ID: "line-1", OrderID: "order-1", ProductID: "product-1", PriceMinor: 1699, Qty: 2, CreatedAt: now},
			{ID: "line-2", OrderID: "order-1", ProductID: "product-2", PriceMinor: 1199, Qty: 4, CreatedAt: now},
		},
	}
}

func TestOrderTotalFromLines(t *testing.T) {
	order := makeOrder()
	if got := order.TotalFromLines(); got != 8194 {
		t.Fatalf("TotalFromLines() = %d, want 8194", got)
	}
}

func TestOrderLineByProduct(t *testing.T) {
	order := makeOrder()

	line := order.LineByProduct("product-2")
	if line == nil || line.ID != "line-2" {
		t.Fatalf("unexpected line: %+v", line)
	}
	if order.LineByProduct("missing") != nil {
		t.Fatal("expected nil for unknown product")
	}
}

func TestOrderValidateInvariants_Ok(t *testing.T) {
	order := makeOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestOrderValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *domain.Order)
	}{
		{
			name: "no customer",
			mut:  func(o *domain.Order) { o.CustomerID = "" },
		},
		{
			name: "zero qty line",
			mut:  func(o *domain.Order) { o.Lines[0].Qty = 0 },
		},
		{
			name: "non-positive captured price",
			mut:  func(o *domain.Order) { o.Lines[1].PriceMinor = 0 },
		},
		{
			name: "total mismatch",
			mut:  func(o *domain.Order) { o.TotalMinor = 1 },
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := makeOrder()
			tc.mut(&order)
			if len(order.ValidateInvariants()) == 0 {
				t.Fatalf("expected validation errors for case %s", tc.name)
			}
		})
	}
}

func TestLineSubtotal(t *testing.T) {
	line := domain.OrderLine{PriceMinor: 1699, Qty: 5}
	if got := line.SubtotalMinor(); got != 8495 {
		t.Fatalf("SubtotalMinor() = %d, want 8495", got)
	}
}
