package domain

import (
	"errors"
	"time"
)

// OrderLine — одна позиция заказа. Цена фиксируется в момент создания
// позиции и больше не перечитывается из товара.
type OrderLine struct {
	ID        string
	OrderID   string
	ProductID string
	// PriceMinor — зафиксированная цена за единицу на момент добавления.
	PriceMinor int64
	Qty        int32
	CreatedAt  time.Time

	// Product заполняется при "жадном" чтении, может быть nil.
	Product *Product
}

// SubtotalMinor возвращает стоимость позиции.
func (l *OrderLine) SubtotalMinor() int64 {
	return int64(l.Qty) * l.PriceMinor
}

// Order агрегирует заказ и его позиции в порядке добавления.
type Order struct {
	ID         string
	CustomerID string
	CreatedAt  time.Time
	// TotalMinor — производная сумма: всегда равна сумме qty*price по позициям.
	TotalMinor int64
	Lines      []OrderLine

	// Customer заполняется при "жадном" чтении, может быть nil.
	Customer *Customer
}

// TotalFromLines пересчитывает сумму заказа по текущим позициям.
func (o *Order) TotalFromLines() int64 {
	var total int64
	for i := range o.Lines {
		total += o.Lines[i].SubtotalMinor()
	}
	return total
}

// LineByProduct возвращает позицию по товару или nil, если её нет.
func (o *Order) LineByProduct(productID string) *OrderLine {
	for i := range o.Lines {
		if o.Lines[i].ProductID == productID {
			return &o.Lines[i]
		}
	}
	return nil
}

// ValidateInvariants проверяет инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerID == "" {
		errs = append(errs, ErrCustomerNotFound)
	}

	for i := range o.Lines {
		if o.Lines[i].Qty <= 0 {
			errs = append(errs, ErrQuantityInvalid)
		}
		if o.Lines[i].PriceMinor <= 0 {
			errs = append(errs, ErrPriceInvalid)
		}
	}

	// Сумма заказа обязана совпадать с суммой позиций.
	if o.TotalMinor != o.TotalFromLines() {
		errs = append(errs, errTotalMismatch)
	}

	return errs
}

// errTotalMismatch не экспортируется: несоответствие суммы — внутренняя
// самопроверка, снаружи оно наблюдаться не должно.
var errTotalMismatch = errors.New("order total does not match lines sum")

// OrderSummary — строка read-only проекции для отчётности
// (в PostgreSQL — представление order_summary_view).
type OrderSummary struct {
	OrderID       string
	OrderDate     time.Time
	CustomerName  string
	CustomerEmail string
	TotalMinor    int64
	LineCount     int
}
