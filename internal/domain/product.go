package domain

import (
	"strings"
	"time"
)

const (
	productNameMinLen = 2
	productNameMaxLen = 100

	// DefaultLowStockThreshold — порог по умолчанию для отчёта о товарах
	// с низким остатком.
	DefaultLowStockThreshold int32 = 10
)

// Product — товар каталога. Поле Stock защищается движком заказов:
// между транзакциями оно никогда не опускается ниже нуля.
type Product struct {
	ID         string
	CategoryID string
	Name       string
	// PriceMinor — текущая цена за единицу в минимальных денежных единицах.
	PriceMinor int64
	Stock      int32
	CreatedAt  time.Time

	// Category заполняется при "жадном" чтении, может быть nil.
	Category *Category
}

// Validate проверяет поля товара перед сохранением.
func (p *Product) Validate() []error {
	var errs []error

	name := strings.TrimSpace(p.Name)
	switch {
	case name == "":
		errs = append(errs, ErrNameRequired)
	case len(name) < productNameMinLen || len(name) > productNameMaxLen:
		errs = append(errs, ErrProductNameLength)
	}

	if p.PriceMinor <= 0 {
		errs = append(errs, ErrPriceInvalid)
	}
	if p.Stock < 0 {
		errs = append(errs, ErrStockNegative)
	}

	return errs
}

// PriceChangeType различает первичную фиксацию цены и её изменение.
type PriceChangeType string

const (
	PriceChangeInsert PriceChangeType = "INSERT"
	PriceChangeUpdate PriceChangeType = "UPDATE"
)

// PriceChange — запись истории цен товара. Ведётся слоем хранения
// (в PostgreSQL — триггером), движок заказов её только читает.
type PriceChange struct {
	ID            string
	ProductID     string
	ProductName   string
	OldPriceMinor int64
	NewPriceMinor int64
	ChangedAt     time.Time
	ChangeType    PriceChangeType
}
