package httpapi

import (
	"time"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

type customerDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type categoryDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type productDTO struct {
	ID         string       `json:"id"`
	CategoryID string       `json:"category_id"`
	Name       string       `json:"name"`
	PriceMinor int64        `json:"price_minor"`
	Stock      int32        `json:"stock"`
	CreatedAt  time.Time    `json:"created_at"`
	Category   *categoryDTO `json:"category,omitempty"`
}

type orderLineDTO struct {
	ID            string      `json:"id"`
	ProductID     string      `json:"product_id"`
	PriceMinor    int64       `json:"price_minor"`
	Qty           int32       `json:"qty"`
	SubtotalMinor int64       `json:"subtotal_minor"`
	Product       *productDTO `json:"product,omitempty"`
}

type orderDTO struct {
	ID         string         `json:"id"`
	CustomerID string         `json:"customer_id"`
	CreatedAt  time.Time      `json:"created_at"`
	TotalMinor int64          `json:"total_minor"`
	Lines      []orderLineDTO `json:"lines"`
	Customer   *customerDTO   `json:"customer,omitempty"`
}

type orderSummaryDTO struct {
	OrderID       string    `json:"order_id"`
	OrderDate     time.Time `json:"order_date"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	TotalMinor    int64     `json:"total_minor"`
	LineCount     int       `json:"line_count"`
}

type priceChangeDTO struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name"`
	OldPriceMinor int64     `json:"old_price_minor"`
	NewPriceMinor int64     `json:"new_price_minor"`
	ChangedAt     time.Time `json:"changed_at"`
	ChangeType    string    `json:"change_type"`
}

func toCustomerDTO(c domain.Customer) customerDTO {
	return customerDTO{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
	}
}

func toCategoryDTO(c domain.Category) categoryDTO {
	return categoryDTO{ID: c.ID, Name: c.Name, Description: c.Description}
}

func toProductDTO(p domain.Product) productDTO {
	dto := productDTO{
		ID:         p.ID,
		CategoryID: p.CategoryID,
		Name:       p.Name,
		PriceMinor: p.PriceMinor,
		Stock:      p.Stock,
		CreatedAt:  p.CreatedAt,
	}
	if p.Category != nil {
		category := toCategoryDTO(*p.Category)
		dto.Category = &category
	}
	return dto
}

func toOrderDTO(o domain.Order) orderDTO {
	dto := orderDTO{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		CreatedAt:  o.CreatedAt,
		TotalMinor: o.TotalMinor,
		Lines:      make([]orderLineDTO, 0, len(o.Lines)),
	}
	for _, line := range o.Lines {
		lineDTO := orderLineDTO{
			ID:            line.ID,
			ProductID:     line.ProductID,
			PriceMinor:    line.PriceMinor,
			Qty:           line.Qty,
			SubtotalMinor: line.SubtotalMinor(),
		}
		if line.Product != nil {
			product := toProductDTO(*line.Product)
			lineDTO.Product = &product
		}
		dto.Lines = append(dto.Lines, lineDTO)
	}
	if o.Customer != nil {
		customer := toCustomerDTO(*o.Customer)
		dto.Customer = &customer
	}
	return dto
}

func toOrderDTOs(orders []domain.Order) []orderDTO {
	result := make([]orderDTO, 0, len(orders))
	for _, o := range orders {
		result = append(result, toOrderDTO(o))
	}
	return result
}

func toSummaryDTOs(summaries []domain.OrderSummary) []orderSummaryDTO {
	result := make([]orderSummaryDTO, 0, len(summaries))
	for _, s := range summaries {
		result = append(result, orderSummaryDTO{
			OrderID:       s.OrderID,
			OrderDate:     s.OrderDate,
			CustomerName:  s.CustomerName,
			CustomerEmail: s.CustomerEmail,
			TotalMinor:    s.TotalMinor,
			LineCount:     s.LineCount,
		})
	}
	return result
}

func toProductDTOs(products []domain.Product) []productDTO {
	result := make([]productDTO, 0, len(products))
	for _, p := range products {
		result = append(result, toProductDTO(p))
	}
	return result
}

func toPriceChangeDTOs(history []domain.PriceChange) []priceChangeDTO {
	result := make([]priceChangeDTO, 0, len(history))
	for _, change := range history {
		result = append(result, priceChangeDTO{
			ID:            change.ID,
			ProductID:     change.ProductID,
			ProductName:   change.ProductName,
			OldPriceMinor: change.OldPriceMinor,
			NewPriceMinor: change.NewPriceMinor,
			ChangedAt:     change.ChangedAt,
			ChangeType:    string(change.ChangeType),
		})
	}
	return result
}
