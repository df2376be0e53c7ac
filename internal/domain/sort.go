package domain

// SortKey перечисляет допустимые ключи сортировки списка заказов.
type SortKey string

const (
	SortKeyDate         SortKey = "Date"
	SortKeyTotalAmount  SortKey = "TotalAmount"
	SortKeyCustomerName SortKey = "CustomerName"
)

// Valid сообщает, относится ли ключ к поддерживаемому набору.
func (k SortKey) Valid() bool {
	switch k {
	case SortKeyDate, SortKeyTotalAmount, SortKeyCustomerName:
		return true
	default:
		return false
	}
}

// PageRequest описывает страничный запрос списка заказов.
type PageRequest struct {
	Page     int
	PageSize int
	Sort     SortKey
	Desc     bool
}

const defaultPageSize = 20

// Normalize приводит запрос к допустимому виду: страница и размер не
// меньше 1, нераспознанный ключ сортировки заменяется на Date по убыванию.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if !p.Sort.Valid() {
		p.Sort = SortKeyDate
		p.Desc = true
	}
	return p
}

// Offset возвращает смещение первой строки страницы.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}
