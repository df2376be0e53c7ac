package memory

import (
	"context"
	"sort"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// WithinTx выполняет fn над отложенной копией товаров и заказов.
// Копия подменяет основное состояние только после успешного завершения fn,
// поэтому любая ошибка откатывает все записи транзакции целиком.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.OrderTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{
		customers: s.customers,
		products:  cloneProductMap(s.products),
		orders:    cloneOrderMap(s.orders),
	}

	if err := fn(ctx, tx); err != nil {
		return err
	}

	s.products = tx.products
	s.orders = tx.orders
	return nil
}

// memTx — транзакционное представление хранилища. Клиентов движок не
// изменяет, поэтому они читаются напрямую из основного состояния.
type memTx struct {
	customers map[string]domain.Customer
	products  map[string]domain.Product
	orders    map[string]domain.Order
}

func (t *memTx) CustomerByID(_ context.Context, id string) (domain.Customer, error) {
	customer, ok := t.customers[id]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return customer, nil
}

// ProductForUpdate в памяти не блокирует строку: транзакция и так
// владеет копией состояния эксклюзивно.
func (t *memTx) ProductForUpdate(_ context.Context, id string) (domain.Product, error) {
	product, ok := t.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

func (t *memTx) OrderWithLines(_ context.Context, id string) (domain.Order, error) {
	order, ok := t.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

func (t *memTx) InsertOrder(_ context.Context, order domain.Order) error {
	t.orders[order.ID] = cloneOrder(order)
	return nil
}

func (t *memTx) InsertLine(_ context.Context, line domain.OrderLine) error {
	order, ok := t.orders[line.OrderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	line.Product = nil
	order.Lines = append(order.Lines, line)
	t.orders[order.ID] = order
	return nil
}

func (t *memTx) UpdateLineQty(_ context.Context, lineID string, qty int32) error {
	for orderID, order := range t.orders {
		for i := range order.Lines {
			if order.Lines[i].ID == lineID {
				order.Lines[i].Qty = qty
				t.orders[orderID] = order
				return nil
			}
		}
	}
	return domain.ErrOrderNotFound
}

func (t *memTx) DeleteLine(_ context.Context, lineID string) error {
	for orderID, order := range t.orders {
		for i := range order.Lines {
			if order.Lines[i].ID == lineID {
				order.Lines = append(order.Lines[:i], order.Lines[i+1:]...)
				t.orders[orderID] = order
				return nil
			}
		}
	}
	return domain.ErrOrderNotFound
}

func (t *memTx) DeleteOrderLines(_ context.Context, orderID string) error {
	order, ok := t.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	order.Lines = nil
	t.orders[orderID] = order
	return nil
}

func (t *memTx) DeleteOrder(_ context.Context, orderID string) error {
	if _, ok := t.orders[orderID]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(t.orders, orderID)
	return nil
}

func (t *memTx) AdjustStock(_ context.Context, productID string, delta int32) error {
	product, ok := t.products[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if product.Stock+delta < 0 {
		// Страховка уровня хранилища, аналог CHECK (stock >= 0).
		return &domain.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.Stock,
			Requested:   -delta,
		}
	}
	product.Stock += delta
	t.products[productID] = product
	return nil
}

func (t *memTx) SetOrderTotal(_ context.Context, orderID string, totalMinor int64) error {
	order, ok := t.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	order.TotalMinor = totalMinor
	t.orders[orderID] = order
	return nil
}

var _ domain.OrderTx = (*memTx)(nil)

// OrderByID возвращает заказ с клиентом и товарами позиций.
func (s *Store) OrderByID(_ context.Context, id string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return s.hydrateLocked(order), nil
}

// ListOrders возвращает все заказы, новые первыми.
func (s *Store) ListOrders(_ context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := s.collectLocked(func(domain.Order) bool { return true })
	sortOrders(result, domain.SortKeyDate, true)
	return result, nil
}

// ListOrdersPaged возвращает страницу заказов с сортировкой по ключу.
// Запрос должен быть заранее нормализован (см. PageRequest.Normalize).
func (s *Store) ListOrdersPaged(_ context.Context, page domain.PageRequest) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := s.collectLocked(func(domain.Order) bool { return true })
	sortOrders(result, page.Sort, page.Desc)

	offset := page.Offset()
	if offset >= len(result) {
		return []domain.Order{}, nil
	}
	end := offset + page.PageSize
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], nil
}

// ListOrdersByCustomer возвращает историю заказов клиента, новые первыми.
func (s *Store) ListOrdersByCustomer(_ context.Context, customerID string) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := s.collectLocked(func(o domain.Order) bool { return o.CustomerID == customerID })
	sortOrders(result, domain.SortKeyDate, true)
	return result, nil
}

// CountOrders возвращает общее число заказов.
func (s *Store) CountOrders(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders), nil
}

// Summaries собирает отчётную проекцию по заказам, новые первыми.
func (s *Store) Summaries(_ context.Context) ([]domain.OrderSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.OrderSummary, 0, len(s.orders))
	for _, order := range s.orders {
		summary := domain.OrderSummary{
			OrderID:    order.ID,
			OrderDate:  order.CreatedAt,
			TotalMinor: order.TotalMinor,
			LineCount:  len(order.Lines),
		}
		if customer, ok := s.customers[order.CustomerID]; ok {
			summary.CustomerName = customer.Name
			summary.CustomerEmail = customer.Email
		}
		result = append(result, summary)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].OrderDate.Equal(result[j].OrderDate) {
			return result[i].OrderDate.After(result[j].OrderDate)
		}
		return result[i].OrderID > result[j].OrderID
	})
	return result, nil
}

func (s *Store) collectLocked(keep func(domain.Order) bool) []domain.Order {
	result := make([]domain.Order, 0, len(s.orders))
	for _, order := range s.orders {
		if keep(order) {
			result = append(result, s.hydrateLocked(order))
		}
	}
	return result
}

// hydrateLocked возвращает копию заказа с присоединёнными клиентом и товарами.
func (s *Store) hydrateLocked(order domain.Order) domain.Order {
	out := cloneOrder(order)
	if customer, ok := s.customers[order.CustomerID]; ok {
		customer := customer
		out.Customer = &customer
	}
	for i := range out.Lines {
		if product, ok := s.products[out.Lines[i].ProductID]; ok {
			product := product
			out.Lines[i].Product = &product
		}
	}
	return out
}

func sortOrders(orders []domain.Order, key domain.SortKey, desc bool) {
	less := func(i, j int) bool {
		switch key {
		case domain.SortKeyTotalAmount:
			if orders[i].TotalMinor != orders[j].TotalMinor {
				return orders[i].TotalMinor < orders[j].TotalMinor
			}
		case domain.SortKeyCustomerName:
			ni, nj := customerName(orders[i]), customerName(orders[j])
			if ni != nj {
				return ni < nj
			}
		default:
			if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
				return orders[i].CreatedAt.Before(orders[j].CreatedAt)
			}
		}
		return orders[i].ID < orders[j].ID
	}
	if desc {
		sort.Slice(orders, func(i, j int) bool { return less(j, i) })
		return
	}
	sort.Slice(orders, less)
}

func customerName(o domain.Order) string {
	if o.Customer != nil {
		return o.Customer.Name
	}
	return ""
}

var _ domain.OrderStore = (*Store)(nil)
