package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// WithinTx выполняет fn в одной транзакции БД. Любая ошибка fn откатывает
// транзакцию целиком; чтение товаров внутри идёт с блокировкой FOR UPDATE,
// поэтому конкурентные транзакции по одному товару сериализуются.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.OrderTx) error) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(ctx, &pgTx{tx: dbTx}); err != nil {
		_ = dbTx.Rollback()
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// pgTx — транзакционное представление поверх sql.Tx.
type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) CustomerByID(ctx context.Context, id string) (domain.Customer, error) {
	var c domain.Customer
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, name, email, address, password_hash, created_at
		FROM customers
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Email, &c.Address, &c.PasswordHash, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	if err != nil {
		return domain.Customer{}, fmt.Errorf("scan customer: %w", err)
	}
	return c, nil
}

func (t *pgTx) ProductForUpdate(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, category_id, name, price_minor, stock, created_at
		FROM products
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&p.ID, &p.CategoryID, &p.Name, &p.PriceMinor, &p.Stock, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("scan product for update: %w", err)
	}
	return p, nil
}

func (t *pgTx) OrderWithLines(ctx context.Context, id string) (domain.Order, error) {
	var order domain.Order
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, customer_id, created_at, total_minor
		FROM orders
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&order.ID, &order.CustomerID, &order.CreatedAt, &order.TotalMinor)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("scan order: %w", err)
	}

	rows, err := t.tx.QueryContext(ctx, `
		SELECT id, order_id, product_id, price_minor, qty, created_at
		FROM order_lines
		WHERE order_id = $1
		ORDER BY created_at, id
	`, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("query order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.PriceMinor, &line.Qty, &line.CreatedAt); err != nil {
			return domain.Order{}, fmt.Errorf("scan order line: %w", err)
		}
		order.Lines = append(order.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("iterate order lines: %w", err)
	}
	return order, nil
}

func (t *pgTx) InsertOrder(ctx context.Context, order domain.Order) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, created_at, total_minor)
		VALUES ($1, $2, $3, $4)
	`, order.ID, order.CustomerID, order.CreatedAt, order.TotalMinor)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCustomerNotFound
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (t *pgTx) InsertLine(ctx context.Context, line domain.OrderLine) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO order_lines (id, order_id, product_id, price_minor, qty, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, line.ID, line.OrderID, line.ProductID, line.PriceMinor, line.Qty, line.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("insert order line: %w", err)
	}
	return nil
}

func (t *pgTx) UpdateLineQty(ctx context.Context, lineID string, qty int32) error {
	return t.execExpectRow(ctx, `
		UPDATE order_lines SET qty = $2 WHERE id = $1
	`, domain.ErrOrderNotFound, lineID, qty)
}

func (t *pgTx) DeleteLine(ctx context.Context, lineID string) error {
	return t.execExpectRow(ctx, `
		DELETE FROM order_lines WHERE id = $1
	`, domain.ErrOrderNotFound, lineID)
}

func (t *pgTx) DeleteOrderLines(ctx context.Context, orderID string) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM order_lines WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("delete order lines: %w", err)
	}
	return nil
}

func (t *pgTx) DeleteOrder(ctx context.Context, orderID string) error {
	return t.execExpectRow(ctx, `
		DELETE FROM orders WHERE id = $1
	`, domain.ErrOrderNotFound, orderID)
}

// AdjustStock изменяет остаток товара. Условие stock + delta >= 0 в самом
// UPDATE не даёт уйти в минус и не прерывает транзакцию, как сделал бы
// CHECK: при нехватке остатка строка просто не обновляется, и мы читаем
// актуальное состояние для деталей отказа.
func (t *pgTx) AdjustStock(ctx context.Context, productID string, delta int32) error {
	result, err := t.tx.ExecContext(ctx, `
		UPDATE products SET stock = stock + $2 WHERE id = $1 AND stock + $2 >= 0
	`, productID, delta)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjust stock rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var (
		name  string
		stock int32
	)
	err = t.tx.QueryRowContext(ctx, `
		SELECT name, stock FROM products WHERE id = $1
	`, productID).Scan(&name, &stock)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("read product stock: %w", err)
	}
	return &domain.InsufficientStockError{
		ProductID:   productID,
		ProductName: name,
		Available:   stock,
		Requested:   -delta,
	}
}

func (t *pgTx) SetOrderTotal(ctx context.Context, orderID string, totalMinor int64) error {
	return t.execExpectRow(ctx, `
		UPDATE orders SET total_minor = $2 WHERE id = $1
	`, domain.ErrOrderNotFound, orderID, totalMinor)
}

func (t *pgTx) execExpectRow(ctx context.Context, query string, notFound error, args ...any) error {
	result, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}

var _ domain.OrderTx = (*pgTx)(nil)

// OrderByID возвращает заказ с клиентом и товарами позиций.
func (s *Store) OrderByID(ctx context.Context, id string) (domain.Order, error) {
	orders, err := s.queryOrders(ctx, `WHERE o.id = $1`, "", id)
	if err != nil {
		return domain.Order{}, err
	}
	if len(orders) == 0 {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return orders[0], nil
}

// ListOrders возвращает все заказы, новые первыми.
func (s *Store) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.queryOrders(ctx, "", `ORDER BY o.created_at DESC, o.id DESC`)
}

// ListOrdersPaged возвращает страницу заказов. Ключ сортировки
// отображается в выражение ORDER BY по белому списку.
func (s *Store) ListOrdersPaged(ctx context.Context, page domain.PageRequest) ([]domain.Order, error) {
	direction := "ASC"
	if page.Desc {
		direction = "DESC"
	}

	var orderBy string
	switch page.Sort {
	case domain.SortKeyTotalAmount:
		orderBy = fmt.Sprintf("ORDER BY o.total_minor %s, o.id %s", direction, direction)
	case domain.SortKeyCustomerName:
		orderBy = fmt.Sprintf("ORDER BY c.name %s, o.id %s", direction, direction)
	default:
		orderBy = fmt.Sprintf("ORDER BY o.created_at %s, o.id %s", direction, direction)
	}
	orderBy += fmt.Sprintf(" LIMIT %d OFFSET %d", page.PageSize, page.Offset())

	return s.queryOrders(ctx, "", orderBy)
}

// ListOrdersByCustomer возвращает историю заказов клиента, новые первыми.
func (s *Store) ListOrdersByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return s.queryOrders(ctx, `WHERE o.customer_id = $1`, `ORDER BY o.created_at DESC, o.id DESC`, customerID)
}

// CountOrders возвращает общее число заказов.
func (s *Store) CountOrders(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return count, nil
}

// Summaries читает отчётную проекцию из order_summary_view.
func (s *Store) Summaries(ctx context.Context) ([]domain.OrderSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT order_id, order_date, customer_name, customer_email, total_minor, line_count
		FROM order_summary_view
		ORDER BY order_date DESC, order_id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query order summaries: %w", err)
	}
	defer rows.Close()

	result := make([]domain.OrderSummary, 0)
	for rows.Next() {
		var summary domain.OrderSummary
		if err := rows.Scan(
			&summary.OrderID, &summary.OrderDate, &summary.CustomerName,
			&summary.CustomerEmail, &summary.TotalMinor, &summary.LineCount,
		); err != nil {
			return nil, fmt.Errorf("scan order summary: %w", err)
		}
		result = append(result, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order summaries: %w", err)
	}
	return result, nil
}

// queryOrders читает заказы вместе с клиентом одним запросом, а позиции
// с товарами — вторым, и склеивает их в памяти.
func (s *Store) queryOrders(ctx context.Context, where, tail string, args ...any) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	query := `
		SELECT o.id, o.customer_id, o.created_at, o.total_minor,
		       c.id, c.name, c.email, c.address, c.password_hash, c.created_at
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
	` + where + " " + tail

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	index := make(map[string]int)
	ids := make([]string, 0)
	for rows.Next() {
		var (
			order    domain.Order
			customer domain.Customer
		)
		if err := rows.Scan(
			&order.ID, &order.CustomerID, &order.CreatedAt, &order.TotalMinor,
			&customer.ID, &customer.Name, &customer.Email, &customer.Address,
			&customer.PasswordHash, &customer.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		order.Customer = &customer
		index[order.ID] = len(orders)
		ids = append(ids, order.ID)
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	if err := s.attachLines(ctx, orders, index, ids); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) attachLines(ctx context.Context, orders []domain.Order, index map[string]int, ids []string) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.id, l.order_id, l.product_id, l.price_minor, l.qty, l.created_at,
		       p.id, p.category_id, p.name, p.price_minor, p.stock, p.created_at
		FROM order_lines l
		JOIN products p ON p.id = l.product_id
		WHERE l.order_id = ANY($1)
		ORDER BY l.created_at, l.id
	`, ids)
	if err != nil {
		return fmt.Errorf("query order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			line    domain.OrderLine
			product domain.Product
		)
		if err := rows.Scan(
			&line.ID, &line.OrderID, &line.ProductID, &line.PriceMinor, &line.Qty, &line.CreatedAt,
			&product.ID, &product.CategoryID, &product.Name, &product.PriceMinor, &product.Stock, &product.CreatedAt,
		); err != nil {
			return fmt.Errorf("scan order line: %w", err)
		}
		line.Product = &product
		if i, ok := index[line.OrderID]; ok {
			orders[i].Lines = append(orders[i].Lines, line)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate order lines: %w", err)
	}
	return nil
}

var _ domain.OrderStore = (*Store)(nil)
