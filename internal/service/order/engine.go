// Package order содержит транзакционный движок заказов: единственный
// компонент, которому разрешено изменять заказы, позиции и остатки товаров.
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/metrics"
)

// ItemRequest — одна запрошенная позиция при создании заказа.
type ItemRequest struct {
	ProductID string
	Qty       int32
}

// Engine координирует многострочные записи по заказам, позициям и
// остаткам внутри одной транзакции хранилища. Каждая мутация либо
// применяется целиком, либо не оставляет никаких следов.
type Engine struct {
	store     domain.OrderStore
	products  domain.ProductRepository
	publisher domain.OrderEventPublisher
	metrics   *metrics.OrderMetrics
	logger    *log.Entry
}

// NewEngine конструирует движок. publisher и m могут быть nil —
// события и метрики тогда просто не публикуются.
func NewEngine(
	store domain.OrderStore,
	products domain.ProductRepository,
	publisher domain.OrderEventPublisher,
	m *metrics.OrderMetrics,
	logger *log.Entry,
) *Engine {
	if logger == nil {
		logger = log.WithField("component", "order-engine")
	}
	return &Engine{
		store:     store,
		products:  products,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// Create создаёт заказ по списку позиций. Все предусловия проверяются
// до первой записи: клиент существует, товары существуют, количества
// положительны, дубликатов товаров нет, остатков хватает. Цена каждой
// позиции фиксируется из текущей цены товара.
func (e *Engine) Create(ctx context.Context, customerID string, items []ItemRequest) (domain.Order, error) {
	started := time.Now()

	if len(items) == 0 {
		return domain.Order{}, domain.ErrItemsRequired
	}

	var created domain.Order
	err := e.store.WithinTx(ctx, func(ctx context.Context, tx domain.OrderTx) error {
		customer, err := tx.CustomerByID(ctx, customerID)
		if err != nil {
			return err
		}

		// Фаза валидации: ни одной записи, пока не проверены все позиции.
		seen := make(map[string]struct{}, len(items))
		products := make([]domain.Product, 0, len(items))
		for _, item := range items {
			if item.Qty <= 0 {
				return domain.ErrQuantityInvalid
			}
			if _, dup := seen[item.ProductID]; dup {
				return fmt.Errorf("%w: %s", domain.ErrDuplicateProduct, item.ProductID)
			}
			seen[item.ProductID] = struct{}{}

			product, err := tx.ProductForUpdate(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if product.Stock < item.Qty {
				return &domain.InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Available:   product.Stock,
					Requested:   item.Qty,
				}
			}
			products = append(products, product)
		}

		// Фаза записи: заказ, позиции, списание остатков, итоговая сумма.
		now := time.Now().UTC()
		order := domain.Order{
			ID:         uuid.NewString(),
			CustomerID: customerID,
			CreatedAt:  now,
			TotalMinor: 0,
		}
		if err := tx.InsertOrder(ctx, order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		var total int64
		for i, item := range items {
			line := domain.OrderLine{
				ID:         uuid.NewString(),
				OrderID:    order.ID,
				ProductID:  item.ProductID,
				PriceMinor: products[i].PriceMinor,
				Qty:        item.Qty,
				CreatedAt:  now,
			}
			if err := tx.InsertLine(ctx, line); err != nil {
				return fmt.Errorf("insert order line: %w", err)
			}
			if err := tx.AdjustStock(ctx, item.ProductID, -item.Qty); err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			total += line.SubtotalMinor()
			order.Lines = append(order.Lines, line)
		}

		if err := tx.SetOrderTotal(ctx, order.ID, total); err != nil {
			return fmt.Errorf("set order total: %w", err)
		}
		order.TotalMinor = total
		order.Customer = &customer
		created = order
		return nil
	})
	if err != nil {
		e.observeFailure("create", started, err)
		return domain.Order{}, err
	}

	e.observeSuccess("create", started)
	if e.metrics != nil {
		e.metrics.OrderCreated()
	}
	e.publishEvent(domain.EventOrderCreated, created)

	e.logger.WithFields(log.Fields{
		"order_id":    created.ID,
		"customer_id": created.CustomerID,
		"lines":       len(created.Lines),
		"total_minor": created.TotalMinor,
	}).Info("order created")

	return created, nil
}

// UpdateItems изменяет количество одного товара в заказе.
// newQty <= 0 удаляет позицию (no-op, если её нет); рост количества
// требует остатка под дельту; зафиксированная цена не меняется.
func (e *Engine) UpdateItems(ctx context.Context, orderID, productID string, newQty int32) (domain.Order, error) {
	started := time.Now()

	var updated domain.Order
	err := e.store.WithinTx(ctx, func(ctx context.Context, tx domain.OrderTx) error {
		order, err := tx.OrderWithLines(ctx, orderID)
		if err != nil {
			return err
		}
		product, err := tx.ProductForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		line := order.LineByProduct(productID)
		switch {
		case newQty <= 0 && line == nil:
			// Удаление отсутствующей позиции — успешный no-op.

		case newQty <= 0:
			// Удаляем позицию и возвращаем её количество на остаток.
			if err := tx.DeleteLine(ctx, line.ID); err != nil {
				return fmt.Errorf("delete order line: %w", err)
			}
			if err := tx.AdjustStock(ctx, productID, line.Qty); err != nil {
				return fmt.Errorf("restore stock: %w", err)
			}

		case line == nil:
			// Новая позиция: фиксируем текущую цену, списываем остаток.
			if product.Stock < newQty {
				return &domain.InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Available:   product.Stock,
					Requested:   newQty,
				}
			}
			newLine := domain.OrderLine{
				ID:         uuid.NewString(),
				OrderID:    orderID,
				ProductID:  productID,
				PriceMinor: product.PriceMinor,
				Qty:        newQty,
				CreatedAt:  time.Now().UTC(),
			}
			if err := tx.InsertLine(ctx, newLine); err != nil {
				return fmt.Errorf("insert order line: %w", err)
			}
			if err := tx.AdjustStock(ctx, productID, -newQty); err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}

		default:
			// Меняем количество существующей позиции на дельту.
			delta := newQty - line.Qty
			if delta > 0 && product.Stock < delta {
				return &domain.InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Available:   product.Stock,
					Requested:   delta,
				}
			}
			if err := tx.UpdateLineQty(ctx, line.ID, newQty); err != nil {
				return fmt.Errorf("update line qty: %w", err)
			}
			if err := tx.AdjustStock(ctx, productID, -delta); err != nil {
				return fmt.Errorf("adjust stock: %w", err)
			}
		}

		// Пересчитываем сумму по актуальным позициям и фиксируем её.
		order, err = tx.OrderWithLines(ctx, orderID)
		if err != nil {
			return fmt.Errorf("reload order: %w", err)
		}
		total := order.TotalFromLines()
		if err := tx.SetOrderTotal(ctx, orderID, total); err != nil {
			return fmt.Errorf("set order total: %w", err)
		}
		order.TotalMinor = total
		updated = order
		return nil
	})
	if err != nil {
		e.observeFailure("update_items", started, err)
		return domain.Order{}, err
	}

	e.observeSuccess("update_items", started)
	if e.metrics != nil {
		e.metrics.OrderUpdated()
	}
	e.publishEvent(domain.EventOrderItemsUpdated, updated)

	e.logger.WithFields(log.Fields{
		"order_id":    updated.ID,
		"product_id":  productID,
		"new_qty":     newQty,
		"total_minor": updated.TotalMinor,
	}).Info("order items updated")

	return updated, nil
}

// Delete удаляет заказ, возвращая количества всех его позиций на остатки.
func (e *Engine) Delete(ctx context.Context, orderID string) error {
	started := time.Now()

	var deleted domain.Order
	err := e.store.WithinTx(ctx, func(ctx context.Context, tx domain.OrderTx) error {
		order, err := tx.OrderWithLines(ctx, orderID)
		if err != nil {
			return err
		}

		var restored int32
		for _, line := range order.Lines {
			if err := tx.AdjustStock(ctx, line.ProductID, line.Qty); err != nil {
				return fmt.Errorf("restore stock: %w", err)
			}
			restored += line.Qty
		}
		if err := tx.DeleteOrderLines(ctx, orderID); err != nil {
			return fmt.Errorf("delete order lines: %w", err)
		}
		if err := tx.DeleteOrder(ctx, orderID); err != nil {
			return fmt.Errorf("delete order: %w", err)
		}

		deleted = order
		if e.metrics != nil {
			e.metrics.StockRestored(restored)
		}
		return nil
	})
	if err != nil {
		e.observeFailure("delete", started, err)
		return err
	}

	e.observeSuccess("delete", started)
	if e.metrics != nil {
		e.metrics.OrderDeleted()
	}
	e.publishEvent(domain.EventOrderDeleted, deleted)

	e.logger.WithFields(log.Fields{
		"order_id": orderID,
		"lines":    len(deleted.Lines),
	}).Info("order deleted, stock restored")

	return nil
}

// Get возвращает заказ с клиентом и товарами позиций.
func (e *Engine) Get(ctx context.Context, orderID string) (domain.Order, error) {
	return e.store.OrderByID(ctx, orderID)
}

// List возвращает все заказы, новые первыми.
func (e *Engine) List(ctx context.Context) ([]domain.Order, error) {
	return e.store.ListOrders(ctx)
}

// ListPaged возвращает страницу заказов; нераспознанный ключ сортировки
// заменяется на Date по убыванию.
func (e *Engine) ListPaged(ctx context.Context, page domain.PageRequest) ([]domain.Order, error) {
	return e.store.ListOrdersPaged(ctx, page.Normalize())
}

// ListByCustomer возвращает историю заказов клиента, новые первыми.
func (e *Engine) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return e.store.ListOrdersByCustomer(ctx, customerID)
}

// Count возвращает общее число заказов (для пагинации).
func (e *Engine) Count(ctx context.Context) (int, error) {
	return e.store.CountOrders(ctx)
}

// LowStock возвращает товары с остатком не выше порога; threshold <= 0
// заменяется порогом по умолчанию.
func (e *Engine) LowStock(ctx context.Context, threshold int32) ([]domain.Product, error) {
	if threshold <= 0 {
		threshold = domain.DefaultLowStockThreshold
	}
	products, err := e.products.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}
	if e.metrics != nil {
		e.metrics.SetLowStockProducts(len(products))
	}
	return products, nil
}

// Summaries читает отчётную проекцию заказов. Движок её не поддерживает
// вручную: проекция вычисляется слоем хранения.
func (e *Engine) Summaries(ctx context.Context) ([]domain.OrderSummary, error) {
	return e.store.Summaries(ctx)
}

// publishEvent отправляет событие после коммита; сбой публикации не
// влияет на результат операции.
func (e *Engine) publishEvent(eventType string, order domain.Order) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.PublishOrderEvent(eventType, order); err != nil {
		e.logger.WithError(err).WithFields(log.Fields{
			"event_type": eventType,
			"order_id":   order.ID,
		}).Warn("failed to publish order event")
	}
}

func (e *Engine) observeSuccess(op string, started time.Time) {
	if e.metrics != nil {
		e.metrics.ObserveTxDuration(op, time.Since(started))
	}
}

func (e *Engine) observeFailure(op string, started time.Time, err error) {
	if e.metrics != nil {
		e.metrics.ObserveTxDuration(op, time.Since(started))
		e.metrics.OperationFailed(op, failureReason(err))
	}
	e.logger.WithError(err).WithField("op", op).Debug("order operation rejected")
}

// failureReason сводит ошибку к метке таксономии отказов.
func failureReason(err error) string {
	switch {
	case domain.IsNotFound(err):
		return "not_found"
	case domain.IsValidation(err):
		return "validation"
	case domain.IsInsufficientStock(err):
		return "insufficient_stock"
	default:
		return "unexpected"
	}
}
