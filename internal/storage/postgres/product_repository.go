package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// ProductRepository — PostgreSQL-реализация ProductRepository.
// История цен пишется триггером на таблице products.
type ProductRepository struct {
	db *sql.DB
}

const productColumns = `
	p.id, p.category_id, p.name, p.price_minor, p.stock, p.created_at,
	c.id, c.name, c.description
`

func (r *ProductRepository) Create(ctx context.Context, product domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, category_id, name, price_minor, stock, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, product.ID, product.CategoryID, product.Name, product.PriceMinor, product.Stock, product.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryNotFound
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Get(ctx context.Context, id string) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`, id)

	product, err := scanProduct(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("scan product: %w", err)
	}
	return product, nil
}

func (r *ProductRepository) List(ctx context.Context, search string) ([]domain.Product, error) {
	return r.queryProducts(ctx, `
		SELECT `+productColumns+`
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE $1 = '' OR p.name ILIKE '%' || $1 || '%'
		ORDER BY p.name
	`, search)
}

func (r *ProductRepository) Update(ctx context.Context, product domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET category_id = $2, name = $3, price_minor = $4, stock = $5
		WHERE id = $1
	`, product.ID, product.CategoryID, product.Name, product.PriceMinor, product.Stock)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		// FK RESTRICT со стороны order_lines.
		if isForeignKeyViolation(err) {
			return domain.ErrProductReferenced
		}
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) ListLowStock(ctx context.Context, threshold int32) ([]domain.Product, error) {
	return r.queryProducts(ctx, `
		SELECT `+productColumns+`
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.stock <= $1
		ORDER BY p.stock, p.name
	`, threshold)
}

func (r *ProductRepository) PriceHistory(ctx context.Context, productID string) ([]domain.PriceChange, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, product_name, old_price_minor, new_price_minor, changed_at, change_type
		FROM product_price_history
		WHERE product_id = $1
		ORDER BY changed_at DESC
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("query price history: %w", err)
	}
	defer rows.Close()

	result := make([]domain.PriceChange, 0)
	for rows.Next() {
		var (
			change     domain.PriceChange
			changeType string
		)
		if err := rows.Scan(
			&change.ID, &change.ProductID, &change.ProductName,
			&change.OldPriceMinor, &change.NewPriceMinor, &change.ChangedAt, &changeType,
		); err != nil {
			return nil, fmt.Errorf("scan price change: %w", err)
		}
		change.ChangeType = domain.PriceChangeType(changeType)
		result = append(result, change)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price history: %w", err)
	}
	return result, nil
}

func (r *ProductRepository) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		result = append(result, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return result, nil
}

func scanProduct(scan func(dest ...any) error) (domain.Product, error) {
	var (
		product  domain.Product
		category domain.Category
	)
	if err := scan(
		&product.ID, &product.CategoryID, &product.Name, &product.PriceMinor, &product.Stock, &product.CreatedAt,
		&category.ID, &category.Name, &category.Description,
	); err != nil {
		return domain.Product{}, err
	}
	product.Category = &category
	return product, nil
}

var _ domain.ProductRepository = (*ProductRepository)(nil)
