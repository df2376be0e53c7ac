package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// CategoryRepository — PostgreSQL-реализация CategoryRepository.
type CategoryRepository struct {
	db *sql.DB
}

func (r *CategoryRepository) Create(ctx context.Context, category domain.Category) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, description)
		VALUES ($1, $2, $3)
	`, category.ID, category.Name, category.Description)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCategoryNameTaken
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) Get(ctx context.Context, id string) (domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var c domain.Category
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description
		FROM categories
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Category{}, domain.ErrCategoryNotFound
	}
	if err != nil {
		return domain.Category{}, fmt.Errorf("scan category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepository) List(ctx context.Context, search string) ([]domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description
		FROM categories
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
		ORDER BY name
	`, search)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return result, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category domain.Category) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `
		UPDATE categories
		SET name = $2, description = $3
		WHERE id = $1
	`, category.ID, category.Name, category.Description)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCategoryNameTaken
		}
		return fmt.Errorf("update category: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update category rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		// FK RESTRICT со стороны products.
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryHasProducts
		}
		return fmt.Errorf("delete category: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

var _ domain.CategoryRepository = (*CategoryRepository)(nil)
