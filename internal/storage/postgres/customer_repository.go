package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

const opTimeout = 5 * time.Second

// CustomerRepository — PostgreSQL-реализация CustomerRepository.
type CustomerRepository struct {
	db *sql.DB
}

func (r *CustomerRepository) Create(ctx context.Context, customer domain.Customer) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, address, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, customer.ID, customer.Name, customer.Email, customer.Address, customer.PasswordHash, customer.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) Get(ctx context.Context, id string) (domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return scanCustomer(r.db.QueryRowContext(ctx, `
		SELECT id, name, email, address, password_hash, created_at
		FROM customers
		WHERE id = $1
	`, id))
}

func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return scanCustomer(r.db.QueryRowContext(ctx, `
		SELECT id, name, email, address, password_hash, created_at
		FROM customers
		WHERE LOWER(email) = LOWER($1)
	`, email))
}

func (r *CustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, address, password_hash, created_at
		FROM customers
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Customer, 0)
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Address, &c.PasswordHash, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return result, nil
}

func scanCustomer(row *sql.Row) (domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Address, &c.PasswordHash, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	if err != nil {
		return domain.Customer{}, fmt.Errorf("scan customer: %w", err)
	}
	return c, nil
}

var _ domain.CustomerRepository = (*CustomerRepository)(nil)
