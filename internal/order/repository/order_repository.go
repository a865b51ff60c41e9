package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"brewline/internal/domain"
	"brewline/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const orderColumns = `id, customer_id, shop_id, status, subtotal_cents, tax_cents, total_cents,
	       special_instructions, created_at, updated_at, estimated_ready_time,
	       completed_at, cancellation_reason`

func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, order domain.Order) error {
	query := `
		INSERT INTO orders (id, customer_id, shop_id, status, subtotal_cents, tax_cents,
			total_cents, special_instructions, created_at, estimated_ready_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		order.ID, order.CustomerID, order.ShopID, order.Status,
		order.SubtotalCents, order.TaxCents, order.TotalCents,
		order.SpecialInstructions, order.CreatedAt, order.EstimatedReadyTime,
	)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	return nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = ?`, orderColumns)

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return order, nil
}

func (r *MySQLOrderRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = ? FOR UPDATE`, orderColumns)

	order, err := scanOrder(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order for update: %w", err)
	}

	return order, nil
}

func (r *MySQLOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE customer_id = ? ORDER BY created_at DESC`, orderColumns)

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("querying orders by customer: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

// Update persists the mutable fields of an order. Immutable identity
// and money columns are never rewritten.
func (r *MySQLOrderRepository) Update(ctx context.Context, tx *sql.Tx, order domain.Order) error {
	query := `
		UPDATE orders
		SET status = ?, updated_at = ?, estimated_ready_time = ?, completed_at = ?,
			cancellation_reason = ?
		WHERE id = ?
	`

	result, err := tx.ExecContext(ctx, query,
		order.Status, order.UpdatedAt, order.EstimatedReadyTime,
		order.CompletedAt, order.CancellationReason, order.ID,
	)
	if err != nil {
		return fmt.Errorf("updating order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %s not found", order.ID))
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID, &order.CustomerID, &order.ShopID, &order.Status,
		&order.SubtotalCents, &order.TaxCents, &order.TotalCents,
		&order.SpecialInstructions, &order.CreatedAt, &order.UpdatedAt,
		&order.EstimatedReadyTime, &order.CompletedAt, &order.CancellationReason,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}
