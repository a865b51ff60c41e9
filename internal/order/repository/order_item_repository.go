package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"brewline/internal/domain"
)

type MySQLOrderItemRepository struct {
	db *sql.DB
}

func NewMySQLOrderItemRepository(db *sql.DB) *MySQLOrderItemRepository {
	return &MySQLOrderItemRepository{db: db}
}

func (r *MySQLOrderItemRepository) Insert(ctx context.Context, tx *sql.Tx, item domain.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, menu_item_id, quantity, unit_price_cents,
			total_price_cents, special_instructions)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		item.ID, item.OrderID, item.MenuItemID, item.Quantity,
		item.UnitPriceCents, item.TotalPriceCents, item.SpecialInstructions,
	)
	if err != nil {
		return fmt.Errorf("inserting order item: %w", err)
	}

	return nil
}

func (r *MySQLOrderItemRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, menu_item_id, quantity, unit_price_cents,
		       total_price_cents, special_instructions
		FROM order_items
		WHERE order_id = ?
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity,
			&item.UnitPriceCents, &item.TotalPriceCents, &item.SpecialInstructions,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order item rows: %w", err)
	}

	return items, nil
}
