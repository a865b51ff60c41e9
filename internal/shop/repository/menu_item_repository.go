package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"brewline/internal/domain"
	"brewline/internal/errors"
)

type MySQLMenuItemRepository struct {
	db *sql.DB
}

func NewMySQLMenuItemRepository(db *sql.DB) *MySQLMenuItemRepository {
	return &MySQLMenuItemRepository{db: db}
}

const menuItemColumns = `id, shop_id, name, description, price_cents, category, image_url,
	       is_available, preparation_time_minutes, calories, allergens, sort_order,
	       created_at, updated_at`

func (r *MySQLMenuItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.MenuItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM menu_items WHERE id = ?`, menuItemColumns)

	item, err := scanMenuItem(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("menu item with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying menu item by id: %w", err)
	}

	return item, nil
}

func (r *MySQLMenuItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	idArgs := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		idArgs = append(idArgs, id)
	}

	query, args, err := sq.Select(menuItemColumns).
		From("menu_items").
		Where(sq.Eq{"id": idArgs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building menu item query: %w", err)
	}

	return r.queryMenuItems(ctx, query, args...)
}

// MenuFilter narrows a shop's menu listing.
type MenuFilter struct {
	Category      *string
	AvailableOnly bool
}

func (r *MySQLMenuItemRepository) ListByShop(ctx context.Context, shopID uuid.UUID, filter MenuFilter) ([]domain.MenuItem, error) {
	builder := sq.Select(menuItemColumns).
		From("menu_items").
		Where(sq.Eq{"shop_id": shopID}).
		OrderBy("sort_order", "name")

	if filter.Category != nil {
		builder = builder.Where(sq.Eq{"category": *filter.Category})
	}
	if filter.AvailableOnly {
		builder = builder.Where(sq.Eq{"is_available": true})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building menu listing query: %w", err)
	}

	return r.queryMenuItems(ctx, query, args...)
}

func (r *MySQLMenuItemRepository) Insert(ctx context.Context, item domain.MenuItem) error {
	query := `
		INSERT INTO menu_items (id, shop_id, name, description, price_cents, category,
		                        image_url, is_available, preparation_time_minutes,
		                        calories, allergens, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.ShopID, item.Name, item.Description, item.PriceCents, item.Category,
		item.ImageURL, item.IsAvailable, item.PreparationTimeMinutes,
		item.Calories, item.Allergens, item.SortOrder,
	)
	if err != nil {
		return fmt.Errorf("inserting menu item: %w", err)
	}

	return nil
}

func (r *MySQLMenuItemRepository) queryMenuItems(ctx context.Context, query string, args ...interface{}) ([]domain.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying menu items: %w", err)
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning menu item row: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating menu item rows: %w", err)
	}

	return items, nil
}

func scanMenuItem(row rowScanner) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := row.Scan(
		&item.ID, &item.ShopID, &item.Name, &item.Description, &item.PriceCents,
		&item.Category, &item.ImageURL, &item.IsAvailable, &item.PreparationTimeMinutes,
		&item.Calories, &item.Allergens, &item.SortOrder,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
