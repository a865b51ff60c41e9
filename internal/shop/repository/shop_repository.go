package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"brewline/internal/domain"
	"brewline/internal/errors"
)

type MySQLShopRepository struct {
	db *sql.DB
}

func NewMySQLShopRepository(db *sql.DB) *MySQLShopRepository {
	return &MySQLShopRepository{db: db}
}

const shopColumns = `id, name, description, owner_id, latitude, longitude, address,
	       contact_details, queue_configuration, is_active, created_at, updated_at`

func (r *MySQLShopRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error) {
	query := fmt.Sprintf(`SELECT %s FROM shops WHERE id = ?`, shopColumns)

	shop, err := scanShop(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("shop with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying shop by id: %w", err)
	}

	return shop, nil
}

func (r *MySQLShopRepository) ListActive(ctx context.Context) ([]domain.Shop, error) {
	query := fmt.Sprintf(`SELECT %s FROM shops WHERE is_active = 1 ORDER BY name`, shopColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying active shops: %w", err)
	}
	defer rows.Close()

	var shops []domain.Shop
	for rows.Next() {
		shop, err := scanShop(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning shop row: %w", err)
		}
		shops = append(shops, *shop)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating shop rows: %w", err)
	}

	return shops, nil
}

func (r *MySQLShopRepository) Insert(ctx context.Context, shop domain.Shop) error {
	query := `
		INSERT INTO shops (id, name, description, owner_id, latitude, longitude, address,
		                   contact_details, queue_configuration, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		shop.ID, shop.Name, shop.Description, shop.OwnerID,
		shop.Latitude, shop.Longitude, shop.Address,
		shop.ContactDetails, shop.QueueConfiguration, shop.IsActive,
	)
	if err != nil {
		return fmt.Errorf("inserting shop: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanShop(row rowScanner) (*domain.Shop, error) {
	var shop domain.Shop
	err := row.Scan(
		&shop.ID, &shop.Name, &shop.Description, &shop.OwnerID,
		&shop.Latitude, &shop.Longitude, &shop.Address,
		&shop.ContactDetails, &shop.QueueConfiguration, &shop.IsActive,
		&shop.CreatedAt, &shop.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &shop, nil
}
