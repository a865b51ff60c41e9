package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"brewline/internal/domain"
	"brewline/internal/errors"
)

type MySQLQueueEntryRepository struct {
	db *sql.DB
}

func NewMySQLQueueEntryRepository(db *sql.DB) *MySQLQueueEntryRepository {
	return &MySQLQueueEntryRepository{db: db}
}

const queueEntryColumns = `id, shop_id, customer_id, order_id, position, status,
	       joined_at, served_at, left_at, notes`

// LockShopQueue takes the row lock that serializes all queue mutation
// for one shop. Locking the shop row instead of the entry rows keeps
// concurrent joins to an empty queue from both reading max position 0,
// and leaves other shops' queues uncontended.
func (r *MySQLQueueEntryRepository) LockShopQueue(ctx context.Context, tx *sql.Tx, shopID uuid.UUID) error {
	var id uuid.UUID
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM shops WHERE id = ? FOR UPDATE`, shopID,
	).Scan(&id)

	if err == sql.ErrNoRows {
		return errors.NewNotFoundError(fmt.Sprintf("shop with id %s not found", shopID))
	}
	if err != nil {
		return fmt.Errorf("locking shop queue: %w", err)
	}

	return nil
}

func (r *MySQLQueueEntryRepository) HasActiveEntry(ctx context.Context, tx *sql.Tx, shopID, customerID uuid.UUID) (bool, error) {
	var count int
	err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM queue_entries
		WHERE shop_id = ? AND customer_id = ? AND status IN ('WAITING', 'BEING_SERVED')`,
		shopID, customerID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("counting active queue entries: %w", err)
	}

	return count > 0, nil
}

func (r *MySQLQueueEntryRepository) MaxWaitingPosition(ctx context.Context, tx *sql.Tx, shopID uuid.UUID) (int, error) {
	var max int
	err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position), 0)
		FROM queue_entries
		WHERE shop_id = ? AND status = 'WAITING'`,
		shopID,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("querying max waiting position: %w", err)
	}

	return max, nil
}

func (r *MySQLQueueEntryRepository) Insert(ctx context.Context, tx *sql.Tx, entry domain.QueueEntry) error {
	query := `
		INSERT INTO queue_entries (id, shop_id, customer_id, order_id, position, status, joined_at, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		entry.ID, entry.ShopID, entry.CustomerID, entry.OrderID,
		entry.Position, entry.Status, entry.JoinedAt, entry.Notes,
	)
	if err != nil {
		return fmt.Errorf("inserting queue entry: %w", err)
	}

	return nil
}

func (r *MySQLQueueEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.QueueEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM queue_entries WHERE id = ?`, queueEntryColumns)

	entry, err := scanQueueEntry(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("queue entry with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying queue entry by id: %w", err)
	}

	return entry, nil
}

func (r *MySQLQueueEntryRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.QueueEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM queue_entries WHERE id = ? FOR UPDATE`, queueEntryColumns)

	entry, err := scanQueueEntry(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("queue entry with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying queue entry for update: %w", err)
	}

	return entry, nil
}

func (r *MySQLQueueEntryRepository) Update(ctx context.Context, tx *sql.Tx, entry domain.QueueEntry) error {
	query := `
		UPDATE queue_entries
		SET position = ?, status = ?, served_at = ?, left_at = ?, notes = ?
		WHERE id = ?
	`

	result, err := tx.ExecContext(ctx, query,
		entry.Position, entry.Status, entry.ServedAt, entry.LeftAt, entry.Notes, entry.ID,
	)
	if err != nil {
		return fmt.Errorf("updating queue entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("queue entry with id %s not found", entry.ID))
	}

	return nil
}

// ShiftPositionsAfter compacts the queue after a slot is vacated:
// every entry past the vacated position moves down one, regardless of
// status, so positions double as a historical join sequence.
func (r *MySQLQueueEntryRepository) ShiftPositionsAfter(ctx context.Context, tx *sql.Tx, shopID uuid.UUID, position int) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE queue_entries
		SET position = position - 1
		WHERE shop_id = ? AND position > ?`,
		shopID, position,
	)
	if err != nil {
		return fmt.Errorf("shifting queue positions: %w", err)
	}

	return nil
}

func (r *MySQLQueueEntryRepository) FindByShopOrderedByPosition(ctx context.Context, shopID uuid.UUID) ([]domain.QueueEntry, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM queue_entries WHERE shop_id = ? ORDER BY position ASC`,
		queueEntryColumns,
	)
	return r.queryQueueEntries(ctx, query, shopID)
}

func (r *MySQLQueueEntryRepository) FindWaitingByShop(ctx context.Context, shopID uuid.UUID) ([]domain.QueueEntry, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM queue_entries WHERE shop_id = ? AND status = 'WAITING' ORDER BY position ASC`,
		queueEntryColumns,
	)
	return r.queryQueueEntries(ctx, query, shopID)
}

func (r *MySQLQueueEntryRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.QueueEntry, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM queue_entries WHERE customer_id = ? ORDER BY joined_at DESC`,
		queueEntryColumns,
	)
	return r.queryQueueEntries(ctx, query, customerID)
}

func (r *MySQLQueueEntryRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.QueueEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM queue_entries WHERE order_id = ?`, queueEntryColumns)

	entry, err := scanQueueEntry(r.db.QueryRowContext(ctx, query, orderID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("queue entry for order %s not found", orderID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying queue entry by order id: %w", err)
	}

	return entry, nil
}

func (r *MySQLQueueEntryRepository) CountWaiting(ctx context.Context, shopID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM queue_entries WHERE shop_id = ? AND status = 'WAITING'`,
		shopID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting waiting customers: %w", err)
	}

	return count, nil
}

func (r *MySQLQueueEntryRepository) queryQueueEntries(ctx context.Context, query string, args ...interface{}) ([]domain.QueueEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying queue entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.QueueEntry
	for rows.Next() {
		entry, err := scanQueueEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning queue entry row: %w", err)
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating queue entry rows: %w", err)
	}

	return entries, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanQueueEntry(row rowScanner) (*domain.QueueEntry, error) {
	var entry domain.QueueEntry
	err := row.Scan(
		&entry.ID, &entry.ShopID, &entry.CustomerID, &entry.OrderID,
		&entry.Position, &entry.Status,
		&entry.JoinedAt, &entry.ServedAt, &entry.LeftAt, &entry.Notes,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
