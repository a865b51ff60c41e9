package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"brewline/internal/domain"
	"brewline/internal/errors"
)

type MySQLUserRepository struct {
	db *sql.DB
}

func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

const userColumns = `id, mobile_number, password_hash, name, email, role, addresses,
	       loyalty_score, created_at, updated_at`

func (r *MySQLUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = ?`, userColumns)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("user with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by id: %w", err)
	}

	return user, nil
}

func (r *MySQLUserRepository) FindByMobileNumber(ctx context.Context, mobileNumber string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE mobile_number = ?`, userColumns)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, mobileNumber))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("user with mobile number not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by mobile number: %w", err)
	}

	return user, nil
}

func (r *MySQLUserRepository) ExistsByMobileNumber(ctx context.Context, mobileNumber string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE mobile_number = ?`, mobileNumber,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("counting users by mobile number: %w", err)
	}
	return count > 0, nil
}

func (r *MySQLUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ?`, email,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("counting users by email: %w", err)
	}
	return count > 0, nil
}

func (r *MySQLUserRepository) Insert(ctx context.Context, user domain.User) error {
	query := `
		INSERT INTO users (id, mobile_number, password_hash, name, email, role, addresses, loyalty_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.MobileNumber, user.PasswordHash, user.Name,
		user.Email, user.Role, user.Addresses, user.LoyaltyScore,
	)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID, &user.MobileNumber, &user.PasswordHash, &user.Name,
		&user.Email, &user.Role, &user.Addresses, &user.LoyaltyScore,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
