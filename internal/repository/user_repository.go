package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourorg/rentledger/internal/domain"
)

// PostgresUserRepository implements domain.UserRepository.
type PostgresUserRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *sql.DB, logger *slog.Logger) *PostgresUserRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresUserRepository{db: db, logger: logger}
}

// Create inserts a user account and fills in the store-assigned id.
func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.UserAccount) error {
	query := `
		INSERT INTO users (username, password_hash, role, ref_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, string(user.Role), user.RefID,
	).Scan(&user.ID)
	if err != nil {
		r.logger.Error("failed to create user", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user account by id.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*domain.UserAccount, error) {
	query := `
		SELECT id, username, password_hash, role, ref_id
		FROM users
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByUsername retrieves a user account by its unique username.
func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*domain.UserAccount, error) {
	query := `
		SELECT id, username, password_hash, role, ref_id
		FROM users
		WHERE username = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

// Update updates an existing user account.
func (r *PostgresUserRepository) Update(ctx context.Context, user *domain.UserAccount) error {
	query := `
		UPDATE users
		SET username = $1, password_hash = $2, role = $3, ref_id = $4
		WHERE id = $5
	`
	result, err := r.db.ExecContext(ctx, query,
		user.Username, user.PasswordHash, string(user.Role), user.RefID, user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireRow(result)
}

// Delete removes a user account.
func (r *PostgresUserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireRow(result)
}

func (r *PostgresUserRepository) scanOne(row *sql.Row) (*domain.UserAccount, error) {
	user := &domain.UserAccount{}
	var role string
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &role, &user.RefID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.Role = domain.Role(role)
	return user, nil
}
