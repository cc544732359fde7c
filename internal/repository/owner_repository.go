package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourorg/rentledger/internal/domain"
)

// PostgresOwnerRepository implements domain.OwnerRepository over
// database/sql. The SQL is portable across the postgres and sqlite
// drivers.
type PostgresOwnerRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewOwnerRepository creates a new owner repository.
func NewOwnerRepository(db *sql.DB, logger *slog.Logger) *PostgresOwnerRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresOwnerRepository{db: db, logger: logger}
}

// Create inserts an owner and fills in the store-assigned id.
func (r *PostgresOwnerRepository) Create(ctx context.Context, owner *domain.Owner) error {
	query := `
		INSERT INTO owners (name, phone)
		VALUES ($1, $2)
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, query, owner.Name, owner.Phone).Scan(&owner.ID); err != nil {
		r.logger.Error("failed to create owner", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create owner: %w", err)
	}
	return nil
}

// GetByID retrieves an owner by id.
func (r *PostgresOwnerRepository) GetByID(ctx context.Context, id int64) (*domain.Owner, error) {
	owner := &domain.Owner{}
	query := `
		SELECT id, name, phone
		FROM owners
		WHERE id = $1
	`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&owner.ID, &owner.Name, &owner.Phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}
	return owner, nil
}

// Update updates an existing owner.
func (r *PostgresOwnerRepository) Update(ctx context.Context, owner *domain.Owner) error {
	query := `
		UPDATE owners
		SET name = $1, phone = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, owner.Name, owner.Phone, owner.ID)
	if err != nil {
		return fmt.Errorf("failed to update owner: %w", err)
	}
	return requireRow(result)
}

// Delete removes an owner. The store nullifies owner_id on dependent
// properties rather than deleting them.
func (r *PostgresOwnerRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM owners WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete owner: %w", err)
	}
	return requireRow(result)
}

// List returns all owners ordered by id.
func (r *PostgresOwnerRepository) List(ctx context.Context) ([]*domain.Owner, error) {
	query := `
		SELECT id, name, phone
		FROM owners
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to list owners", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	defer rows.Close()

	var owners []*domain.Owner
	for rows.Next() {
		owner := &domain.Owner{}
		if err := rows.Scan(&owner.ID, &owner.Name, &owner.Phone); err != nil {
			return nil, fmt.Errorf("failed to scan owner: %w", err)
		}
		owners = append(owners, owner)
	}
	return owners, rows.Err()
}

// requireRow translates a zero-row mutation into ErrNotFound.
func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
