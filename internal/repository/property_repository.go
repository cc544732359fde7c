package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yourorg/rentledger/internal/domain"
)

// PostgresPropertyRepository implements domain.PropertyRepository.
type PostgresPropertyRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPropertyRepository creates a new property repository.
func NewPropertyRepository(db *sql.DB, logger *slog.Logger) *PostgresPropertyRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresPropertyRepository{db: db, logger: logger}
}

// Create inserts a property and fills in the store-assigned id.
func (r *PostgresPropertyRepository) Create(ctx context.Context, property *domain.Property) error {
	query := `
		INSERT INTO properties (name, location, rent, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		property.Name, property.Location, property.Rent, property.OwnerID,
	).Scan(&property.ID)
	if err != nil {
		r.logger.Error("failed to create property", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

// GetByID retrieves a property by id.
func (r *PostgresPropertyRepository) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	property := &domain.Property{}
	query := `
		SELECT id, name, location, rent, owner_id
		FROM properties
		WHERE id = $1
	`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&property.ID, &property.Name, &property.Location, &property.Rent, &property.OwnerID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return property, nil
}

// Update updates an existing property.
func (r *PostgresPropertyRepository) Update(ctx context.Context, property *domain.Property) error {
	query := `
		UPDATE properties
		SET name = $1, location = $2, rent = $3, owner_id = $4
		WHERE id = $5
	`
	result, err := r.db.ExecContext(ctx, query,
		property.Name, property.Location, property.Rent, property.OwnerID, property.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}
	return requireRow(result)
}

// Delete removes a property. The store cascades the delete to leases
// and payments recorded against them.
func (r *PostgresPropertyRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	return requireRow(result)
}

// List returns all properties ordered by id.
func (r *PostgresPropertyRepository) List(ctx context.Context) ([]*domain.Property, error) {
	query := `
		SELECT id, name, location, rent, owner_id
		FROM properties
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to list properties", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()
	return scanProperties(rows)
}

// ListByOwner returns the properties linked to one owner. A dangling
// owner id simply matches no rows.
func (r *PostgresPropertyRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Property, error) {
	query := `
		SELECT id, name, location, rent, owner_id
		FROM properties
		WHERE owner_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties by owner: %w", err)
	}
	defer rows.Close()
	return scanProperties(rows)
}

// Search returns properties matching every populated filter field.
// Name and location match as case-insensitive substrings, rent as an
// inclusive range. An empty filter returns everything.
func (r *PostgresPropertyRepository) Search(ctx context.Context, filter domain.PropertyFilter) ([]*domain.Property, error) {
	var (
		conditions []string
		args       []any
	)
	next := func() string { return fmt.Sprintf("$%d", len(args)) }

	if filter.Name != "" {
		args = append(args, "%"+strings.ToLower(filter.Name)+"%")
		conditions = append(conditions, "LOWER(name) LIKE "+next())
	}
	if filter.Location != "" {
		args = append(args, "%"+strings.ToLower(filter.Location)+"%")
		conditions = append(conditions, "LOWER(location) LIKE "+next())
	}
	if filter.MinRent != nil {
		args = append(args, *filter.MinRent)
		conditions = append(conditions, "rent >= "+next())
	}
	if filter.MaxRent != nil {
		args = append(args, *filter.MaxRent)
		conditions = append(conditions, "rent <= "+next())
	}
	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		conditions = append(conditions, "owner_id = "+next())
	}

	query := `SELECT id, name, location, rent, owner_id FROM properties`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to search properties", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to search properties: %w", err)
	}
	defer rows.Close()
	return scanProperties(rows)
}

func scanProperties(rows *sql.Rows) ([]*domain.Property, error) {
	var properties []*domain.Property
	for rows.Next() {
		property := &domain.Property{}
		err := rows.Scan(
			&property.ID, &property.Name, &property.Location, &property.Rent, &property.OwnerID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, property)
	}
	return properties, rows.Err()
}
