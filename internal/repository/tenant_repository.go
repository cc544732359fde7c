package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourorg/rentledger/internal/domain"
)

// PostgresTenantRepository implements domain.TenantRepository.
type PostgresTenantRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewTenantRepository creates a new tenant repository.
func NewTenantRepository(db *sql.DB, logger *slog.Logger) *PostgresTenantRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTenantRepository{db: db, logger: logger}
}

// Create inserts a tenant and fills in the store-assigned id.
func (r *PostgresTenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	query := `
		INSERT INTO tenants (name, phone)
		VALUES ($1, $2)
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, query, tenant.Name, tenant.Phone).Scan(&tenant.ID); err != nil {
		r.logger.Error("failed to create tenant", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil
}

// GetByID retrieves a tenant by id.
func (r *PostgresTenantRepository) GetByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	tenant := &domain.Tenant{}
	query := `
		SELECT id, name, phone
		FROM tenants
		WHERE id = $1
	`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&tenant.ID, &tenant.Name, &tenant.Phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return tenant, nil
}

// Update updates an existing tenant.
func (r *PostgresTenantRepository) Update(ctx context.Context, tenant *domain.Tenant) error {
	query := `
		UPDATE tenants
		SET name = $1, phone = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, tenant.Name, tenant.Phone, tenant.ID)
	if err != nil {
		return fmt.Errorf("failed to update tenant: %w", err)
	}
	return requireRow(result)
}

// Delete removes a tenant. The store cascades the delete to the
// tenant's leases (and through them, payments).
func (r *PostgresTenantRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}
	return requireRow(result)
}

// List returns all tenants ordered by id.
func (r *PostgresTenantRepository) List(ctx context.Context) ([]*domain.Tenant, error) {
	query := `
		SELECT id, name, phone
		FROM tenants
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to list tenants", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []*domain.Tenant
	for rows.Next() {
		tenant := &domain.Tenant{}
		if err := rows.Scan(&tenant.ID, &tenant.Name, &tenant.Phone); err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, tenant)
	}
	return tenants, rows.Err()
}
