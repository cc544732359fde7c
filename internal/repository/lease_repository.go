package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourorg/rentledger/internal/domain"
)

// PostgresLeaseRepository implements domain.LeaseRepository.
type PostgresLeaseRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewLeaseRepository creates a new lease repository.
func NewLeaseRepository(db *sql.DB, logger *slog.Logger) *PostgresLeaseRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresLeaseRepository{db: db, logger: logger}
}

// Create inserts a lease and fills in the store-assigned id. The
// store rejects dangling property or tenant ids.
func (r *PostgresLeaseRepository) Create(ctx context.Context, lease *domain.Lease) error {
	query := `
		INSERT INTO leases (property_id, tenant_id, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		lease.PropertyID, lease.TenantID, lease.StartDate, lease.EndDate,
	).Scan(&lease.ID)
	if err != nil {
		r.logger.Error("failed to create lease", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create lease: %w", err)
	}
	return nil
}

// GetByID retrieves a lease by id.
func (r *PostgresLeaseRepository) GetByID(ctx context.Context, id int64) (*domain.Lease, error) {
	lease := &domain.Lease{}
	query := `
		SELECT id, property_id, tenant_id, start_date, end_date
		FROM leases
		WHERE id = $1
	`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&lease.ID, &lease.PropertyID, &lease.TenantID, &lease.StartDate, &lease.EndDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lease: %w", err)
	}
	return lease, nil
}

// Update updates an existing lease.
func (r *PostgresLeaseRepository) Update(ctx context.Context, lease *domain.Lease) error {
	query := `
		UPDATE leases
		SET property_id = $1, tenant_id = $2, start_date = $3, end_date = $4
		WHERE id = $5
	`
	result, err := r.db.ExecContext(ctx, query,
		lease.PropertyID, lease.TenantID, lease.StartDate, lease.EndDate, lease.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update lease: %w", err)
	}
	return requireRow(result)
}

// Delete removes a lease. The store cascades the delete to its
// payments.
func (r *PostgresLeaseRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM leases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete lease: %w", err)
	}
	return requireRow(result)
}

// List returns all leases ordered by id.
func (r *PostgresLeaseRepository) List(ctx context.Context) ([]*domain.Lease, error) {
	query := `
		SELECT id, property_id, tenant_id, start_date, end_date
		FROM leases
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to list leases", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list leases: %w", err)
	}
	defer rows.Close()
	return scanLeases(rows)
}

// ListByTenant returns the leases held by one tenant.
func (r *PostgresLeaseRepository) ListByTenant(ctx context.Context, tenantID int64) ([]*domain.Lease, error) {
	query := `
		SELECT id, property_id, tenant_id, start_date, end_date
		FROM leases
		WHERE tenant_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leases by tenant: %w", err)
	}
	defer rows.Close()
	return scanLeases(rows)
}

// ListUnpaid returns every lease with no payment dated inside the
// inclusive [start, end] window. Lease activity during the window is
// deliberately not considered.
func (r *PostgresLeaseRepository) ListUnpaid(ctx context.Context, start, end string) ([]*domain.UnpaidLeaseRow, error) {
	query := `
		SELECT l.id, l.property_id, l.tenant_id, l.start_date, l.end_date
		FROM leases l
		WHERE NOT EXISTS (
			SELECT 1 FROM payments p
			WHERE p.lease_id = l.id AND p.date BETWEEN $1 AND $2
		)
		ORDER BY l.id
	`
	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		r.logger.Error("failed to list unpaid leases", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list unpaid leases: %w", err)
	}
	defer rows.Close()

	var result []*domain.UnpaidLeaseRow
	for rows.Next() {
		row := &domain.UnpaidLeaseRow{Notes: "no payment recorded this month"}
		err := rows.Scan(&row.LeaseID, &row.PropertyID, &row.TenantID, &row.StartDate, &row.EndDate)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unpaid lease: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func scanLeases(rows *sql.Rows) ([]*domain.Lease, error) {
	var leases []*domain.Lease
	for rows.Next() {
		lease := &domain.Lease{}
		err := rows.Scan(&lease.ID, &lease.PropertyID, &lease.TenantID, &lease.StartDate, &lease.EndDate)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lease: %w", err)
		}
		leases = append(leases, lease)
	}
	return leases, rows.Err()
}
