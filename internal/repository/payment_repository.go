package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourorg/rentledger/internal/domain"
)

// PostgresPaymentRepository implements domain.PaymentRepository.
type PostgresPaymentRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPaymentRepository creates a new payment repository.
func NewPaymentRepository(db *sql.DB, logger *slog.Logger) *PostgresPaymentRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresPaymentRepository{db: db, logger: logger}
}

// Create inserts a payment and fills in the store-assigned id. The
// store rejects dangling lease ids.
func (r *PostgresPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (lease_id, amount, date)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		payment.LeaseID, payment.Amount, payment.Date,
	).Scan(&payment.ID)
	if err != nil {
		r.logger.Error("failed to create payment", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetByID retrieves a payment by id.
func (r *PostgresPaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	payment := &domain.Payment{}
	query := `
		SELECT id, lease_id, amount, date
		FROM payments
		WHERE id = $1
	`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&payment.ID, &payment.LeaseID, &payment.Amount, &payment.Date,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

// Update updates an existing payment.
func (r *PostgresPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	query := `
		UPDATE payments
		SET lease_id = $1, amount = $2, date = $3
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query,
		payment.LeaseID, payment.Amount, payment.Date, payment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	return requireRow(result)
}

// Delete removes a payment.
func (r *PostgresPaymentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	return requireRow(result)
}

// List returns all payments ordered by id.
func (r *PostgresPaymentRepository) List(ctx context.Context) ([]*domain.Payment, error) {
	query := `
		SELECT id, lease_id, amount, date
		FROM payments
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to list payments", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()
	return scanPayments(rows)
}

// ListByTenant returns the payments recorded against one tenant's
// leases.
func (r *PostgresPaymentRepository) ListByTenant(ctx context.Context, tenantID int64) ([]*domain.Payment, error) {
	query := `
		SELECT p.id, p.lease_id, p.amount, p.date
		FROM payments p
		JOIN leases l ON p.lease_id = l.id
		WHERE l.tenant_id = $1
		ORDER BY p.id
	`
	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments by tenant: %w", err)
	}
	defer rows.Close()
	return scanPayments(rows)
}

// ListInWindow returns every payment dated inside the inclusive
// [start, end] window, joined with its lease for reporting, ordered
// by date then id.
func (r *PostgresPaymentRepository) ListInWindow(ctx context.Context, start, end string) ([]*domain.PaymentReportRow, error) {
	query := `
		SELECT p.id, p.lease_id, l.property_id, l.tenant_id, p.amount, p.date
		FROM payments p
		JOIN leases l ON p.lease_id = l.id
		WHERE p.date BETWEEN $1 AND $2
		ORDER BY p.date, p.id
	`
	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		r.logger.Error("failed to list payments in window", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list payments in window: %w", err)
	}
	defer rows.Close()

	var result []*domain.PaymentReportRow
	for rows.Next() {
		row := &domain.PaymentReportRow{}
		err := rows.Scan(&row.PaymentID, &row.LeaseID, &row.PropertyID, &row.TenantID, &row.Amount, &row.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment report row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func scanPayments(rows *sql.Rows) ([]*domain.Payment, error) {
	var payments []*domain.Payment
	for rows.Next() {
		payment := &domain.Payment{}
		if err := rows.Scan(&payment.ID, &payment.LeaseID, &payment.Amount, &payment.Date); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}
