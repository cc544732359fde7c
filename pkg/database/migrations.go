package database

import (
	"database/sql"
	"fmt"
)

// Dates are stored as ISO YYYY-MM-DD text so BETWEEN comparisons are
// chronological and portable across both drivers. Referential rules
// live here, in the store, not in the engine: deleting an owner
// nullifies its properties; deleting a property or tenant cascades to
// leases; deleting a lease cascades to payments.

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS owners (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tenants (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS properties (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		location TEXT NOT NULL,
		rent DOUBLE PRECISION NOT NULL,
		owner_id BIGINT REFERENCES owners(id) ON DELETE SET NULL
	)`,
	`CREATE TABLE IF NOT EXISTS leases (
		id BIGSERIAL PRIMARY KEY,
		property_id BIGINT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		tenant_id BIGINT NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id BIGSERIAL PRIMARY KEY,
		lease_id BIGINT NOT NULL REFERENCES leases(id) ON DELETE CASCADE,
		amount DOUBLE PRECISION NOT NULL,
		date TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		ref_id BIGINT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_properties_owner ON properties(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_leases_tenant ON leases(tenant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_lease ON payments(lease_id)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_date ON payments(date)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS owners (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		phone TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tenants (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		phone TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS properties (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		location TEXT NOT NULL,
		rent REAL NOT NULL,
		owner_id INTEGER REFERENCES owners(id) ON DELETE SET NULL
	)`,
	`CREATE TABLE IF NOT EXISTS leases (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		property_id INTEGER NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		tenant_id INTEGER NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		lease_id INTEGER NOT NULL REFERENCES leases(id) ON DELETE CASCADE,
		amount REAL NOT NULL,
		date TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		ref_id INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_properties_owner ON properties(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_leases_tenant ON leases(tenant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_lease ON payments(lease_id)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_date ON payments(date)`,
}

// Migrate creates the schema for the given driver.
func Migrate(db *sql.DB, driver string) error {
	var schema []string
	switch driver {
	case "postgres":
		schema = postgresSchema
	case "sqlite":
		schema = sqliteSchema
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
