// Package migrate applies embedded SQL migrations and seeds the fixed accounts.
package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/crptmaveric/femilio-evidence/migrations"
)

// Up runs all pending migrations from the embedded filesystem against db.
func Up(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

// Seed inserts the two fixed accounts on a fresh database. It runs
// unconditionally at startup; the check is only whether a row with login
// "admin" already exists, so repeated calls are no-ops.
func Seed(ctx context.Context, db *sql.DB) error {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM Users WHERE login = ?`, "admin").Scan(&n); err != nil {
		return fmt.Errorf("seed check: %w", err)
	}
	if n > 0 {
		return nil
	}

	const q = `INSERT INTO Users (firstName, lastName, login, email, password, role) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := db.ExecContext(ctx, q, "Admin", "User", "admin", "admin@example.com", "admin", "admin"); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if _, err := db.ExecContext(ctx, q, "Martina", "Milčáková", "martina", "fyzio.crhova@gmail.com", "martina", "doctor"); err != nil {
		return fmt.Errorf("seed doctor: %w", err)
	}
	return nil
}

// Resetter adapts Reset to the service layer's SchemaResetter dependency.
type Resetter struct{ DB *sql.DB }

// Reset drops and recreates the schema on the wrapped handle.
func (r Resetter) Reset(ctx context.Context) error { return Reset(ctx, r.DB) }

// Reset drops all application tables and the goose bookkeeping table, then
// recreates the schema and reseeds. The drops are independent statements,
// not one atomic unit.
func Reset(ctx context.Context, db *sql.DB) error {
	// Children first so the foreign key on Patients.doctorId cannot block the drop.
	for _, q := range []string{
		`DROP TABLE IF EXISTS Photos`,
		`DROP TABLE IF EXISTS Patients`,
		`DROP TABLE IF EXISTS Users`,
		`DROP TABLE IF EXISTS goose_db_version`,
	} {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
	}
	if err := Up(ctx, db); err != nil {
		return err
	}
	return Seed(ctx, db)
}
