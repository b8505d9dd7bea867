package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crptmaveric/femilio-evidence/internal/errs"
	"github.com/crptmaveric/femilio-evidence/internal/model"
	"github.com/crptmaveric/femilio-evidence/internal/repository"
)

// UserRepo implements UserRepository on the embedded database.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user row. A duplicate login or email surfaces as
// errs.ErrAlreadyExists; the caller decides how to present it.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `
INSERT INTO Users (firstName, lastName, login, email, password, role)
VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.SQL.ExecContext(ctx, q, u.FirstName, u.LastName, u.Login, u.Email, u.Password, string(u.Role))
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	if err != nil {
		return err
	}
	u.ID, err = res.LastInsertId()
	return err
}

// GetByID selects a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const q = `
SELECT id, role, firstName, lastName, login, email, password
FROM Users WHERE id = ?`
	return r.scanUser(r.db.SQL.QueryRowContext(ctx, q, id))
}

// GetByCredentials selects the single user matching both login and password.
// No match is errs.ErrNotFound; the auth service treats it as invalid credentials.
func (r *UserRepo) GetByCredentials(ctx context.Context, login, password string) (*model.User, error) {
	const q = `
SELECT id, role, firstName, lastName, login, email, password
FROM Users WHERE login = ? AND password = ?`
	return r.scanUser(r.db.SQL.QueryRowContext(ctx, q, login, password))
}

// ListByRole selects all users with the given role ordered by last name.
func (r *UserRepo) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	const q = `
SELECT id, role, firstName, lastName, login, email, password
FROM Users WHERE role = ? ORDER BY lastName, firstName`
	rows, err := r.db.SQL.QueryContext(ctx, q, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Role, &u.FirstName, &u.LastName, &u.Login, &u.Email, &u.Password); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Update rewrites the editable profile fields. Password and role are not
// touched here.
func (r *UserRepo) Update(ctx context.Context, id int64, upd repository.UserUpdate) error {
	const q = `
UPDATE Users SET firstName = ?, lastName = ?, login = ?, email = ?
WHERE id = ?`
	res, err := r.db.SQL.ExecContext(ctx, q, upd.FirstName, upd.LastName, upd.Login, upd.Email, id)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *UserRepo) scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Role, &u.FirstName, &u.LastName, &u.Login, &u.Email, &u.Password); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
