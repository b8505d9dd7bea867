// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/crptmaveric/femilio-evidence/internal/model"
)

// UserUpdate carries the profile fields editable from the doctor-edit screen.
// Password and role are immutable through this path.
type UserUpdate struct {
	FirstName string
	LastName  string
	Login     string
	Email     string
}

// UserRepository provides CRUD access for doctor and admin accounts.
type UserRepository interface {
	// Create inserts a new user and fills in the generated ID.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// GetByCredentials loads the user matching both login and password exactly.
	GetByCredentials(ctx context.Context, login, password string) (*model.User, error)
	// ListByRole returns all users with the given role, ordered by last name.
	ListByRole(ctx context.Context, role model.Role) ([]model.User, error)
	// Update rewrites the editable profile fields of the user with the given ID.
	Update(ctx context.Context, id int64, upd UserUpdate) error
}
