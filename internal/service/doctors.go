package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/crptmaveric/femilio-evidence/internal/model"
	"github.com/crptmaveric/femilio-evidence/internal/repository"
)

// DoctorService defines the admin-side account screens: listing doctors and
// editing their profile fields.
type DoctorService interface {
	// List returns all doctor accounts ordered by last name.
	List(ctx context.Context) ([]model.User, error)
	// Get loads a single account.
	Get(ctx context.Context, id int64) (*model.User, error)
	// Update rewrites the editable profile fields. Password and role cannot
	// be changed through this path.
	Update(ctx context.Context, id int64, upd repository.UserUpdate) error
}

type DoctorServiceImpl struct {
	users repository.UserRepository
}

// NewDoctorService constructs DoctorService.
func NewDoctorService(users repository.UserRepository) *DoctorServiceImpl {
	return &DoctorServiceImpl{users: users}
}

// List returns all doctor accounts.
func (s *DoctorServiceImpl) List(ctx context.Context) ([]model.User, error) {
	return s.users.ListByRole(ctx, model.RoleDoctor)
}

// Get loads a single account.
func (s *DoctorServiceImpl) Get(ctx context.Context, id int64) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// Update validates the profile fields and rewrites them.
func (s *DoctorServiceImpl) Update(ctx context.Context, id int64, upd repository.UserUpdate) error {
	if upd.FirstName == "" || upd.LastName == "" || upd.Login == "" {
		return errors.New("validation: name and login required")
	}
	if _, err := mail.ParseAddress(upd.Email); err != nil {
		return fmt.Errorf("validation: email: %w", err)
	}
	return s.users.Update(ctx, id, upd)
}
