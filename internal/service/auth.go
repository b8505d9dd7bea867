// Package service contains application services for accounts, patients, and
// the save contract between drafts and the stores.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/crptmaveric/femilio-evidence/internal/errs"
	"github.com/crptmaveric/femilio-evidence/internal/model"
	"github.com/crptmaveric/femilio-evidence/internal/repository"
	"github.com/crptmaveric/femilio-evidence/internal/session"
)

// minPasswordLen matches the registration form's minimum.
const minPasswordLen = 4

// SessionStore persists the selected user between runs.
type SessionStore interface {
	Save(session.Identity) error
	Load() (session.Identity, error)
	Clear() error
}

// SchemaResetter drops and recreates the relational schema.
type SchemaResetter interface {
	Reset(ctx context.Context) error
}

// AuthService defines sign-in, registration, and the destructive reset.
type AuthService interface {
	// Register creates a new doctor or admin account.
	Register(ctx context.Context, u *model.User) error
	// Login authenticates by exact login/password match and persists the session.
	Login(ctx context.Context, login, password string) (session.Identity, error)
	// Current returns the persisted session, or errs.ErrNoSession.
	Current(ctx context.Context) (session.Identity, error)
	// Logout clears the persisted session.
	Logout(ctx context.Context) error
	// ResetAll drops and recreates the schema, then clears the session.
	ResetAll(ctx context.Context) error
}

type AuthServiceImpl struct {
	users    repository.UserRepository
	sessions SessionStore
	schema   SchemaResetter
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, sessions SessionStore, schema SchemaResetter) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, sessions: sessions, schema: schema}
}

// Register validates the account fields and inserts the user. A duplicate
// login or email surfaces as errs.ErrAlreadyExists without field attribution.
func (s *AuthServiceImpl) Register(ctx context.Context, u *model.User) error {
	if u.FirstName == "" || u.LastName == "" || u.Login == "" {
		return errors.New("validation: name and login required")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return fmt.Errorf("validation: email: %w", err)
	}
	if len(u.Password) < minPasswordLen {
		return fmt.Errorf("validation: password shorter than %d", minPasswordLen)
	}
	if !u.Role.Valid() {
		return fmt.Errorf("validation: unknown role %q", u.Role)
	}
	return s.users.Create(ctx, u)
}

// Login looks up the single row matching both fields. An unknown login and a
// wrong password are indistinguishable to the caller.
func (s *AuthServiceImpl) Login(ctx context.Context, login, password string) (session.Identity, error) {
	u, err := s.users.GetByCredentials(ctx, login, password)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return session.Identity{}, errs.ErrUnauthorized
		}
		return session.Identity{}, err
	}
	id := session.IdentityOf(u)
	if err := s.sessions.Save(id); err != nil {
		return session.Identity{}, fmt.Errorf("persist session: %w", err)
	}
	return id, nil
}

// Current loads the persisted session.
func (s *AuthServiceImpl) Current(context.Context) (session.Identity, error) {
	return s.sessions.Load()
}

// Logout clears the persisted session.
func (s *AuthServiceImpl) Logout(context.Context) error {
	return s.sessions.Clear()
}

// ResetAll recreates the schema and then clears the session. The two steps
// are not one atomic unit; a failure in between leaves a fresh database with
// a stale session.
func (s *AuthServiceImpl) ResetAll(ctx context.Context) error {
	if err := s.schema.Reset(ctx); err != nil {
		return err
	}
	return s.sessions.Clear()
}
