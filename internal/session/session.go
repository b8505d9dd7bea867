// Package session persists the selected user between runs. There is no real
// auth: whoever authenticated last is the current session until logout.
package session

import (
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/crptmaveric/femilio-evidence/internal/errs"
	"github.com/crptmaveric/femilio-evidence/internal/model"
)

var (
	bucketSession = []byte("session")
	keyUser       = []byte("user")
)

// Identity is the persisted shape of the signed-in user. The password never
// leaves the Users table.
type Identity struct {
	ID        int64      `json:"id"`
	Role      model.Role `json:"role"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Login     string     `json:"login"`
	Email     string     `json:"email"`
}

// IdentityOf strips a user down to its session shape.
func IdentityOf(u *model.User) Identity {
	return Identity{
		ID:        u.ID,
		Role:      u.Role,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Login:     u.Login,
		Email:     u.Email,
	}
}

// Store keeps the current session in its own bucket of the key/value file.
type Store struct{ db *bolt.DB }

// New constructs a Store on an open bbolt handle and ensures its bucket exists.
func New(db *bolt.DB) (*Store, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("session bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Save persists id as the current session.
func (s *Store) Save(id Identity) error {
	enc, err := json.Marshal(id)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSession).Put(keyUser, enc)
	})
}

// Load returns the current session, or errs.ErrNoSession when nobody is
// signed in.
func (s *Store) Load() (Identity, error) {
	var id Identity
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketSession).Get(keyUser)
		if v == nil {
			return errs.ErrNoSession
		}
		return json.Unmarshal(v, &id)
	})
	if err != nil {
		return Identity{}, err
	}
	return id, nil
}

// Clear signs the current user out. Clearing an empty session is a no-op.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSession).Delete(keyUser)
	})
}
