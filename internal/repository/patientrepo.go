package repository

import (
	"context"

	"github.com/crptmaveric/femilio-evidence/internal/model"
)

// PatientFields is the full writable field set of a patient row, shared by
// insert and update. Address is already flattened; PhotoKey is empty for
// "no photo". There is no delete operation in the normal flow.
type PatientFields struct {
	FirstName   string
	LastName    string
	Diagnosis   string
	Address     string
	BirthNumber string
	PhotoKey    string
	DoctorID    int64
}

// PatientRepository provides CRUD access for patient rows.
type PatientRepository interface {
	// Insert appends a new patient row and returns its generated ID.
	Insert(ctx context.Context, f PatientFields) (int64, error)
	// Update rewrites the row with the given ID with the full field set.
	Update(ctx context.Context, id int64, f PatientFields) error
	// GetByID loads a patient by ID.
	GetByID(ctx context.Context, id int64) (*model.Patient, error)
	// List returns all patients ordered by last name.
	List(ctx context.Context) ([]model.Patient, error)
}
