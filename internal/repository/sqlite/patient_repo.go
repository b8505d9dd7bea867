package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crptmaveric/femilio-evidence/internal/errs"
	"github.com/crptmaveric/femilio-evidence/internal/model"
	"github.com/crptmaveric/femilio-evidence/internal/repository"
)

// PatientRepo implements PatientRepository on the embedded database.
type PatientRepo struct{ db *DB }

// NewPatientRepo constructs a patient repository.
func NewPatientRepo(db *DB) *PatientRepo { return &PatientRepo{db: db} }

// Insert appends a new patient row and returns the generated ID.
func (r *PatientRepo) Insert(ctx context.Context, f repository.PatientFields) (int64, error) {
	const q = `
INSERT INTO Patients (firstName, lastName, diagnosis, address, birthNumber, photo, doctorId)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.SQL.ExecContext(ctx, q,
		f.FirstName, f.LastName, f.Diagnosis, f.Address, f.BirthNumber, nullIfEmpty(f.PhotoKey), f.DoctorID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Update rewrites the row with the given ID with the full field set.
func (r *PatientRepo) Update(ctx context.Context, id int64, f repository.PatientFields) error {
	const q = `
UPDATE Patients SET firstName = ?, lastName = ?, diagnosis = ?, address = ?, birthNumber = ?, photo = ?, doctorId = ?
WHERE id = ?`
	res, err := r.db.SQL.ExecContext(ctx, q,
		f.FirstName, f.LastName, f.Diagnosis, f.Address, f.BirthNumber, nullIfEmpty(f.PhotoKey), f.DoctorID, id)
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

// GetByID selects a patient by ID.
func (r *PatientRepo) GetByID(ctx context.Context, id int64) (*model.Patient, error) {
	const q = `
SELECT id, firstName, lastName, diagnosis, address, birthNumber, photo, doctorId
FROM Patients WHERE id = ?`
	row := r.db.SQL.QueryRowContext(ctx, q, id)
	p, err := scanPatient(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List selects all patients ordered by last name, mirroring the dashboard order.
func (r *PatientRepo) List(ctx context.Context) ([]model.Patient, error) {
	const q = `
SELECT id, firstName, lastName, diagnosis, address, birthNumber, photo, doctorId
FROM Patients ORDER BY lastName, firstName`
	rows, err := r.db.SQL.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Patient
	for rows.Next() {
		p, err := scanPatient(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanPatient(scan func(dest ...any) error) (*model.Patient, error) {
	var (
		p     model.Patient
		photo sql.NullString
	)
	if err := scan(&p.ID, &p.FirstName, &p.LastName, &p.Diagnosis, &p.Address, &p.BirthNumber, &photo, &p.DoctorID); err != nil {
		return nil, err
	}
	p.PhotoKey = photo.String
	return &p, nil
}

// nullIfEmpty maps an empty photo key to NULL so "no photo" is stored the
// same way the historical schema stored it.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
