package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/crptmaveric/femilio-evidence/internal/errs"
	"github.com/crptmaveric/femilio-evidence/internal/form"
	"github.com/crptmaveric/femilio-evidence/internal/model"
	"github.com/crptmaveric/femilio-evidence/internal/repository"
)

// BlobStore is the photo byte store used by the save contract.
type BlobStore interface {
	Put(ctx context.Context, data []byte) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// AlbumStore keeps per-patient photo galleries.
type AlbumStore interface {
	Album(ctx context.Context, patientID int64) ([]string, error)
	AppendToAlbum(ctx context.Context, patientID int64, data []byte) (string, error)
	RemoveFromAlbum(ctx context.Context, patientID int64, index int) error
}

// PatientService defines the patient record lifecycle.
type PatientService interface {
	// Save turns a draft into exactly one relational write, committing any
	// captured photo to the blob store first. A nil existingID inserts;
	// otherwise the row with that ID is updated. Returns the row ID.
	Save(ctx context.Context, d *form.Draft, existingID *int64) (int64, error)
	// Get loads a patient row.
	Get(ctx context.Context, id int64) (*model.Patient, error)
	// List returns all patients ordered by last name.
	List(ctx context.Context) ([]model.Patient, error)
	// Search filters the listed patients by a case-insensitive name match.
	Search(ctx context.Context, query string) ([]model.Patient, error)
	// Photo returns the stored photo bytes for a key. A missing blob is
	// "no photo": nil bytes, no error.
	Photo(ctx context.Context, key string) ([]byte, error)
	// Gallery returns the blob keys of a patient's gallery.
	Gallery(ctx context.Context, patientID int64) ([]string, error)
	// GalleryAdd appends captured bytes to a patient's gallery.
	GalleryAdd(ctx context.Context, patientID int64, data []byte) (string, error)
	// GalleryRemove deletes the gallery photo at index and reclaims its bytes.
	GalleryRemove(ctx context.Context, patientID int64, index int) error
}

type PatientServiceImpl struct {
	repo   repository.PatientRepository
	blobs  BlobStore
	albums AlbumStore
}

// NewPatientService constructs PatientService with required dependencies.
func NewPatientService(repo repository.PatientRepository, blobs BlobStore, albums AlbumStore) *PatientServiceImpl {
	return &PatientServiceImpl{repo: repo, blobs: blobs, albums: albums}
}

// Save is the single choke point that persists a draft. Field validation is
// the form's responsibility; this layer only runs the photo sub-contract and
// the row write. If the row write fails after a fresh blob commit, the
// just-written blob is deleted again so it cannot be orphaned; if the save
// replaced an earlier photo, the superseded key is reclaimed afterwards.
func (s *PatientServiceImpl) Save(ctx context.Context, d *form.Draft, existingID *int64) (int64, error) {
	var committed string
	if img := d.CapturedImage(); len(img) > 0 {
		key, err := s.blobs.Put(ctx, img)
		if err != nil {
			return 0, fmt.Errorf("commit photo: %w", err)
		}
		d.CommitPhoto(key)
		committed = key
	}

	v := d.Values()
	fields := repository.PatientFields{
		FirstName:   v.FirstName,
		LastName:    v.LastName,
		Diagnosis:   v.Diagnosis,
		Address:     v.Address().Encode(),
		BirthNumber: v.BirthNumber,
		PhotoKey:    v.PhotoKey,
		DoctorID:    v.DoctorID,
	}

	previous := d.SavedPhotoKey()

	var (
		id  int64
		err error
	)
	if existingID == nil {
		id, err = s.repo.Insert(ctx, fields)
	} else {
		id, err = *existingID, s.repo.Update(ctx, *existingID, fields)
	}
	if err != nil {
		if committed != "" {
			// Compensate the blob commit; the row never referenced it.
			_ = s.blobs.Delete(ctx, committed)
		}
		return 0, err
	}

	if previous != "" && previous != fields.PhotoKey {
		// Superseded photo; reclaim best-effort.
		_ = s.blobs.Delete(ctx, previous)
	}

	d.MarkSaved()
	return id, nil
}

// Get loads a patient by ID.
func (s *PatientServiceImpl) Get(ctx context.Context, id int64) (*model.Patient, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all patients ordered by last name.
func (s *PatientServiceImpl) List(ctx context.Context) ([]model.Patient, error) {
	return s.repo.List(ctx)
}

// Search narrows List by a case-insensitive match on first or last name.
// An empty query returns the full list.
func (s *PatientServiceImpl) Search(ctx context.Context, query string) ([]model.Patient, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all, nil
	}
	var out []model.Patient
	for _, p := range all {
		name := strings.ToLower(p.FirstName + " " + p.LastName)
		if strings.Contains(name, q) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Photo resolves a photo key to bytes. A dangling key silently means
// "no photo" rather than an error.
func (s *PatientServiceImpl) Photo(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	data, err := s.blobs.Get(ctx, key)
	if errors.Is(err, errs.ErrBlobNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Gallery returns the patient's gallery keys.
func (s *PatientServiceImpl) Gallery(ctx context.Context, patientID int64) ([]string, error) {
	return s.albums.Album(ctx, patientID)
}

// GalleryAdd appends captured bytes to the patient's gallery.
func (s *PatientServiceImpl) GalleryAdd(ctx context.Context, patientID int64, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("validation: empty photo")
	}
	return s.albums.AppendToAlbum(ctx, patientID, data)
}

// GalleryRemove deletes the gallery photo at index.
func (s *PatientServiceImpl) GalleryRemove(ctx context.Context, patientID int64, index int) error {
	return s.albums.RemoveFromAlbum(ctx, patientID, index)
}
