package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/crptmaveric/femilio-evidence/internal/errs"
	"github.com/crptmaveric/femilio-evidence/internal/form"
	"github.com/crptmaveric/femilio-evidence/internal/model"
	"github.com/crptmaveric/femilio-evidence/internal/repository"
)

type fakePatientRepo struct {
	insertIn  *repository.PatientFields
	insertID  int64
	insertErr error

	updateID  int64
	updateIn  *repository.PatientFields
	updateErr error

	getOut *model.Patient
	getErr error

	listOut []model.Patient
	listErr error
}

var _ repository.PatientRepository = (*fakePatientRepo)(nil)

func (f *fakePatientRepo) Insert(_ context.Context, fields repository.PatientFields) (int64, error) {
	f.insertIn = &fields
	return f.insertID, f.insertErr
}
func (f *fakePatientRepo) Update(_ context.Context, id int64, fields repository.PatientFields) error {
	f.updateID, f.updateIn = id, &fields
	return f.updateErr
}
func (f *fakePatientRepo) GetByID(_ context.Context, _ int64) (*model.Patient, error) {
	return f.getOut, f.getErr
}
func (f *fakePatientRepo) List(_ context.Context) ([]model.Patient, error) {
	return f.listOut, f.listErr
}

// fakeBlobStore is an in-memory BlobStore recording deletions.
type fakeBlobStore struct {
	data    map[string][]byte
	next    int
	deleted []string
	putErr  error
}

func newFakeBlobStore() *fakeBlobStore { return &fakeBlobStore{data: map[string][]byte{}} }

func (f *fakeBlobStore) Put(_ context.Context, data []byte) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	f.next++
	key := fmt.Sprintf("key-%d", f.next)
	f.data[key] = append([]byte(nil), data...)
	return key, nil
}
func (f *fakeBlobStore) Get(_ context.Context, key string) ([]byte, error) {
	d, ok := f.data[key]
	if !ok {
		return nil, errs.ErrBlobNotFound
	}
	return d, nil
}
func (f *fakeBlobStore) Delete(_ context.Context, key string) error {
	delete(f.data, key)
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeAlbumStore struct {
	albums map[int64][]string
}

func (f *fakeAlbumStore) Album(_ context.Context, patientID int64) ([]string, error) {
	return f.albums[patientID], nil
}
func (f *fakeAlbumStore) AppendToAlbum(_ context.Context, patientID int64, _ []byte) (string, error) {
	key := fmt.Sprintf("album-%d-%d", patientID, len(f.albums[patientID]))
	if f.albums == nil {
		f.albums = map[int64][]string{}
	}
	f.albums[patientID] = append(f.albums[patientID], key)
	return key, nil
}
func (f *fakeAlbumStore) RemoveFromAlbum(_ context.Context, patientID int64, index int) error {
	keys := f.albums[patientID]
	if index < 0 || index >= len(keys) {
		return errs.ErrBlobNotFound
	}
	f.albums[patientID] = append(keys[:index], keys[index+1:]...)
	return nil
}

func draftJaneDoe() *form.Draft {
	d := form.New(1)
	for _, u := range []form.Update{
		{Field: form.FieldFirstName, Value: "Jane"},
		{Field: form.FieldLastName, Value: "Doe"},
		{Field: form.FieldStreet, Value: "Main St"},
		{Field: form.FieldCity, Value: "Springfield"},
		{Field: form.FieldPostalCode, Value: "00000"},
		{Field: form.FieldCountry, Value: "USA"},
		{Field: form.FieldBirthNumber, Value: "123456"},
	} {
		d.Apply(u)
	}
	return d
}

func TestPatientService_Save_InsertFlattensAddress(t *testing.T) {
	t.Parallel()
	repo := &fakePatientRepo{insertID: 42}
	s := NewPatientService(repo, newFakeBlobStore(), &fakeAlbumStore{})

	d := draftJaneDoe()
	id, err := s.Save(context.Background(), d, nil)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id != 42 {
		t.Fatalf("id = %d, want 42", id)
	}
	if repo.insertIn == nil {
		t.Fatal("insert not reached")
	}
	if repo.insertIn.Address != "Main St, Springfield, 00000, USA" {
		t.Fatalf("address = %q", repo.insertIn.Address)
	}
	if repo.insertIn.PhotoKey != "" {
		t.Fatalf("photo key = %q, want empty", repo.insertIn.PhotoKey)
	}
	if d.State() != form.StateSaved {
		t.Fatal("draft must be marked saved")
	}
}

func TestPatientService_Save_CommitsCapturedPhoto(t *testing.T) {
	t.Parallel()
	repo := &fakePatientRepo{insertID: 7}
	blobs := newFakeBlobStore()
	s := NewPatientService(repo, blobs, &fakeAlbumStore{})

	d := draftJaneDoe()
	photo := []byte("jpeg bytes")
	d.SetCapturedImage(photo)

	if _, err := s.Save(context.Background(), d, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}

	key := repo.insertIn.PhotoKey
	if key == "" {
		t.Fatal("row must reference the committed blob key")
	}
	got, err := blobs.Get(context.Background(), key)
	if err != nil || string(got) != string(photo) {
		t.Fatalf("blob under %q = %q, %v", key, got, err)
	}
	if d.CapturedImage() != nil {
		t.Fatal("capture must not survive the save")
	}
}

func TestPatientService_Save_CompensatesBlobOnRowFailure(t *testing.T) {
	t.Parallel()
	repo := &fakePatientRepo{insertErr: errors.New("disk full")}
	blobs := newFakeBlobStore()
	s := NewPatientService(repo, blobs, &fakeAlbumStore{})

	d := draftJaneDoe()
	d.SetCapturedImage([]byte("jpeg bytes"))

	if _, err := s.Save(context.Background(), d, nil); err == nil {
		t.Fatal("want row-write error")
	}
	if len(blobs.data) != 0 {
		t.Fatal("failed save must delete the just-committed blob")
	}
	if d.State() == form.StateSaved {
		t.Fatal("failed save must not mark the draft saved")
	}
}

func TestPatientService_Save_ReplaceReclaimsPreviousPhoto(t *testing.T) {
	t.Parallel()
	repo := &fakePatientRepo{}
	blobs := newFakeBlobStore()
	blobs.data["old-key"] = []byte("old jpeg")
	s := NewPatientService(repo, blobs, &fakeAlbumStore{})

	d := form.Load(&model.Patient{
		ID: 5, FirstName: "Jane", LastName: "Doe",
		Address: "Main St, Springfield, 00000, USA", BirthNumber: "123456",
		PhotoKey: "old-key", DoctorID: 1,
	})
	d.SetCapturedImage([]byte("new jpeg"))

	id := int64(5)
	if _, err := s.Save(context.Background(), d, &id); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if repo.updateID != 5 {
		t.Fatalf("updated id = %d", repo.updateID)
	}
	if repo.updateIn.PhotoKey == "old-key" || repo.updateIn.PhotoKey == "" {
		t.Fatalf("row photo key = %q, want fresh key", repo.updateIn.PhotoKey)
	}
	if _, ok := blobs.data["old-key"]; ok {
		t.Fatal("superseded photo must be reclaimed")
	}
}

func TestPatientService_Save_KeepingPhotoDoesNotDeleteIt(t *testing.T) {
	t.Parallel()
	repo := &fakePatientRepo{}
	blobs := newFakeBlobStore()
	blobs.data["old-key"] = []byte("old jpeg")
	s := NewPatientService(repo, blobs, &fakeAlbumStore{})

	d := form.Load(&model.Patient{
		ID: 5, FirstName: "Jane", LastName: "Doe",
		Address: "Main St, Springfield, 00000, USA", BirthNumber: "123456",
		PhotoKey: "old-key", DoctorID: 1,
	})
	d.Apply(form.Update{Field: form.FieldDiagnosis, Value: "flu"})

	id := int64(5)
	if _, err := s.Save(context.Background(), d, &id); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, ok := blobs.data["old-key"]; !ok {
		t.Fatal("unchanged photo must not be deleted")
	}
}

func TestPatientService_Photo_MissIsNoPhoto(t *testing.T) {
	t.Parallel()
	s := NewPatientService(&fakePatientRepo{}, newFakeBlobStore(), &fakeAlbumStore{})

	data, err := s.Photo(context.Background(), "dangling-key")
	if err != nil || data != nil {
		t.Fatalf("Photo miss = (%v, %v), want (nil, nil)", data, err)
	}
	data, err = s.Photo(context.Background(), "")
	if err != nil || data != nil {
		t.Fatalf("Photo empty key = (%v, %v), want (nil, nil)", data, err)
	}
}

func TestPatientService_Search(t *testing.T) {
	t.Parallel()
	repo := &fakePatientRepo{listOut: []model.Patient{
		{FirstName: "Jane", LastName: "Doe"},
		{FirstName: "John", LastName: "Smith"},
		{FirstName: "Janet", LastName: "Doering"},
	}}
	s := NewPatientService(repo, newFakeBlobStore(), &fakeAlbumStore{})
	ctx := context.Background()

	all, err := s.Search(ctx, "")
	if err != nil || len(all) != 3 {
		t.Fatalf("empty query: %d, %v", len(all), err)
	}

	out, err := s.Search(ctx, "doe")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(out) != 2 || out[0].FirstName != "Jane" || out[1].FirstName != "Janet" {
		t.Fatalf("Search doe = %+v", out)
	}

	out, err = s.Search(ctx, "JOHN SM")
	if err != nil || len(out) != 1 {
		t.Fatalf("Search across names = %+v, %v", out, err)
	}
}
