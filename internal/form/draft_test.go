package form

import (
	"testing"

	"github.com/crptmaveric/femilio-evidence/internal/model"
)

func storedPatient() *model.Patient {
	return &model.Patient{
		ID:          5,
		FirstName:   "Jane",
		LastName:    "Doe",
		Diagnosis:   "sprained ankle",
		Address:     "Main St, Springfield, 00000, USA",
		BirthNumber: "123456",
		PhotoKey:    "1700000000000_abc",
		DoctorID:    2,
	}
}

func TestLoad_StartsPristine(t *testing.T) {
	t.Parallel()
	d := Load(storedPatient())

	if d.State() != StatePristine {
		t.Fatalf("freshly loaded draft: state = %v, want pristine", d.State())
	}
	if d.CanSave() {
		t.Fatal("save must be disabled while pristine")
	}
	if d.NeedsDiscardConfirm() {
		t.Fatal("pristine exit must not prompt")
	}

	v := d.Values()
	if v.Street != "Main St" || v.City != "Springfield" || v.PostalCode != "00000" || v.Country != "USA" {
		t.Fatalf("address not split into fields: %+v", v)
	}
	if v.PhotoKey != "1700000000000_abc" {
		t.Fatalf("photo key not carried: %+v", v)
	}
}

func TestApply_MarksDirtyAndRevertReturnsPristine(t *testing.T) {
	t.Parallel()
	d := Load(storedPatient())

	d.Apply(Update{Field: FieldCity, Value: "Shelbyville"})
	if d.State() != StateDirty {
		t.Fatal("edit must mark the draft dirty")
	}
	if !d.CanSave() || !d.NeedsDiscardConfirm() {
		t.Fatal("dirty draft must enable save and prompt on exit")
	}

	// Dirtiness is snapshot equality, not a sticky flag: undoing the edit
	// returns the draft to pristine.
	d.Apply(Update{Field: FieldCity, Value: "Springfield"})
	if d.State() != StatePristine {
		t.Fatalf("reverted draft: state = %v, want pristine", d.State())
	}
	if d.CanSave() {
		t.Fatal("save must be disabled again after revert")
	}
}

func TestApply_EveryField(t *testing.T) {
	t.Parallel()
	d := New(2)
	updates := []Update{
		{FieldFirstName, "Jane"},
		{FieldLastName, "Doe"},
		{FieldDiagnosis, "flu"},
		{FieldStreet, "Main St"},
		{FieldCity, "Springfield"},
		{FieldPostalCode, "00000"},
		{FieldCountry, "USA"},
		{FieldBirthNumber, "123456"},
	}
	for _, u := range updates {
		d.Apply(u)
	}

	v := d.Values()
	want := Values{
		FirstName: "Jane", LastName: "Doe", Diagnosis: "flu",
		Street: "Main St", City: "Springfield", PostalCode: "00000", Country: "USA",
		BirthNumber: "123456", DoctorID: 2,
	}
	if v != want {
		t.Fatalf("Values = %+v, want %+v", v, want)
	}
}

func TestCapturedImage_DirtinessAndClear(t *testing.T) {
	t.Parallel()
	d := Load(storedPatient())

	d.SetCapturedImage([]byte("new jpeg"))
	if d.State() != StateDirty {
		t.Fatal("capturing a photo must mark the draft dirty")
	}

	d.ClearCapturedImage()
	if d.State() != StatePristine {
		t.Fatal("discarding the capture must return to pristine")
	}
}

func TestCommitPhoto_SubstitutesKeyAndDropsCapture(t *testing.T) {
	t.Parallel()
	d := Load(storedPatient())
	d.SetCapturedImage([]byte("new jpeg"))

	d.CommitPhoto("1800000000000_def")
	if d.CapturedImage() != nil {
		t.Fatal("commit must drop the transient capture")
	}
	if d.Values().PhotoKey != "1800000000000_def" {
		t.Fatalf("PhotoKey = %q after commit", d.Values().PhotoKey)
	}
	if d.SavedPhotoKey() != "1700000000000_abc" {
		t.Fatalf("SavedPhotoKey = %q, want the snapshot's key", d.SavedPhotoKey())
	}
}

func TestMarkSaved_IsTerminal(t *testing.T) {
	t.Parallel()
	d := New(2)
	d.Apply(Update{Field: FieldFirstName, Value: "Jane"})
	if !d.CanSave() {
		t.Fatal("dirty draft must be saveable")
	}

	d.MarkSaved()
	if d.State() != StateSaved {
		t.Fatalf("state = %v after save, want saved", d.State())
	}
	if d.CanSave() || d.NeedsDiscardConfirm() {
		t.Fatal("saved draft must neither save again nor prompt")
	}
}
