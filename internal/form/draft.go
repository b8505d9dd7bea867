// Package form holds the transient working copy of a patient while it is
// being edited across the main form and its address and diagnosis sub-forms.
// The parent flow owns the draft; sub-forms never keep their own copy and
// report edits as field-update events applied through the parent.
package form

import (
	"github.com/crptmaveric/femilio-evidence/internal/model"
)

// Field identifies a draft field addressable by a sub-form update.
type Field int

const (
	FieldFirstName Field = iota
	FieldLastName
	FieldDiagnosis
	FieldStreet
	FieldCity
	FieldPostalCode
	FieldCountry
	FieldBirthNumber
)

// Update is a single edit reported by a form back to the draft owner.
type Update struct {
	Field Field
	Value string
}

// State is the draft's position in the editing flow.
type State int

const (
	// StatePristine means the draft equals its last-known-saved snapshot.
	StatePristine State = iota
	// StateDirty means at least one field differs from the snapshot.
	StateDirty
	// StateSaved is terminal for the flow; reopening loads a fresh draft.
	StateSaved
)

// Values is the comparable field set of a draft. Dirtiness is decided by
// comparing Values against the snapshot taken at load time, so reverting an
// edit returns the draft to pristine.
type Values struct {
	FirstName   string
	LastName    string
	Diagnosis   string
	Street      string
	City        string
	PostalCode  string
	Country     string
	BirthNumber string
	DoctorID    int64
	PhotoKey    string
}

// Address assembles the structured address from the discrete fields.
func (v Values) Address() model.Address {
	return model.Address{Street: v.Street, City: v.City, PostalCode: v.PostalCode, Country: v.Country}
}

// Draft is the in-memory working copy of a patient record.
type Draft struct {
	values   Values
	snapshot Values
	captured []byte // transient captured image, committed to the blob store at save
	saved    bool
}

// New returns a blank draft for the add-patient flow.
func New(doctorID int64) *Draft {
	v := Values{DoctorID: doctorID}
	return &Draft{values: v, snapshot: v}
}

// Load returns a draft seeded from a stored patient. The stored address is
// split back into its discrete fields; the snapshot equals the loaded values.
func Load(p *model.Patient) *Draft {
	addr := model.DecodeAddress(p.Address)
	v := Values{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Diagnosis:   p.Diagnosis,
		Street:      addr.Street,
		City:        addr.City,
		PostalCode:  addr.PostalCode,
		Country:     addr.Country,
		BirthNumber: p.BirthNumber,
		DoctorID:    p.DoctorID,
		PhotoKey:    p.PhotoKey,
	}
	return &Draft{values: v, snapshot: v}
}

// Apply applies a field update from the main form or a sub-form. Navigating
// into a sub-form and back changes nothing by itself; only applied updates do.
func (d *Draft) Apply(u Update) {
	switch u.Field {
	case FieldFirstName:
		d.values.FirstName = u.Value
	case FieldLastName:
		d.values.LastName = u.Value
	case FieldDiagnosis:
		d.values.Diagnosis = u.Value
	case FieldStreet:
		d.values.Street = u.Value
	case FieldCity:
		d.values.City = u.Value
	case FieldPostalCode:
		d.values.PostalCode = u.Value
	case FieldCountry:
		d.values.Country = u.Value
	case FieldBirthNumber:
		d.values.BirthNumber = u.Value
	}
}

// SetCapturedImage attaches freshly captured photo bytes. The bytes stay
// transient until the save contract commits them to the blob store.
func (d *Draft) SetCapturedImage(data []byte) {
	d.captured = append([]byte(nil), data...)
}

// ClearCapturedImage discards an uncommitted capture.
func (d *Draft) ClearCapturedImage() { d.captured = nil }

// CapturedImage returns the uncommitted capture, or nil.
func (d *Draft) CapturedImage() []byte { return d.captured }

// CommitPhoto substitutes the committed blob key for the transient capture.
// Called by the save contract only; the substitution itself does not change
// dirtiness decisions, which are already past by then.
func (d *Draft) CommitPhoto(key string) {
	d.values.PhotoKey = key
	d.captured = nil
}

// SavedPhotoKey returns the photo key of the last-persisted snapshot, used to
// reclaim a superseded photo after a successful save.
func (d *Draft) SavedPhotoKey() string { return d.snapshot.PhotoKey }

// Values returns a copy of the current field values.
func (d *Draft) Values() Values { return d.values }

// State reports the draft's flow state from snapshot equality.
func (d *Draft) State() State {
	switch {
	case d.saved:
		return StateSaved
	case d.values != d.snapshot || len(d.captured) > 0:
		return StateDirty
	default:
		return StatePristine
	}
}

// CanSave reports whether the save action is enabled. Saving is only
// permitted while dirty.
func (d *Draft) CanSave() bool { return d.State() == StateDirty }

// NeedsDiscardConfirm reports whether cancelling must prompt before
// discarding. Exiting while pristine discards silently.
func (d *Draft) NeedsDiscardConfirm() bool { return d.State() == StateDirty }

// MarkSaved records a successful save. The flow exits afterwards; the state
// is terminal for this draft.
func (d *Draft) MarkSaved() {
	d.snapshot = d.values
	d.saved = true
}
