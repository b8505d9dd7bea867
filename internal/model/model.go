// Package model defines domain entities used by services and repositories.
package model

import "strings"

// Role distinguishes the two account kinds. There is no finer-grained
// permission model; role only routes to the matching dashboard.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDoctor Role = "doctor"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r == RoleAdmin || r == RoleDoctor }

// User is a doctor or admin account. Passwords are stored and compared in
// plain text; hardening authentication is out of scope for this app.
type User struct {
	ID        int64
	Role      Role
	FirstName string
	LastName  string
	Login     string // unique
	Email     string // unique
	Password  string
}

// Patient is a stored patient row. Address holds the flattened form produced
// by Address.Encode; PhotoKey is a non-owning reference into the blob store
// (empty means no photo).
type Patient struct {
	ID          int64
	FirstName   string
	LastName    string
	Diagnosis   string
	Address     string
	BirthNumber string
	PhotoKey    string
	DoctorID    int64
}

// AddressSeparator joins the four address components in the stored column.
// There is no escaping: a component containing the separator corrupts the
// round trip. The delimited column is a fixed on-device format, so the
// fragility is kept rather than fixed at the schema level.
const AddressSeparator = ", "

// Address is the structured in-memory form of the single stored address column.
type Address struct {
	Street     string
	City       string
	PostalCode string
	Country    string
}

// Encode flattens the address into the stored column format: the four
// components joined by ", " in fixed order, even when some are empty.
func (a Address) Encode() string {
	return strings.Join([]string{a.Street, a.City, a.PostalCode, a.Country}, AddressSeparator)
}

// DecodeAddress splits a stored address positionally. Strings with fewer than
// four parts (legacy or malformed rows) leave the trailing fields empty;
// extra parts are dropped.
func DecodeAddress(s string) Address {
	parts := strings.Split(s, AddressSeparator)
	var a Address
	if len(parts) > 0 {
		a.Street = parts[0]
	}
	if len(parts) > 1 {
		a.City = parts[1]
	}
	if len(parts) > 2 {
		a.PostalCode = parts[2]
	}
	if len(parts) > 3 {
		a.Country = parts[3]
	}
	return a
}
