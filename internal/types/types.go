// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, the store, and the seed providers can all import types
// without depending on each other.
package types

// StudentInput is the editable part of a student record: every field
// except the id. It is what the presentation layer sends to the store on
// add and edit.
//
// Every field is optional. The empty string means "absent" — an absent
// field is omitted from JSON output and never matches a non-empty search.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — camelCase keys, the shape the roster UI speaks.
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package in the HTTP layer. The store itself never validates.
type StudentInput struct {
	FirstName     string `json:"firstName,omitempty"     yaml:"firstName"     validate:"required"`
	MiddleName    string `json:"middleName,omitempty"    yaml:"middleName"`
	LastName      string `json:"lastName,omitempty"      yaml:"lastName"`
	Email         string `json:"email,omitempty"         yaml:"email"         validate:"required,email"`
	ContactNumber string `json:"contactNumber,omitempty" yaml:"contactNumber" validate:"omitempty,numeric"`
	Gender        string `json:"gender,omitempty"        yaml:"gender"        validate:"omitempty,oneof=male female other"`
	CollegeName   string `json:"collegeName,omitempty"   yaml:"collegeName"`
	Department    string `json:"department,omitempty"    yaml:"department"`
	Hobbies       string `json:"hobbies,omitempty"       yaml:"hobbies"`
	DOB           string `json:"dob,omitempty"           yaml:"dob"`
}

// Student represents one student record in the roster.
//
// The embedded StudentInput is flattened by encoding/json, so a Student
// encodes to { "id": "...", "firstName": "...", ... }.
//
// Building a Student as Student{ID: id, StudentInput: in} is what gives
// edits their replace semantics: fields missing from in are gone.
type Student struct {
	ID           string `json:"id" yaml:"id"`
	StudentInput `yaml:",inline"`
}
