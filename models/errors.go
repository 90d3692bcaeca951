package models

import "errors"

// Outcomes surfaced by the paste core. The transport layer maps each of
// these to exactly one HTTP status; any other error from the storage layer
// is an internal failure.
var (
	// ErrNotFound is returned when a well-formed id has no stored paste.
	ErrNotFound = errors.New("paste not found")

	// ErrAlreadyExists is returned by create-only writes when the id is
	// taken. Callers retry with a fresh id instead of overwriting.
	ErrAlreadyExists = errors.New("paste id already exists")

	// ErrInvalidID is returned for ids that fail validation. Such ids are
	// never used to address storage.
	ErrInvalidID = errors.New("invalid paste id")

	// ErrEmptyContent is returned when a submission carries no usable text.
	ErrEmptyContent = errors.New("paste content is empty")

	// ErrMissingField is returned when a submission lacks the paste field.
	ErrMissingField = errors.New("missing paste form field")
)
