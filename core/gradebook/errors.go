package gradebook

import "fmt"

// SchemaError reports a required column missing from an input file.
type SchemaError struct {
	File   string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required column %q", e.File, e.Column)
}

// DuplicateKeyError reports a student identifier repeated within one file.
// Duplicated files are rejected outright rather than silently deduplicated.
type DuplicateKeyError struct {
	File string
	Key  string
	Line int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s: duplicate identifier %q on line %d", e.File, e.Key, e.Line)
}

// NotFoundError reports a report request for a student absent from the gradebook.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("student %q not found", e.ID)
}

// MissingDataError reports a student with no usable score in any weighted category.
type MissingDataError struct {
	ID string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("student %q has no usable score", e.ID)
}
