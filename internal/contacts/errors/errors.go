package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingColumn = errors.New("required column not found")

	ErrInvalidParameter = errors.New("invalid parameter")

	ErrRead = errors.New("spreadsheet could not be read")
)

// MissingColumnError is returned when none of a field's aliases is present in
// the uploaded header row.
type MissingColumnError struct {
	Field   string
	Aliases []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("the file must contain a %s column named one of: %s", e.Field, strings.Join(e.Aliases, ", "))
}

func (e *MissingColumnError) Unwrap() error {
	return ErrMissingColumn
}

type InvalidParameterError struct {
	Name   string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("%s %s", e.Name, e.Reason)
}

func (e *InvalidParameterError) Unwrap() error {
	return ErrInvalidParameter
}

type ReadError struct {
	Filename string
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("could not read %q: %v", e.Filename, e.Err)
}

func (e *ReadError) Is(target error) bool {
	return target == ErrRead
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
