package service

import "errors"

var (
	ErrNotFound  = errors.New("not_found")
	ErrDuplicate = errors.New("duplicate")
)

// ValidationError carries the machine code a handler should return, e.g.
// invalid_slug or invalid_email. Nothing else about the failure is exposed.
type ValidationError struct {
	Code string
}

func (e *ValidationError) Error() string {
	return e.Code
}

func invalid(code string) error {
	return &ValidationError{Code: code}
}
