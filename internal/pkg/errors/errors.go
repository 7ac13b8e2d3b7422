package errors

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalid      = errors.New("invalid")
	ErrConflict     = errors.New("conflict")
	ErrTooLarge     = errors.New("too large")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
