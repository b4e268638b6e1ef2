package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is; the message of the wrapping *Error is
// what reaches the client.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidToken    = errors.New("invalid token")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() error { return e.Kind }

func newErr(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Invalid(format string, args ...any) error  { return newErr(ErrValidation, format, args...) }
func Unauthenticated(msg string) error          { return &Error{Kind: ErrUnauthenticated, Msg: msg} }
func InvalidToken(msg string) error             { return &Error{Kind: ErrInvalidToken, Msg: msg} }
func Forbidden(msg string) error                { return &Error{Kind: ErrForbidden, Msg: msg} }
func NotFound(format string, args ...any) error { return newErr(ErrNotFound, format, args...) }
func Conflict(format string, args ...any) error { return newErr(ErrConflict, format, args...) }
