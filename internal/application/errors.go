package application

import "errors"

// Error kinds. The HTTP layer maps them to status codes with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrDuplicateKey    = errors.New("duplicate key")

	// ErrPartialBackLink means a watch party was stored but not every
	// participant got the back-reference. Nothing is rolled back.
	ErrPartialBackLink = errors.New("watch party partially linked")
)

// Error carries a client-safe message on top of one of the kinds above.
type Error struct {
	kind error
	msg  string
}

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

// Message returns the text that may be shown to the caller.
func (e *Error) Message() string { return e.msg }
