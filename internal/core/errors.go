package core

import "errors"

// ErrorKind classifies a failure so callers can map it to a stable
// outcome instead of matching on message text.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindConstraint ErrorKind = "constraint"
	KindNotFound   ErrorKind = "not_found"
	KindIO         ErrorKind = "io"
	KindInternal   ErrorKind = "internal"
)

var (
	ErrDuplicateName = errors.New("name already exists")
	ErrNotFound      = errors.New("record not found")
)

// Error carries a kind alongside the underlying cause.
type Error struct {
	Kind ErrorKind
	Err  error
}

func NewError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the classification of err, defaulting to internal.
func KindOf(err error) ErrorKind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrDuplicateName):
		return KindConstraint
	}
	return KindInternal
}
