package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("conflict")
	ErrAlreadyLinked    = errors.New("already linked")
	ErrNotCognizable    = errors.New("violation is not cognizable")
	ErrInvalidStatus    = errors.New("invalid status transition")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrOTPInvalid       = errors.New("invalid or expired otp")
)

// Error carries a message for the caller alongside one of the sentinel kinds above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// notFound turns gorm.ErrRecordNotFound into ErrNotFound naming the missing entity and
// passes every other error through.
func notFound(err error, entity string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newError(ErrNotFound, "%s %v not found", entity, id)
	}
	return err
}
