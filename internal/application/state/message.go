package state

import (
	"errors"

	"github.com/grocery/admin/internal/domain/shared"
)

// publicMessager is implemented by errors that carry a message meant for the admin,
// such as the error body of the remote store
type publicMessager interface {
	PublicMessage() string
}

// Message extracts the admin-facing message of err, or fallback when it has none
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Message
	}
	var pm publicMessager
	if errors.As(err, &pm) {
		if msg := pm.PublicMessage(); msg != "" {
			return msg
		}
	}
	var de *shared.DomainError
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return fallback
}

// Failure is an error whose message is ready for display
type Failure struct {
	Message string
	Err     error
}

func (f *Failure) Error() string { return f.Message }

func (f *Failure) Unwrap() error { return f.Err }

// Describe wraps err with its display message. It returns nil for nil.
func Describe(err error, fallback string) error {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return err
	}
	return &Failure{Message: Message(err, fallback), Err: err}
}
