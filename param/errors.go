package param

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind enumerates the ways request-item processing can fail.
type ErrorKind int

const (
	// MalformedParameter means an argument contained no recognized
	// separator, had an empty key, or had an invalid header field name.
	MalformedParameter ErrorKind = iota

	// FileReadError means the path of a file-valued item could not be read.
	FileReadError

	// InvalidJSON means the value of a raw JSON item failed to parse.
	InvalidJSON

	// FileUploadRequiresForm means a key@filename item was used without
	// form mode. Raised when the request is built, not when the item is
	// classified.
	FileUploadRequiresForm
)

// Error is a request-item failure with a closed kind. Subject holds the
// offending argument, key or path, depending on the kind.
type Error struct {
	Kind    ErrorKind
	Subject string
	message string
}

func (e *Error) Error() string {
	return e.message
}

// NewError builds an *Error and attaches a stack trace. Callers match the
// kind through errors.Cause.
func NewError(kind ErrorKind, subject, format string, args ...interface{}) error {
	return errors.WithStack(&Error{
		Kind:    kind,
		Subject: subject,
		message: fmt.Sprintf(format, args...),
	})
}

// KindOf reports the kind of err if its cause is an *Error.
func KindOf(err error) (ErrorKind, bool) {
	if e, ok := errors.Cause(err).(*Error); ok {
		return e.Kind, true
	}
	return 0, false
}
