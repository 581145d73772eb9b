package learning

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// NotFoundError reports a missing course, lesson, quiz, user or certificate.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// PreconditionError is a user error: the request is well formed but the
// current state does not allow it.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}

// ErrForbidden is returned when the caller may not see a resource.
var ErrForbidden = errors.New("not authorized to access this resource")

func notFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

func precondition(format string, args ...interface{}) error {
	return &PreconditionError{Reason: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsPrecondition reports whether err is (or wraps) a PreconditionError.
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

// lookupErr maps gorm.ErrRecordNotFound to a NotFoundError for resource.
func lookupErr(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(resource)
	}
	return fmt.Errorf("load %s: %w", resource, err)
}
