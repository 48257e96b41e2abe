package sales

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a sale with the given ID is not found.
var ErrNotFound = errors.New("sale not found")

// ErrEmptyID is returned when trying to store a sale with an empty ID.
var ErrEmptyID = errors.New("empty sale ID")

// ErrDuplicateNumber is returned by a Storage when another sale already uses the same number.
var ErrDuplicateNumber = errors.New("sale number already exists")

// DomainError is raised by the aggregate when one of its invariants would be broken.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// ApplicationError reports a use case precondition that does not hold,
// e.g. modifying a cancelled sale or referencing an unknown product.
type ApplicationError struct {
	Message string `json:"message"`
}

func (e *ApplicationError) Error() string {
	return e.Message
}

// NewApplicationError creates a new application error with a formatted message.
func NewApplicationError(format string, args ...any) *ApplicationError {
	return &ApplicationError{Message: fmt.Sprintf(format, args...)}
}

// IsDomainError reports whether err carries a *DomainError.
func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// IsApplicationError reports whether err carries an *ApplicationError.
func IsApplicationError(err error) bool {
	var ae *ApplicationError
	return errors.As(err, &ae)
}
