package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrorKind classifies service failures; controllers map kinds to HTTP statuses
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindConflict
	KindPaymentFailed
	KindUnavailable
)

// ServiceError is an expected failure with a client-safe code and message
type ServiceError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, code, message string) *ServiceError {
	return &ServiceError{Kind: kind, Code: code, Message: message}
}

// ValidationError reports a violated input or schema constraint
func ValidationError(code, message string) *ServiceError {
	return newError(KindValidation, code, message)
}

// NotFoundError reports a referenced record that does not exist
func NotFoundError(code, message string) *ServiceError {
	return newError(KindNotFound, code, message)
}

// UnauthorizedError reports a missing or invalid credential
func UnauthorizedError(code, message string) *ServiceError {
	return newError(KindUnauthorized, code, message)
}

// ForbiddenError reports a role mismatch
func ForbiddenError(code, message string) *ServiceError {
	return newError(KindForbidden, code, message)
}

// ConflictError reports a request that clashes with the current state
func ConflictError(code, message string) *ServiceError {
	return newError(KindConflict, code, message)
}

// PaymentFailedError reports a declined, failed or timed out charge
func PaymentFailedError(message string, cause error) *ServiceError {
	return &ServiceError{Kind: KindPaymentFailed, Code: "PAYMENT_FAILED", Message: message, Err: cause}
}

// UnavailableError reports a dependency that is not configured
func UnavailableError(code, message string) *ServiceError {
	return newError(KindUnavailable, code, message)
}

// AsServiceError unwraps err into a *ServiceError when possible
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsKind reports whether err is a ServiceError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	se, ok := AsServiceError(err)
	return ok && se.Kind == kind
}

// isUniqueViolation works with translated gorm errors and raw PostgreSQL/SQLite messages
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint")
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
