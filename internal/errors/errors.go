package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound         = new(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists    = new(ErrCodeAlreadyExists, "resource already exists")
	ErrVersionConflict  = new(ErrCodeVersionConflict, "version conflict")
	ErrValidation       = new(ErrCodeValidation, "validation error")
	ErrInvalidOperation = new(ErrCodeInvalidOperation, "invalid operation")
	ErrPermissionDenied = new(ErrCodePermissionDenied, "permission denied")
	ErrDatabase         = new(ErrCodeDatabase, "database error")
	ErrSystem           = new(ErrCodeSystemError, "system error")

	// Billing engine input errors. All of them are synchronous validation
	// failures and are never retried.
	ErrInvalidCadence    = new(ErrCodeInvalidCadence, "invalid billing cadence")
	ErrSameCadence       = new(ErrCodeSameCadence, "cadence unchanged")
	ErrInactivePlan      = new(ErrCodeInactivePlan, "plan is inactive")
	ErrNegativePrice     = new(ErrCodeNegativePrice, "negative price")
	ErrOutOfRangeInstant = new(ErrCodeOutOfRangeInstant, "instant out of range")

	// maps errors to http status codes
	statusCodeMap = map[error]int{
		ErrDatabase:          http.StatusInternalServerError,
		ErrNotFound:          http.StatusNotFound,
		ErrAlreadyExists:     http.StatusConflict,
		ErrVersionConflict:   http.StatusConflict,
		ErrValidation:        http.StatusBadRequest,
		ErrInvalidOperation:  http.StatusBadRequest,
		ErrPermissionDenied:  http.StatusForbidden,
		ErrSystem:            http.StatusInternalServerError,
		ErrInvalidCadence:    http.StatusBadRequest,
		ErrSameCadence:       http.StatusBadRequest,
		ErrInactivePlan:      http.StatusBadRequest,
		ErrNegativePrice:     http.StatusBadRequest,
		ErrOutOfRangeInstant: http.StatusBadRequest,
	}
)

const (
	ErrCodeSystemError      = "system_error"
	ErrCodeNotFound         = "not_found"
	ErrCodeAlreadyExists    = "already_exists"
	ErrCodeVersionConflict  = "version_conflict"
	ErrCodeValidation       = "validation_error"
	ErrCodeInvalidOperation = "invalid_operation"
	ErrCodePermissionDenied = "permission_denied"
	ErrCodeDatabase         = "database_error"

	ErrCodeInvalidCadence    = "invalid_cadence"
	ErrCodeSameCadence       = "same_cadence"
	ErrCodeInactivePlan      = "inactive_plan"
	ErrCodeNegativePrice     = "negative_price"
	ErrCodeOutOfRangeInstant = "out_of_range_instant"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is reports whether err carries the given sentinel
func Is(err, reference error) bool {
	return errors.Is(err, reference)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsVersionConflict checks if an error is a version conflict error
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidOperation checks if an error is an invalid operation error
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsPermissionDenied checks if an error is a permission denied error
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsBillingInput reports whether err is one of the billing engine input errors
func IsBillingInput(err error) bool {
	return errors.Is(err, ErrInvalidCadence) ||
		errors.Is(err, ErrSameCadence) ||
		errors.Is(err, ErrInactivePlan) ||
		errors.Is(err, ErrNegativePrice) ||
		errors.Is(err, ErrOutOfRangeInstant)
}

func HTTPStatusFromErr(err error) int {
	for _, e := range codeOrder {
		if errors.Is(err, e) {
			return statusCodeMap[e]
		}
	}
	return http.StatusInternalServerError
}

// codeOrder lists the sentinels from most to least specific
var codeOrder = []*InternalError{
	ErrInvalidCadence,
	ErrSameCadence,
	ErrInactivePlan,
	ErrNegativePrice,
	ErrOutOfRangeInstant,
	ErrVersionConflict,
	ErrNotFound,
	ErrAlreadyExists,
	ErrValidation,
	ErrInvalidOperation,
	ErrPermissionDenied,
	ErrDatabase,
	ErrSystem,
}

// CodeFromErr returns the machine readable code of the sentinel err is marked with
func CodeFromErr(err error) string {
	for _, e := range codeOrder {
		if errors.Is(err, e) {
			return e.Code
		}
	}
	return ErrCodeSystemError
}
