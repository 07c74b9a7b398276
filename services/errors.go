package services

import (
	"errors"
	"fmt"
)

// Not-found errors (404).
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrHallOwnerNotFound = errors.New("hall owner not found")
	ErrHallNotFound      = errors.New("selected hall not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrQuotationNotFound = errors.New("quotation not found")
	ErrInvoiceNotFound   = errors.New("invoice not found")
)

// Access errors (403).
var (
	ErrAccessDenied   = errors.New("access denied")
	ErrNoParentOwner  = fmt.Errorf("%w: sub-user has no parent hall owner", ErrAccessDenied)
	ErrRoleNotAllowed = fmt.Errorf("%w: role not permitted for this operation", ErrAccessDenied)
)

// ValidationError carries a message for a malformed or missing input
// field (400). Controllers surface the message verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// SlotConflictError is returned when a requested slot overlaps an
// active booking (409). It carries the conflicting slot so the caller
// can surface it in the error payload.
type SlotConflictError struct {
	StartTime    string
	EndTime      string
	CustomerName string
}

func (e *SlotConflictError) Error() string {
	return "time slot is already booked"
}

// DuplicateInvoiceError is returned when a non-terminal invoice of the
// same type already exists for the booking (409).
type DuplicateInvoiceError struct {
	InvoiceType string
}

func (e *DuplicateInvoiceError) Error() string {
	return fmt.Sprintf("invoice of type %s already exists for this booking", e.InvoiceType)
}
