// Package orders implements the order core: line-item assembly, the
// atomic order-creation transaction, lifecycle transitions and cancellation.
package orders

import (
	"errors"
	"fmt"
)

// ValidationError is returned for malformed or empty order input
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// Is allows error type checking with errors.Is()
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// NotFoundError is returned when a referenced product, supplier or order is absent
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: id=%d", e.Entity, e.ID)
}

// Is allows error type checking with errors.Is()
func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// InsufficientStockError is returned when a sale item exceeds the available
// quantity at reservation time.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available=%d, requested=%d",
		e.ProductName, e.Available, e.Requested)
}

// Is allows error type checking with errors.Is()
func (e *InsufficientStockError) Is(target error) bool {
	_, ok := target.(*InsufficientStockError)
	return ok
}

// ConflictError is returned when concurrent modification is detected
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Reason)
}

// Is allows error type checking with errors.Is()
func (e *ConflictError) Is(target error) bool {
	_, ok := target.(*ConflictError)
	return ok
}

// PersistenceError wraps a storage-layer failure
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is allows error type checking with errors.Is()
func (e *PersistenceError) Is(target error) bool {
	_, ok := target.(*PersistenceError)
	return ok
}

// PartialFailureError signals that a compensating action could not fully
// complete and operator attention is required.
type PartialFailureError struct {
	OrderID int64
	Reason  string
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("partial failure on order %d: %s", e.OrderID, e.Reason)
}

// Is allows error type checking with errors.Is()
func (e *PartialFailureError) Is(target error) bool {
	_, ok := target.(*PartialFailureError)
	return ok
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsInsufficientStock checks if an error is an InsufficientStockError
func IsInsufficientStock(err error) bool {
	var ise *InsufficientStockError
	return errors.As(err, &ise)
}
