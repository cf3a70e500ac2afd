package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")

	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrCreateFailed        = errors.New("order create failed")
	ErrPartialCreateFailed = errors.New("order partially created")
	ErrTransient           = errors.New("transient store failure")
	ErrRejected            = errors.New("rejected by store")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrStockMutationFailed = errors.New("stock mutation failed")
	ErrStockConflict       = errors.New("stock changed concurrently")

	ErrEmptyCart          = errors.New("cart is empty")
	ErrMixedSellers       = errors.New("cart cannot mix sellers")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrUnsupportedPayment = errors.New("unsupported payment method")
	ErrInvalidAddress     = errors.New("invalid delivery address")
	ErrInvalidDriver      = errors.New("invalid driver")
	ErrInvalidRating      = errors.New("invalid rating")
	ErrAlreadyRated       = errors.New("driver already rated")
	ErrDuplicateRequest   = errors.New("request already in progress")
)

// StockShortage describes one product whose requested quantity exceeds stock.
type StockShortage struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

// InsufficientStockError itemizes every shortage found during validation.
type InsufficientStockError struct {
	Items []StockShortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		name := item.ProductName
		if name == "" {
			name = item.ProductID
		}
		parts = append(parts, fmt.Sprintf("%s requires %d, %d available", name, item.Requested, item.Available))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}

// Is matches ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Transient wraps err so callers can tell a retryable failure apart.
func Transient(err error) error {
	if err == nil || errors.Is(err, ErrTransient) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrTransient, err)
}

// Rejected wraps err as a permanent store refusal.
func Rejected(err error) error {
	if err == nil || errors.Is(err, ErrRejected) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrRejected, err)
}

// IsTransient reports whether retrying the failed call may succeed.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}
