package orderbookv1

import (
	"errors"
	"fmt"
)

var (
	// ErrNilOrder indicates a nil order was passed where one is required.
	ErrNilOrder = errors.New("order cannot be nil")
	// ErrInvalidPrice indicates a non-positive limit price.
	ErrInvalidPrice = errors.New("price must be positive")
	// ErrInvalidQuantity indicates a non-positive order quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInvalidOrderType indicates an unrecognized order type.
	ErrInvalidOrderType = errors.New("invalid order type")
	// ErrOrderNotFound indicates a cancel for an order the book does not hold.
	ErrOrderNotFound = errors.New("order not found")
)

// InvariantViolation is a fatal internal defect of the matching engine:
// the book reached a state the algorithm must never produce. A run that
// observes one aborts rather than continuing on inconsistent state.
type InvariantViolation struct {
	Step    int
	Detail  string
	OrderID int64
}

func (e *InvariantViolation) Error() string {
	if e.OrderID != 0 {
		return fmt.Sprintf("book invariant violated at step %d (order %d): %s", e.Step, e.OrderID, e.Detail)
	}
	return fmt.Sprintf("book invariant violated at step %d: %s", e.Step, e.Detail)
}

// NewInvariantViolation creates an InvariantViolation with diagnostic context.
func NewInvariantViolation(step int, orderID int64, detail string) *InvariantViolation {
	return &InvariantViolation{Step: step, OrderID: orderID, Detail: detail}
}
