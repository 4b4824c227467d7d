package order

import (
	"errors"

	"scanorder/domain/shared"
)

const entityOrder = "order"

var (
	// ErrEmptyOrderItems an order needs at least one line item
	ErrEmptyOrderItems = errors.New("order must have at least one item")

	// ErrDuplicateOrder a persisted history lists the same order id twice
	ErrDuplicateOrder = errors.New("duplicate order id")
)

// NewEmptyOrderItemsError matches both ErrEmptyOrderItems and shared.ErrInvalidInput
func NewEmptyOrderItemsError() error {
	return &shared.DomainError{
		Err:     shared.ErrInvalidInput,
		Cause:   ErrEmptyOrderItems,
		Entity:  entityOrder,
		Field:   "items",
		Message: "cannot place an order",
	}
}

// NewDuplicateOrderError matches both ErrDuplicateOrder and shared.ErrConflict
func NewDuplicateOrderError(id string) error {
	return &shared.DomainError{
		Err:     shared.ErrConflict,
		Cause:   ErrDuplicateOrder,
		Entity:  entityOrder,
		Field:   "id",
		Message: "order " + id + " already placed",
	}
}
