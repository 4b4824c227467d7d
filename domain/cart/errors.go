package cart

import (
	"errors"
	"fmt"

	"scanorder/domain/shared"
)

var (
	// ErrDuplicateItem a persisted cart lists the same id twice
	ErrDuplicateItem = errors.New("duplicate line item id")

	// ErrNonPositiveQuantity a persisted line item with quantity <= 0
	ErrNonPositiveQuantity = errors.New("line item quantity must be positive")

	// ErrNegativePrice price below zero
	ErrNegativePrice = errors.New("line item price must not be negative")
)

const entityLineItem = "line_item"

func newMissingIDError() error {
	return shared.NewValidationError(entityLineItem, "id", "line item id is required")
}

func newNegativePriceError(id string) error {
	return shared.NewValidationError(entityLineItem, "price", fmt.Sprintf("line item %s: price must not be negative", id))
}
