/*
Package cart holds the shopping cart state.

Cart is an immutable value: every transition returns a new Cart and leaves the
receiver untouched, so the caller decides when the new state becomes current and
when it is persisted.

Invariants after every transition:
  - line items are unique by id
  - every quantity is >= 1; an item whose quantity would reach 0 is removed
  - quantities saturate at math.MaxInt instead of wrapping
  - Total and ItemCount are derived from the items on every call
*/
package cart

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Cart ordered collection of line items, in the order they were first added
type Cart struct {
	items []LineItem
}

// Empty returns a cart with no items
func Empty() Cart {
	return Cart{}
}

// Rebuild reconstructs a cart from persisted items.
// Persisted data that breaks an invariant is rejected instead of being repaired.
func Rebuild(items []LineItem) (Cart, error) {
	seen := make(map[string]struct{}, len(items))
	out := make([]LineItem, 0, len(items))
	for i, item := range items {
		if item.ID == "" {
			return Cart{}, fmt.Errorf("item %d: %w", i, newMissingIDError())
		}
		if _, dup := seen[item.ID]; dup {
			return Cart{}, fmt.Errorf("item %s: %w", item.ID, ErrDuplicateItem)
		}
		if item.Quantity <= 0 {
			return Cart{}, fmt.Errorf("item %s: %w", item.ID, ErrNonPositiveQuantity)
		}
		if item.Price.IsNegative() {
			return Cart{}, fmt.Errorf("item %s: %w", item.ID, ErrNegativePrice)
		}
		seen[item.ID] = struct{}{}
		out = append(out, item.Clone())
	}
	return Cart{items: out}, nil
}

// Add puts one unit of item into the cart.
// An existing id gets quantity+1 and keeps the fields it was first added with.
// A new id is appended with quantity 1, whatever quantity the input carried.
func (c Cart) Add(item LineItem) (Cart, error) {
	if item.ID == "" {
		return c, newMissingIDError()
	}
	if item.Price.IsNegative() {
		return c, newNegativePriceError(item.ID)
	}

	next := c.clone()
	if i := next.indexOf(item.ID); i >= 0 {
		next.items[i].Quantity = addQuantity(next.items[i].Quantity, 1)
		return next, nil
	}

	added := item.Clone()
	added.Quantity = 1
	next.items = append(next.items, added)
	return next, nil
}

// Remove drops the line item with id; absent ids are a no-op
func (c Cart) Remove(id string) Cart {
	i := c.indexOf(id)
	if i < 0 {
		return c
	}
	next := c.clone()
	next.items = append(next.items[:i], next.items[i+1:]...)
	return next
}

// UpdateQuantity adds delta to the item's quantity, clamped at 0.
// Reaching 0 removes the item. Absent ids are a no-op.
func (c Cart) UpdateQuantity(id string, delta int) Cart {
	i := c.indexOf(id)
	if i < 0 {
		return c
	}
	qty := addQuantity(c.items[i].Quantity, delta)
	if qty <= 0 {
		return c.Remove(id)
	}
	next := c.clone()
	next.items[i].Quantity = qty
	return next
}

// Total Σ price × quantity
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ItemCount Σ quantity, saturated at math.MaxInt
func (c Cart) ItemCount() int {
	n := 0
	for _, item := range c.items {
		n = addQuantity(n, item.Quantity)
	}
	return n
}

// Items returns a deep copy; mutating it never affects the cart
func (c Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	for i, item := range c.items {
		out[i] = item.Clone()
	}
	return out
}

func (c Cart) IsEmpty() bool {
	return len(c.items) == 0
}

func (c Cart) Len() int {
	return len(c.items)
}

// Find returns a copy of the line item with id
func (c Cart) Find(id string) (LineItem, bool) {
	if i := c.indexOf(id); i >= 0 {
		return c.items[i].Clone(), true
	}
	return LineItem{}, false
}

// Equal value equality, item order included
func (c Cart) Equal(other Cart) bool {
	if len(c.items) != len(other.items) {
		return false
	}
	for i := range c.items {
		if !c.items[i].Equal(other.items[i]) {
			return false
		}
	}
	return true
}

// addQuantity q+delta, saturating at math.MaxInt for a positive delta.
// A negative result is returned as is; callers treat it as removal.
func addQuantity(q, delta int) int {
	if delta > 0 && q > math.MaxInt-delta {
		return math.MaxInt
	}
	if delta < 0 && q < math.MinInt-delta {
		return math.MinInt
	}
	return q + delta
}

func (c Cart) indexOf(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (c Cart) clone() Cart {
	return Cart{items: c.Items()}
}
