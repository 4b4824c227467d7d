package order

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// History completed orders, newest first. Immutable like cart.Cart.
type History struct {
	orders []*Order
}

func EmptyHistory() History {
	return History{}
}

// RebuildHistory restores a persisted history, which must already be newest first.
// The order is taken as stored and never re-sorted.
func RebuildHistory(orders []*Order) (History, error) {
	seen := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		if o == nil {
			return History{}, fmt.Errorf("nil order in history")
		}
		if _, dup := seen[o.ID()]; dup {
			return History{}, fmt.Errorf("order %s: %w", o.ID(), ErrDuplicateOrder)
		}
		seen[o.ID()] = struct{}{}
	}
	return History{orders: append([]*Order(nil), orders...)}, nil
}

// Record prepends o
func (h History) Record(o *Order) History {
	orders := make([]*Order, 0, len(h.orders)+1)
	orders = append(orders, o)
	orders = append(orders, h.orders...)
	return History{orders: orders}
}

// Orders newest first. Orders themselves are immutable and shared.
func (h History) Orders() []*Order {
	return append([]*Order(nil), h.orders...)
}

func (h History) Len() int {
	return len(h.orders)
}

func (h History) IsEmpty() bool {
	return len(h.orders) == 0
}

// Latest the most recently placed order
func (h History) Latest() (*Order, bool) {
	if len(h.orders) == 0 {
		return nil, false
	}
	return h.orders[0], true
}

// Find the order with id
func (h History) Find(id string) (*Order, bool) {
	for _, o := range h.orders {
		if o.ID() == id {
			return o, true
		}
	}
	return nil, false
}

// Total Σ stored order totals
func (h History) Total() decimal.Decimal {
	total := decimal.Zero
	for _, o := range h.orders {
		total = total.Add(o.Total())
	}
	return total
}
