/*
Package billing builds the consolidated bill shown at payment time.

A Bill is a read model over the live cart and the order history. Building one
never changes either input.

The bill carries two totals that are computed independently:
  - Total adds the cart total to every stored order total
  - LinesTotal prices the merged lines, using the first price seen for each id

They agree while prices stay put. When a price changes between orders they drift
apart; Consistent reports that, and nothing here tries to reconcile it.
*/
package billing

import (
	"scanorder/domain/cart"
	"scanorder/domain/order"

	"github.com/shopspring/decimal"
)

// Bill consolidated view of everything owed
type Bill struct {
	lines        []cart.LineItem
	cartTotal    decimal.Decimal
	historyTotal decimal.Decimal
	orderCount   int
}

// Aggregate merges the cart and the history by line item id.
// Cart items come first, then the items of each order, newest order first.
// A repeated id adds its quantity to the existing line and keeps that line's other fields.
func Aggregate(c cart.Cart, h order.History) Bill {
	index := make(map[string]int)
	var lines []cart.LineItem

	merge := func(li cart.LineItem) {
		if i, ok := index[li.ID]; ok {
			lines[i].Quantity += li.Quantity
			return
		}
		index[li.ID] = len(lines)
		lines = append(lines, li.Clone())
	}

	for _, li := range c.Items() {
		merge(li)
	}
	for _, o := range h.Orders() {
		for _, li := range o.Items() {
			merge(li)
		}
	}

	return Bill{
		lines:        lines,
		cartTotal:    c.Total(),
		historyTotal: h.Total(),
		orderCount:   h.Len(),
	}
}

// Lines merged lines in insertion order, deep copied
func (b Bill) Lines() []cart.LineItem {
	out := make([]cart.LineItem, len(b.lines))
	for i, li := range b.lines {
		out[i] = li.Clone()
	}
	return out
}

func (b Bill) CartTotal() decimal.Decimal    { return b.cartTotal }
func (b Bill) HistoryTotal() decimal.Decimal { return b.historyTotal }
func (b Bill) OrderCount() int               { return b.orderCount }

// Total cart total plus the stored total of every order
func (b Bill) Total() decimal.Decimal {
	return b.cartTotal.Add(b.historyTotal)
}

// LinesTotal Σ price × quantity over the merged lines
func (b Bill) LinesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, li := range b.lines {
		total = total.Add(li.Subtotal())
	}
	return total
}

// Consistent reports whether both ways of totalling the bill agree
func (b Bill) Consistent() bool {
	return b.Total().Equal(b.LinesTotal())
}

// ItemCount Σ quantity over the merged lines
func (b Bill) ItemCount() int {
	n := 0
	for _, li := range b.lines {
		n += li.Quantity
	}
	return n
}

func (b Bill) IsEmpty() bool {
	return len(b.lines) == 0
}

// Equal value equality, used to check that aggregation is repeatable
func (b Bill) Equal(other Bill) bool {
	if len(b.lines) != len(other.lines) || b.orderCount != other.orderCount ||
		!b.cartTotal.Equal(other.cartTotal) || !b.historyTotal.Equal(other.historyTotal) {
		return false
	}
	for i := range b.lines {
		if !b.lines[i].Equal(other.lines[i]) {
			return false
		}
	}
	return true
}
