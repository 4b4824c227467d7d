package cart

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"scanorder/domain/shared"

	"github.com/shopspring/decimal"
)

func item(id string, price int64) LineItem {
	return LineItem{ID: id, Title: "dish " + id, Price: decimal.NewFromInt(price)}
}

func mustAdd(t *testing.T, c Cart, li LineItem) Cart {
	t.Helper()
	next, err := c.Add(li)
	if err != nil {
		t.Fatalf("Add(%s) error = %v", li.ID, err)
	}
	return next
}

func TestAddMergesById(t *testing.T) {
	c := mustAdd(t, Empty(), item("A", 10))
	if c.Len() != 1 || c.ItemCount() != 1 || !c.Total().Equal(decimal.NewFromInt(10)) {
		t.Fatalf("after first add: len=%d count=%d total=%s", c.Len(), c.ItemCount(), c.Total())
	}

	c = mustAdd(t, c, item("A", 10))
	got, ok := c.Find("A")
	if !ok || got.Quantity != 2 || c.Len() != 1 {
		t.Fatalf("after second add: %+v len=%d", got, c.Len())
	}
	if !c.Total().Equal(decimal.NewFromInt(20)) {
		t.Errorf("Total() = %s, want 20", c.Total())
	}
}

func TestAddFirstWriteWins(t *testing.T) {
	c := mustAdd(t, Empty(), LineItem{ID: "A", Title: "Soup", Price: decimal.NewFromInt(10)})
	c = mustAdd(t, c, LineItem{ID: "A", Title: "Renamed", Price: decimal.NewFromInt(99)})

	got, _ := c.Find("A")
	if got.Title != "Soup" || !got.Price.Equal(decimal.NewFromInt(10)) {
		t.Errorf("existing item changed: %+v", got)
	}
}

func TestAddIgnoresInputQuantity(t *testing.T) {
	li := item("A", 3)
	li.Quantity = 7
	c := mustAdd(t, Empty(), li)
	if got, _ := c.Find("A"); got.Quantity != 1 {
		t.Errorf("Quantity = %d, want 1", got.Quantity)
	}
}

func TestAddValidation(t *testing.T) {
	start := mustAdd(t, Empty(), item("A", 1))

	tests := []struct {
		name  string
		item  LineItem
		field string
	}{
		{"missing id", LineItem{Title: "nameless", Price: decimal.NewFromInt(1)}, "id"},
		{"negative price", LineItem{ID: "B", Price: decimal.NewFromInt(-1)}, "price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := start.Add(tt.item)
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Fatalf("error = %v, want ErrInvalidInput", err)
			}
			var domainErr *shared.DomainError
			if !errors.As(err, &domainErr) || domainErr.Field != tt.field {
				t.Errorf("field = %+v, want %s", domainErr, tt.field)
			}
			if !got.Equal(start) {
				t.Error("rejected add changed the cart")
			}
		})
	}
}

func TestUpdateQuantity(t *testing.T) {
	c := mustAdd(t, Empty(), item("A", 10))
	c = mustAdd(t, c, item("A", 10))

	tests := []struct {
		name    string
		id      string
		delta   int
		wantQty int
		present bool
	}{
		{"decrement", "A", -1, 1, true},
		{"increment", "A", 3, 5, true},
		{"to zero removes", "A", -2, 0, false},
		{"below zero clamps and removes", "A", -10, 0, false},
		{"absent id is no-op", "Z", 5, 2, true},
		{"huge increment saturates", "A", math.MaxInt, math.MaxInt, true},
		{"huge decrement removes", "A", math.MinInt, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := c.UpdateQuantity(tt.id, tt.delta)
			got, ok := next.Find("A")
			if ok != tt.present {
				t.Fatalf("present = %v, want %v", ok, tt.present)
			}
			if ok && got.Quantity != tt.wantQty {
				t.Errorf("Quantity = %d, want %d", got.Quantity, tt.wantQty)
			}
			for _, li := range next.Items() {
				if li.Quantity <= 0 {
					t.Errorf("item %s kept with quantity %d", li.ID, li.Quantity)
				}
			}
		})
	}

	if got, _ := c.Find("A"); got.Quantity != 2 {
		t.Errorf("receiver mutated: quantity = %d", got.Quantity)
	}
}

func TestQuantitySaturates(t *testing.T) {
	c := mustAdd(t, Empty(), item("A", 1))
	c = c.UpdateQuantity("A", math.MaxInt)
	c = mustAdd(t, c, item("A", 1))
	c = c.UpdateQuantity("A", 1)

	if got, _ := c.Find("A"); got.Quantity != math.MaxInt {
		t.Fatalf("Quantity = %d, want math.MaxInt", got.Quantity)
	}

	c = mustAdd(t, c, item("B", 1))
	if got := c.ItemCount(); got != math.MaxInt {
		t.Errorf("ItemCount() = %d, want math.MaxInt", got)
	}
	if c.Total().IsNegative() {
		t.Errorf("Total() = %s", c.Total())
	}
}

func TestDecrementToEmpty(t *testing.T) {
	c := mustAdd(t, Empty(), item("A", 10))
	c = mustAdd(t, c, item("A", 10))
	c = c.UpdateQuantity("A", -1)
	c = c.UpdateQuantity("A", -1)
	if !c.IsEmpty() || !c.Total().IsZero() || c.ItemCount() != 0 {
		t.Errorf("cart not empty: %+v", c.Items())
	}
}

func TestRemove(t *testing.T) {
	c := mustAdd(t, Empty(), item("A", 1))
	c = mustAdd(t, c, item("B", 2))

	if next := c.Remove("missing"); !next.Equal(c) {
		t.Error("removing an absent id changed the cart")
	}
	next := c.Remove("A")
	if _, ok := next.Find("A"); ok || next.Len() != 1 {
		t.Errorf("Remove(A) = %+v", next.Items())
	}
	if c.Len() != 2 {
		t.Error("receiver mutated")
	}
}

func TestDerivedValues(t *testing.T) {
	c := Empty()
	prices := map[string]string{"A": "3.50", "B": "0.10", "C": "12"}
	for _, id := range []string{"A", "B", "A", "C", "B", "B"} {
		c = mustAdd(t, c, LineItem{ID: id, Price: decimal.RequireFromString(prices[id])})
	}

	wantTotal := decimal.RequireFromString("7.00").Add(decimal.RequireFromString("0.30")).Add(decimal.NewFromInt(12))
	if !c.Total().Equal(wantTotal) {
		t.Errorf("Total() = %s, want %s", c.Total(), wantTotal)
	}
	if c.ItemCount() != 6 {
		t.Errorf("ItemCount() = %d, want 6", c.ItemCount())
	}
	if ids := []string{c.Items()[0].ID, c.Items()[1].ID, c.Items()[2].ID}; ids[0] != "A" || ids[1] != "B" || ids[2] != "C" {
		t.Errorf("insertion order = %v", ids)
	}
}

func TestItemsIsDeepCopy(t *testing.T) {
	li := item("A", 1)
	li.Extras = map[string]json.RawMessage{"category": json.RawMessage(`"soup"`)}
	c := mustAdd(t, Empty(), li)

	items := c.Items()
	items[0].Quantity = 42
	items[0].Extras["category"][1] = 'X'

	got, _ := c.Find("A")
	if got.Quantity != 1 || string(got.Extras["category"]) != `"soup"` {
		t.Errorf("cart changed through Items(): %+v", got)
	}

	li.Extras["category"][1] = 'Y'
	if got, _ := c.Find("A"); string(got.Extras["category"]) != `"soup"` {
		t.Error("cart shares extras with the added item")
	}
}

func TestRebuild(t *testing.T) {
	tests := []struct {
		name    string
		items   []LineItem
		wantErr error
	}{
		{"valid", []LineItem{{ID: "A", Price: decimal.NewFromInt(1), Quantity: 2}}, nil},
		{"duplicate", []LineItem{{ID: "A", Quantity: 1}, {ID: "A", Quantity: 1}}, ErrDuplicateItem},
		{"zero quantity", []LineItem{{ID: "A", Quantity: 0}}, ErrNonPositiveQuantity},
		{"negative price", []LineItem{{ID: "A", Quantity: 1, Price: decimal.NewFromInt(-2)}}, ErrNegativePrice},
		{"missing id", []LineItem{{Quantity: 1}}, shared.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Rebuild(tt.items)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Rebuild() error = %v", err)
				}
				if c.ItemCount() != 2 {
					t.Errorf("ItemCount() = %d", c.ItemCount())
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Rebuild() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
