package order

import (
	"errors"
	"testing"
	"time"

	"scanorder/domain/cart"
	"scanorder/domain/shared"

	"github.com/shopspring/decimal"
)

func cartOf(t *testing.T, items ...cart.LineItem) cart.Cart {
	t.Helper()
	c := cart.Empty()
	for _, li := range items {
		var err error
		if c, err = c.Add(li); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}
	return c
}

func TestNewSnapshotsCart(t *testing.T) {
	b := cart.LineItem{ID: "B", Title: "Bun", Price: decimal.NewFromInt(5)}
	c := cartOf(t, b, b, b)
	at := time.Date(2024, 3, 9, 18, 30, 5, 0, time.UTC)

	o, err := New("o-1", at, c, "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if o.Status() != StatusProcessing {
		t.Errorf("Status() = %s", o.Status())
	}
	if o.Date() != "2024-03-09 18:30:05" {
		t.Errorf("Date() = %q", o.Date())
	}
	if !o.Total().Equal(decimal.NewFromInt(15)) {
		t.Errorf("Total() = %s, want 15", o.Total())
	}
	if items := o.Items(); len(items) != 1 || items[0].Quantity != 3 {
		t.Errorf("Items() = %+v", items)
	}

	// later cart changes never reach the stored snapshot
	_ = c.UpdateQuantity("B", 10)
	items := o.Items()
	items[0].Quantity = 99
	if o.Items()[0].Quantity != 3 || o.ItemCount() != 3 {
		t.Error("order snapshot was mutated")
	}

	events := o.PullEvents()
	if len(events) != 1 || events[0].EventName() != EventPlaced || events[0].GetAggregateID() != "o-1" {
		t.Fatalf("events = %+v", events)
	}
	if placed := events[0].(*PlacedEvent); !placed.Total().Equal(decimal.NewFromInt(15)) || placed.ItemCount() != 3 {
		t.Errorf("placed event = %+v", placed)
	}
	if len(o.PullEvents()) != 0 {
		t.Error("PullEvents() should clear recorded events")
	}
}

func TestNewRejectsEmptyCart(t *testing.T) {
	_, err := New("o-1", time.Now(), cart.Empty(), "")
	if !errors.Is(err, ErrEmptyOrderItems) || !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("New(empty) error = %v", err)
	}
}

func TestNewCustomDateLayout(t *testing.T) {
	c := cartOf(t, cart.LineItem{ID: "A", Price: decimal.NewFromInt(1)})
	o, err := New("o-1", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), c, time.RFC3339)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if o.Date() != "2024-01-02T03:04:05Z" {
		t.Errorf("Date() = %q", o.Date())
	}
}

func TestNewIDIsTimeOrdered(t *testing.T) {
	first, err := NewID()
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewID()
	if err != nil {
		t.Fatal(err)
	}
	if first == second || first > second {
		t.Errorf("ids not increasing: %s then %s", first, second)
	}
}

func TestReconstruct(t *testing.T) {
	items := []cart.LineItem{{ID: "A", Price: decimal.NewFromInt(4), Quantity: 2}}

	o, err := Reconstruct(ReconstructionDTO{ID: "o-1", Date: "x", Items: items, Total: decimal.NewFromInt(7)})
	if err != nil {
		t.Fatalf("Reconstruct() error = %v", err)
	}
	// the stored total wins over a recomputation
	if !o.Total().Equal(decimal.NewFromInt(7)) || o.Status() != StatusProcessing {
		t.Errorf("reconstructed = total %s status %s", o.Total(), o.Status())
	}
	if len(o.PullEvents()) != 0 {
		t.Error("reconstructed order must not record events")
	}

	bad := []ReconstructionDTO{
		{Items: items},
		{ID: "o-2"},
		{ID: "o-3", Items: []cart.LineItem{{ID: "A", Quantity: 0}}},
		{ID: "o-4", Items: items, Total: decimal.NewFromInt(-1)},
	}
	for _, dto := range bad {
		if _, err := Reconstruct(dto); err == nil {
			t.Errorf("Reconstruct(%+v) accepted invalid data", dto)
		}
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	c := cartOf(t, cart.LineItem{ID: "A", Price: decimal.NewFromInt(2)})
	h := EmptyHistory()
	for _, id := range []string{"o-1", "o-2", "o-3"} {
		o, err := New(id, time.Now(), c, "")
		if err != nil {
			t.Fatal(err)
		}
		h = h.Record(o)
	}

	orders := h.Orders()
	if len(orders) != 3 || orders[0].ID() != "o-3" || orders[2].ID() != "o-1" {
		t.Fatalf("order of history = %v", ids(orders))
	}
	if latest, ok := h.Latest(); !ok || latest.ID() != "o-3" {
		t.Errorf("Latest() = %v", latest)
	}
	if !h.Total().Equal(decimal.NewFromInt(6)) {
		t.Errorf("Total() = %s", h.Total())
	}

	before := h
	_ = h.Record(orders[0])
	if before.Len() != 3 {
		t.Error("Record mutated the receiver")
	}

	if _, err := RebuildHistory([]*Order{orders[0], orders[0]}); !errors.Is(err, ErrDuplicateOrder) {
		t.Errorf("RebuildHistory(dup) error = %v", err)
	}
	if _, ok := EmptyHistory().Latest(); ok {
		t.Error("empty history has a latest order")
	}

	if o, ok := h.Find("o-2"); !ok || o.ID() != "o-2" {
		t.Errorf("Find(o-2) = %v, %v", o, ok)
	}
	if _, ok := h.Find("o-9"); ok {
		t.Error("Find() returned an order that was never placed")
	}
}

func TestDuplicateOrderError(t *testing.T) {
	err := NewDuplicateOrderError("o-1")
	if !errors.Is(err, ErrDuplicateOrder) || !errors.Is(err, shared.ErrConflict) {
		t.Errorf("NewDuplicateOrderError() = %v", err)
	}
}

func ids(orders []*Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.ID()
	}
	return out
}
