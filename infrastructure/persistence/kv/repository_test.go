package kv

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"scanorder/domain/cart"
	"scanorder/domain/order"
	"scanorder/domain/shared"
	"scanorder/infrastructure/persistence"
	"scanorder/infrastructure/persistence/memory"
	"scanorder/infrastructure/persistence/mocks"

	"github.com/shopspring/decimal"
)

func sampleCart(t *testing.T) cart.Cart {
	t.Helper()
	c := cart.Empty()
	for _, li := range []cart.LineItem{
		{ID: "A", Title: "Soup", Price: decimal.RequireFromString("4.50"), Image: "soup.png"},
		{ID: "B", Title: "Tea", Price: decimal.NewFromInt(2)},
		{ID: "A", Title: "Soup", Price: decimal.RequireFromString("4.50")},
	} {
		var err error
		if c, err = c.Add(li); err != nil {
			t.Fatal(err)
		}
	}
	return c
}

func TestCartRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repo := NewCartRepository(store, "cart")

	empty, err := repo.Load(ctx)
	if err != nil || !empty.IsEmpty() {
		t.Fatalf("Load(missing) = %+v, %v", empty.Items(), err)
	}

	c := sampleCart(t)
	if err := repo.Save(ctx, c); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	raw, _ := store.Get(ctx, "cart")
	if !strings.Contains(raw, `"price":4.5`) || !strings.Contains(raw, `"quantity":2`) {
		t.Errorf("persisted form = %s", raw)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded.Equal(c) {
		t.Errorf("round trip mismatch: %+v", loaded.Items())
	}

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := store.Get(ctx, "cart"); !errors.Is(err, persistence.ErrKeyNotFound) {
		t.Error("Clear() should delete the key")
	}
}

func TestCartRepositoryReadsForeignShape(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	_ = store.Set(ctx, "cart", `[{"id":"A","name":"Soup","price":"3","quantity":2,"category":"hot"}]`)

	c, err := NewCartRepository(store, "cart").Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	li, ok := c.Find("A")
	if !ok || li.Title != "Soup" || li.Quantity != 2 || string(li.Extras["category"]) != `"hot"` {
		t.Errorf("loaded = %+v", li)
	}
}

func TestCartRepositoryCorruptData(t *testing.T) {
	tests := map[string]string{
		"not json":       `{{{`,
		"wrong shape":    `{"id":"A"}`,
		"duplicate ids":  `[{"id":"A","price":1,"quantity":1},{"id":"A","price":1,"quantity":1}]`,
		"zero quantity":  `[{"id":"A","price":1,"quantity":0}]`,
		"negative price": `[{"id":"A","price":-1,"quantity":1}]`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := memory.New()
			_ = store.Set(ctx, "cart", raw)

			c, err := NewCartRepository(store, "cart").Load(ctx)
			if !errors.Is(err, shared.ErrCorruptState) {
				t.Fatalf("Load() error = %v, want ErrCorruptState", err)
			}
			if !c.IsEmpty() {
				t.Error("corrupt load should return an empty cart")
			}
		})
	}
}

func TestCartRepositoryStoreFailures(t *testing.T) {
	ctx := context.Background()
	faulty := mocks.NewFaultyStore(memory.New())
	repo := NewCartRepository(faulty, "cart")

	readErr := errors.New("disk unavailable")
	faulty.FailGet("cart", readErr)
	if _, err := repo.Load(ctx); !errors.Is(err, readErr) || errors.Is(err, shared.ErrCorruptState) {
		t.Errorf("Load() with read failure = %v", err)
	}

	faulty.FailSet("cart", persistence.ErrQuotaExceeded)
	err := repo.Save(ctx, sampleCart(t))
	if !errors.Is(err, shared.ErrPersistence) || !errors.Is(err, persistence.ErrQuotaExceeded) {
		t.Errorf("Save() with full store = %v", err)
	}

	faulty.FailDelete(errors.New("locked"))
	if err := repo.Clear(ctx); !errors.Is(err, shared.ErrPersistence) {
		t.Errorf("Clear() with failing delete = %v", err)
	}
}

func TestOrderRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repo := NewOrderRepository(store, "orderHistory")

	h, err := repo.Load(ctx)
	if err != nil || !h.IsEmpty() {
		t.Fatalf("Load(missing) = %d orders, %v", h.Len(), err)
	}

	placedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	first, _ := order.New("o-1", placedAt, sampleCart(t), "")
	second, _ := order.New("o-2", placedAt.Add(time.Minute), sampleCart(t).Remove("B"), "")
	h = h.Record(first).Record(second)

	if err := repo.Save(ctx, h); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	raw, _ := store.Get(ctx, "orderHistory")
	if !strings.Contains(raw, `"total":9`) || !strings.Contains(raw, `"status":"Processing"`) {
		t.Errorf("persisted form = %s", raw)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	orders := loaded.Orders()
	if len(orders) != 2 || orders[0].ID() != "o-2" || orders[1].ID() != "o-1" {
		t.Fatalf("loaded order = %v", orders)
	}
	got := orders[1]
	if got.Date() != first.Date() || !got.Total().Equal(first.Total()) || !got.PlacedAt().Equal(placedAt) {
		t.Errorf("loaded order = %s %s %s", got.Date(), got.Total(), got.PlacedAt())
	}
	if len(got.Items()) != 2 || !got.Items()[0].Equal(first.Items()[0]) {
		t.Errorf("items = %+v", got.Items())
	}
}

func TestOrderRepositoryReadsLegacyRecords(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	_ = store.Set(ctx, "orderHistory",
		`[{"id":"1717000000000","date":"5/29/2024, 6:13:20 PM","items":[{"id":"B","title":"Bun","price":5,"quantity":3}],"total":15,"status":"Processing"}]`)

	h, err := NewOrderRepository(store, "orderHistory").Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	latest, _ := h.Latest()
	if latest.Date() != "5/29/2024, 6:13:20 PM" || !latest.Total().Equal(decimal.NewFromInt(15)) || !latest.PlacedAt().IsZero() {
		t.Errorf("legacy order = %s %s %s", latest.Date(), latest.Total(), latest.PlacedAt())
	}
}

func TestOrderRepositoryCorruptData(t *testing.T) {
	tests := map[string]string{
		"not json":      `nope`,
		"empty items":   `[{"id":"o-1","items":[],"total":0}]`,
		"bad total":     `[{"id":"o-1","items":[{"id":"A","price":1,"quantity":1}],"total":"x"}]`,
		"duplicate ids": `[{"id":"o-1","items":[{"id":"A","price":1,"quantity":1}],"total":1},{"id":"o-1","items":[{"id":"A","price":1,"quantity":1}],"total":1}]`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := memory.New()
			_ = store.Set(ctx, "orderHistory", raw)
			h, err := NewOrderRepository(store, "orderHistory").Load(ctx)
			if !errors.Is(err, shared.ErrCorruptState) || !h.IsEmpty() {
				t.Errorf("Load() = %d orders, %v", h.Len(), err)
			}
		})
	}
}
