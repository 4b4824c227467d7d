// Package kv implements the cart and order repositories on top of a key-value
// Store: each collection is one JSON array under its own key.
package kv

import (
	"context"
	"encoding/json"
	"errors"

	"scanorder/domain/cart"
	"scanorder/domain/shared"
	"scanorder/infrastructure/persistence"
)

const entityCart = "cart"

// CartRepository stores the cart as a JSON array of line items under key
type CartRepository struct {
	store persistence.Store
	key   string
}

func NewCartRepository(store persistence.Store, key string) *CartRepository {
	return &CartRepository{store: store, key: key}
}

func (r *CartRepository) Key() string { return r.key }

func (r *CartRepository) Load(ctx context.Context) (cart.Cart, error) {
	raw, err := r.store.Get(ctx, r.key)
	if errors.Is(err, persistence.ErrKeyNotFound) {
		return cart.Empty(), nil
	}
	if err != nil {
		return cart.Empty(), err
	}

	var items []cart.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return cart.Empty(), shared.NewCorruptStateError(entityCart, r.key, err)
	}
	c, err := cart.Rebuild(items)
	if err != nil {
		return cart.Empty(), shared.NewCorruptStateError(entityCart, r.key, err)
	}
	return c, nil
}

func (r *CartRepository) Save(ctx context.Context, c cart.Cart) error {
	data, err := json.Marshal(c.Items())
	if err != nil {
		return shared.NewPersistenceError(entityCart, err)
	}
	if err := r.store.Set(ctx, r.key, string(data)); err != nil {
		return shared.NewPersistenceError(entityCart, err)
	}
	return nil
}

// Clear removes the key rather than writing an empty array
func (r *CartRepository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, r.key); err != nil {
		return shared.NewPersistenceError(entityCart, err)
	}
	return nil
}

var _ cart.Repository = (*CartRepository)(nil)
