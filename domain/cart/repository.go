package cart

import "context"

// Repository persists the cart collection under a single key.
// Load returns an empty cart when nothing is stored, and an error matching
// shared.ErrCorruptState when stored data cannot be rebuilt.
type Repository interface {
	Load(ctx context.Context) (Cart, error)
	Save(ctx context.Context, c Cart) error
	Clear(ctx context.Context) error
}
