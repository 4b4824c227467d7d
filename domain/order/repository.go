package order

import "context"

// Repository persists the whole history under a single key.
// Load returns an empty history when nothing is stored, and an error matching
// shared.ErrCorruptState when stored data cannot be rebuilt.
type Repository interface {
	Load(ctx context.Context) (History, error)
	Save(ctx context.Context, h History) error
	Clear(ctx context.Context) error
}
