/*
Package persistence defines the durable key-value store the cart and order
history are written to, and the context helpers shared by its adapters.

A Store is the Go counterpart of a same-device synchronous key-value storage:
string keys, string values, last writer wins. Implementations live in the
memory, sqlite, mysql and redis subpackages.
*/
package persistence

import (
	"context"
	"errors"
)

var (
	// ErrKeyNotFound is returned by Get when the key has never been written or was deleted
	ErrKeyNotFound = errors.New("key not found")

	// ErrQuotaExceeded is returned by Set when the store cannot hold the value
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrStoreClosed is returned by any operation after Close
	ErrStoreClosed = errors.New("store is closed")
)

// Store is a durable string key-value store.
// There is no locking or versioning: concurrent writers to one key clobber each other.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
