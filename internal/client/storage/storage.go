package storage

import "context"

// Reader is the read side shared by Store and Tx.
type Reader interface {
	// Get returns the value stored under key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
}

// Tx is the handle passed to Store.Update.
type Tx interface {
	Reader
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Store is a persistent string key/value map.
type Store interface {
	Tx

	// Update runs fn atomically. If fn returns an error nothing it wrote
	// is kept.
	Update(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	Close() error
}
