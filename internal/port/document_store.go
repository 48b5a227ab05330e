package port

import (
	"context"
	"errors"
)

// ErrConflict is returned by Atomic when a concurrent writer changed one of
// the watched keys and the retry budget was exhausted.
var ErrConflict = errors.New("document store: concurrent update conflict")

// Documents reads and writes JSON documents by key.
type Documents interface {
	// Get decodes the document stored at key into dst. It returns false and
	// leaves dst untouched when the key does not exist.
	Get(ctx context.Context, key string, dst any) (bool, error)

	// Put encodes v and overwrites the document at key.
	Put(ctx context.Context, key string, v any) error
}

// DocumentStore is the persistent key-value document store the core runs on.
type DocumentStore interface {
	Documents

	// Atomic runs fn against a staged view of keys. Writes made through tx
	// are committed together when fn returns nil and discarded otherwise.
	// fn may be invoked more than once if the store retries on conflict.
	Atomic(ctx context.Context, keys []string, fn func(ctx context.Context, tx Documents) error) error

	Ping(ctx context.Context) error
}
