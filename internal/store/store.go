// Package store defines the key-value contract the rest of the
// application uses to read and write user records, plus redis,
// postgres and in-memory implementations of it.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no record. Every
// implementation maps its own missing-key signal onto it.
var ErrNotFound = errors.New("store: key not found")

// Store is the minimal contract the auth core needs from the record
// store. The handle is constructed once at startup, injected into the
// components that need it, and closed on shutdown.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// SetIfAbsent writes the value only when the key does not exist
	// yet and reports whether the write happened. It is the conditional
	// create that keeps concurrent registrations of the same name from
	// overwriting each other.
	SetIfAbsent(ctx context.Context, key, value string) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
	Close() error
}
