// Package metadata is the key/value table of the client's local sqlite
// database. The plain credential backend keeps its record here.
package metadata

import (
	"context"
	"time"
)

// Entry is one stored value and the time it was last put.
type Entry struct {
	Value     []byte
	UpdatedAt time.Time
}

// Repository stores byte values by key. Get returns (nil, nil) for a missing
// key; Delete reports whether a row was removed.
type Repository interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Put(ctx context.Context, key string, value []byte, at time.Time) error
	Delete(ctx context.Context, key string) (bool, error)
}
