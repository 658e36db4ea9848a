// Package blob stores whole JSON documents under string keys. Backends
// guarantee that a Get never observes a partially written document.
package blob

import (
	"context"
	"errors"
)

// ErrNotFound reports an absent key. Callers recover it into an empty
// collection; every other error means the store is broken and propagates.
var ErrNotFound = errors.New("blob: not found")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}
