// Package repository defines the durable key-value storage the pool store
// writes its collections to. Backends live in the subpackages.
package repository

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

type KV interface {
	// Get returns ErrNotFound when the key has never been written.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
