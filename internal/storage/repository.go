// Package storage provides the string-keyed durable stores that hold the
// serialized state blob and the remote session pair.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrClosed is returned by a repository used after Close.
	ErrClosed   = errors.New("storage: repository closed")
	ErrEmptyKey = errors.New("storage: empty key")
)

// Repository stores opaque values under string keys.
type Repository interface {
	// Get returns found=false with a nil error when the key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
