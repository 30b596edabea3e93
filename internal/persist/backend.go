// Package persist stores opaque records under string keys and adapts them to typed values.
package persist

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DefaultKey is the single key the progression record lives under.
const DefaultKey = "word-harbor-user"

// ErrNotFound is returned by Get when nothing is stored under the key.
var ErrNotFound = errors.New("record not found")

// Backend is a durable key-value slot. Implementations must be safe for concurrent use.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Name() string
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend   string `koanf:"backend" validate:"oneof=memory file sqlite redis"`
	Key       string `koanf:"key" validate:"required"`
	Path      string `koanf:"path" validate:"required_if=Backend file"`
	DSN       string `koanf:"dsn" validate:"required_if=Backend sqlite"`
	RedisAddr string `koanf:"redis_addr" validate:"required_if=Backend redis"`
}

func DefaultOptions() Options {
	return Options{
		Backend: "file",
		Key:     DefaultKey,
		Path:    "data/progress",
		DSN:     "file:wordharbor.db",
	}
}

// Open builds the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch strings.ToLower(opts.Backend) {
	case "", "memory":
		return NewMemory(), nil
	case "file":
		return NewFile(opts.Path)
	case "sqlite":
		return NewSQLite(ctx, opts.DSN)
	case "redis":
		return NewRedis(ctx, opts.RedisAddr)
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
