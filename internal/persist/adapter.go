package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xtding233/wordharbor/internal/logger"
)

// Adapter reads and writes one JSON record of type T under a fixed key.
//
// Load decodes the stored document over a fresh default value, so fields the
// document lacks keep their defaults and unknown fields are ignored. A missing,
// unreadable or corrupt record yields the defaults; Load never fails.
type Adapter[T any] struct {
	b        Backend
	key      string
	defaults func() T
	log      *logger.Logger
}

func NewAdapter[T any](b Backend, key string, defaults func() T, log *logger.Logger) *Adapter[T] {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Adapter[T]{
		b:        b,
		key:      key,
		defaults: defaults,
		log:      log.With("component", "persist", "backend", b.Name(), "key", key),
	}
}

func (a *Adapter[T]) Load(ctx context.Context) T {
	v := a.defaults()
	raw, err := a.b.Get(ctx, a.key)
	switch {
	case errors.Is(err, ErrNotFound):
		a.log.Debug("no stored record, using defaults")
		return v
	case err != nil:
		a.log.Warn("load failed, using defaults", "error", err)
		return a.defaults()
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		a.log.Warn("stored record is corrupt, using defaults", "error", err)
		return a.defaults()
	}
	return v
}

// Save writes v. The error is returned for the caller to log; nothing is retried.
func (a *Adapter[T]) Save(ctx context.Context, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", a.key, err)
	}
	return a.b.Put(ctx, a.key, raw)
}
