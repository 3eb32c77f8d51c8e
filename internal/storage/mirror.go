package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// SchemaVersion is written next to every persisted snapshot. It is never
// checked against older shapes.
const SchemaVersion = 1

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("storage: backend closed")

// KV is a key-value byte store. Implementations must be safe for
// concurrent use.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

type envelope[T any] struct {
	State   T   `json:"state"`
	Version int `json:"version"`
}

// Mirror serializes a whole state value under one fixed key.
type Mirror[T any] struct {
	kv  KV
	key string
}

func NewMirror[T any](kv KV, key string) *Mirror[T] {
	return &Mirror[T]{kv: kv, key: key}
}

// Key returns the key the mirror writes under.
func (m *Mirror[T]) Key() string {
	return m.key
}

// Load reads the stored snapshot. A missing key yields the zero value.
func (m *Mirror[T]) Load(ctx context.Context) (T, error) {
	var zero T
	raw, found, err := m.kv.Get(ctx, m.key)
	if err != nil {
		return zero, fmt.Errorf("storage: load %s: %w", m.key, err)
	}
	if !found || len(raw) == 0 {
		return zero, nil
	}

	var env envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return zero, fmt.Errorf("storage: decode %s: %w", m.key, err)
	}
	return env.State, nil
}

// Save overwrites the stored snapshot with state.
func (m *Mirror[T]) Save(ctx context.Context, state T) error {
	raw, err := json.Marshal(envelope[T]{State: state, Version: SchemaVersion})
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", m.key, err)
	}
	if err := m.kv.Set(ctx, m.key, raw); err != nil {
		return fmt.Errorf("storage: save %s: %w", m.key, err)
	}
	return nil
}
