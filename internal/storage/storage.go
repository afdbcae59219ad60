// ABOUTME: Durable key-value storage used to persist the login session
// ABOUTME: Defines the Store interface and the constructor that picks a backend

package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrCorrupt is returned when persisted data cannot be decoded.
var ErrCorrupt = errors.New("storage: corrupt data")

// Store is a string key-value store that survives process restarts.
type Store interface {
	// Get returns the value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes the keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

// Open returns the Store described by spec: "file", "memory", or a redis:// URL.
func Open(spec, configDir string) (Store, error) {
	switch {
	case spec == "" || spec == "file":
		return NewFileStore(configDir), nil
	case spec == "memory":
		return NewMemoryStore(), nil
	case strings.HasPrefix(spec, "redis://"), strings.HasPrefix(spec, "rediss://"):
		return NewRedisStore(spec)
	default:
		return nil, fmt.Errorf("unsupported storage %q", spec)
	}
}
