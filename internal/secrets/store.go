// Package secrets stores credentials outside the YAML registry.
//
// Two kinds of secret live here: the relay device password (released to the
// relay client only after operator authentication) and per-event network
// passwords. Backends are the password-store CLI ("pass"), private files
// under the config directory, a chain of the two, and an in-memory store for
// tests and one-shot runs.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Well-known keys.
const (
	// AdminPasswordKey holds the bcrypt hash of the operator password
	AdminPasswordKey = "admin_password"

	// RelayPasswordKey holds the relay device secret
	RelayPasswordKey = "wifi_admin_password"
)

// Backend names accepted by New.
const (
	BackendChain  = "chain"
	BackendFile   = "file"
	BackendPass   = "pass"
	BackendMemory = "memory"
)

var (
	// ErrNotFound is returned when no value is stored under a key
	ErrNotFound = errors.New("secret not found")

	// ErrUnavailable is returned when a backend cannot be used on this host
	ErrUnavailable = errors.New("secret backend unavailable")
)

// Store is a key/value credential store
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

// EventPasswordKey returns the key of an event's network password
func EventPasswordKey(eventID string) string {
	return "events/" + eventID + "/wifi_password"
}

// New builds the store named by backend. dir is the root of the file
// backend and is ignored by the others.
func New(backend, dir string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendChain, "":
		chain, err := NewChainStore(NewPassStore(), NewFileStore(dir))
		if err != nil {
			return nil, err
		}
		return chain, nil
	case BackendFile:
		return NewFileStore(dir), nil
	case BackendPass:
		return NewPassStore(), nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown secrets backend %q (use chain, file, pass or memory)", backend)
	}
}

// Exists reports whether key holds a non-empty value
func Exists(ctx context.Context, store Store, key string) (bool, error) {
	value, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return value != "", nil
}
