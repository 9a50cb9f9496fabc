// Package admin guards the relay device secret behind an operator password.
//
// The operator password is stored as a bcrypt hash. A successful Authenticate
// opens a session that expires after a fixed timeout; while it is open the
// Gate releases the relay secret to the relay client (it implements
// relay.CredentialSource).
package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/muurk/relaylink/internal/logging"
	"github.com/muurk/relaylink/internal/relay"
	"github.com/muurk/relaylink/internal/secrets"
)

const (
	// MinPasswordLength is the shortest accepted operator password
	MinPasswordLength = 6

	// DefaultSessionTimeout is how long an operator session stays open
	DefaultSessionTimeout = 5 * time.Minute
)

var (
	// ErrInvalidPassword is returned for operator passwords shorter than MinPasswordLength
	ErrInvalidPassword = fmt.Errorf("password must be at least %d characters long", MinPasswordLength)

	// ErrAuthenticationFailed is returned when the operator password does not match
	ErrAuthenticationFailed = errors.New("invalid admin password")

	// ErrNotAuthenticated is returned when the relay secret is requested outside a session
	ErrNotAuthenticated = errors.New("admin authentication required")

	// ErrSetupIncomplete is returned when no operator password has been set
	ErrSetupIncomplete = errors.New("admin setup is not complete")

	// ErrEmptySecret is returned when an empty relay secret is stored
	ErrEmptySecret = errors.New("relay password cannot be empty")
)

// Gate is the operator authentication gate
type Gate struct {
	store   secrets.Store
	timeout time.Duration
	now     func() time.Time

	mu        sync.Mutex
	expiresAt time.Time
}

var _ relay.CredentialSource = (*Gate)(nil)

// Option configures a Gate
type Option func(*Gate)

// WithSessionTimeout overrides DefaultSessionTimeout
func WithSessionTimeout(d time.Duration) Option {
	return func(g *Gate) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		g.now = now
	}
}

// NewGate creates a gate over store
func NewGate(store secrets.Store, opts ...Option) *Gate {
	g := &Gate{
		store:   store,
		timeout: DefaultSessionTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SessionTimeout returns the configured session length
func (g *Gate) SessionTimeout() time.Duration {
	return g.timeout
}

// HasAdminPassword reports whether an operator password is set
func (g *Gate) HasAdminPassword(ctx context.Context) (bool, error) {
	return secrets.Exists(ctx, g.store, secrets.AdminPasswordKey)
}

// HasRelaySecret reports whether a relay secret is stored
func (g *Gate) HasRelaySecret(ctx context.Context) (bool, error) {
	return secrets.Exists(ctx, g.store, secrets.RelayPasswordKey)
}

// SetupComplete reports whether both the operator password and the relay
// secret are stored
func (g *Gate) SetupComplete(ctx context.Context) (bool, error) {
	hasAdmin, err := g.HasAdminPassword(ctx)
	if err != nil || !hasAdmin {
		return false, err
	}
	return g.HasRelaySecret(ctx)
}

// SetAdminPassword hashes and stores the operator password
func (g *Gate) SetAdminPassword(ctx context.Context, password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	if err := g.store.Put(ctx, secrets.AdminPasswordKey, string(hash)); err != nil {
		return fmt.Errorf("failed to store admin password: %w", err)
	}

	logging.Info("Admin password updated")
	return nil
}

// SetRelaySecret stores the relay device password
func (g *Gate) SetRelaySecret(ctx context.Context, secret string) error {
	if secret == "" {
		return ErrEmptySecret
	}
	if err := g.store.Put(ctx, secrets.RelayPasswordKey, secret); err != nil {
		return fmt.Errorf("failed to store relay password: %w", err)
	}

	logging.Info("Relay password updated")
	return nil
}

// Authenticate checks the operator password and opens a session
func (g *Gate) Authenticate(ctx context.Context, password string) error {
	hash, err := g.store.Get(ctx, secrets.AdminPasswordKey)
	if err != nil {
		if errors.Is(err, secrets.ErrNotFound) {
			return ErrSetupIncomplete
		}
		return fmt.Errorf("failed to load admin password: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		logging.Warn("Admin authentication failed")
		return ErrAuthenticationFailed
	}

	g.mu.Lock()
	g.expiresAt = g.now().Add(g.timeout)
	expires := g.expiresAt
	g.mu.Unlock()

	logging.Info("Admin session opened", zap.Time("expires_at", expires))
	return nil
}

// IsAuthenticated reports whether a session is open
func (g *Gate) IsAuthenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.activeLocked()
}

// ExpiresAt returns when the current session ends (zero when none is open)
func (g *Gate) ExpiresAt() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.activeLocked() {
		return time.Time{}
	}
	return g.expiresAt
}

// Extend restarts the session timeout. It does nothing without an open session.
func (g *Gate) Extend() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.activeLocked() {
		g.expiresAt = g.now().Add(g.timeout)
	}
}

// Logout closes the session
func (g *Gate) Logout() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.expiresAt = time.Time{}
}

// RelaySecret releases the relay secret while a session is open.
// A missing secret is reported with secrets.ErrNotFound.
func (g *Gate) RelaySecret(ctx context.Context) (string, error) {
	if !g.IsAuthenticated() {
		return "", ErrNotAuthenticated
	}

	secret, err := g.store.Get(ctx, secrets.RelayPasswordKey)
	if err != nil {
		return "", fmt.Errorf("failed to load relay password: %w", err)
	}
	if secret == "" {
		return "", fmt.Errorf("relay password: %w", secrets.ErrNotFound)
	}

	g.Extend()
	return secret, nil
}

// Reset deletes the operator password and the relay secret and closes
// the session
func (g *Gate) Reset(ctx context.Context) error {
	g.Logout()

	var errs []error
	for _, key := range []string{secrets.AdminPasswordKey, secrets.RelayPasswordKey} {
		if err := g.store.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete %s: %w", key, err))
		}
	}

	logging.Info("Admin settings reset")
	return errors.Join(errs...)
}

func (g *Gate) activeLocked() bool {
	return !g.expiresAt.IsZero() && g.now().Before(g.expiresAt)
}
