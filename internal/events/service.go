// Package events manages the occasions a relay is configured for.
//
// Event metadata (name, date, chosen uplink ssid/mac/band) lives in the
// config registry. The uplink network password is kept in the secrets store
// under secrets.EventPasswordKey.
package events

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muurk/relaylink/internal/config"
	"github.com/muurk/relaylink/internal/logging"
	"github.com/muurk/relaylink/internal/relay"
	"github.com/muurk/relaylink/internal/secrets"
)

// DefaultRecentLimit is the number of events returned by Recent when limit <= 0
const DefaultRecentLimit = 10

var (
	// ErrEventNotFound is returned for unknown event IDs
	ErrEventNotFound = errors.New("event not found")

	// ErrEmptyName is returned when creating an event without a name
	ErrEmptyName = errors.New("event name cannot be empty")

	// ErrNoCurrentEvent is returned by Current when no event is selected
	ErrNoCurrentEvent = errors.New("no current event selected")

	// ErrWiFiNotConfigured is returned by WiFi for events without a network
	ErrWiFiNotConfigured = errors.New("no network configured")
)

// Service reads and writes events
type Service struct {
	mu       sync.Mutex
	registry *config.Registry
	store    secrets.Store
	path     string
	now      func() time.Time
	newID    func() string
}

// Option configures a Service
type Option func(*Service)

// WithPath persists the registry to path after every change.
// Without it, changes stay in memory.
func WithPath(path string) Option {
	return func(s *Service) {
		s.path = path
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator replaces the UUID generator
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		s.newID = gen
	}
}

// NewService creates an event service over registry and store
func NewService(registry *config.Registry, store secrets.Store, opts ...Option) *Service {
	s := &Service{
		registry: registry,
		store:    store,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create adds a new event
func (s *Service) Create(name string, date time.Time) (*config.Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	event := &config.Event{
		ID:        s.newID(),
		Name:      name,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.registry.PutEvent(event)

	if err := s.save(); err != nil {
		s.registry.DeleteEvent(event.ID)
		return nil, err
	}

	logging.Info("Event created", zap.String("id", event.ID), zap.String("name", event.Name))
	return event, nil
}

// Get returns one event
func (s *Service) Get(id string) (*config.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id)
}

// List returns all events, most recently updated first
func (s *Service) List() []*config.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]*config.Event, 0, len(s.registry.Events))
	for _, e := range s.registry.Events {
		list = append(list, e)
	}
	slices.SortStableFunc(list, func(a, b *config.Event) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return list
}

// Recent returns at most limit events from List
func (s *Service) Recent(limit int) []*config.Event {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	list := s.List()
	if len(list) > limit {
		list = list[:limit]
	}
	return list
}

// Search matches query against event names and formatted dates, case-insensitively.
// An empty query returns every event.
func (s *Service) Search(query string) []*config.Event {
	list := s.List()
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return list
	}

	matches := list[:0]
	for _, e := range list {
		if strings.Contains(strings.ToLower(e.Name), query) ||
			strings.Contains(strings.ToLower(e.FormattedDate()), query) {
			matches = append(matches, e)
		}
	}
	return matches
}

// Update changes an event's name and date
func (s *Service) Update(id, name string, date time.Time) (*config.Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	event, err := s.get(id)
	if err != nil {
		return nil, err
	}
	event.Name = name
	event.Date = date
	event.UpdatedAt = s.now()

	return event, s.save()
}

// Delete removes an event and its stored network password
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.registry.DeleteEvent(id) {
		return fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}

	if err := s.store.Delete(ctx, secrets.EventPasswordKey(id)); err != nil {
		logging.Warn("Failed to delete event network password", zap.String("id", id), zap.Error(err))
	}

	logging.Info("Event deleted", zap.String("id", id))
	return s.save()
}

// SetCurrent selects the event used by configure. An empty id clears it.
func (s *Service) SetCurrent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if _, err := s.get(id); err != nil {
			return err
		}
	}
	s.registry.CurrentEvent = id
	return s.save()
}

// Current returns the selected event
func (s *Service) Current() (*config.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.registry.CurrentEvent == "" {
		return nil, ErrNoCurrentEvent
	}
	return s.get(s.registry.CurrentEvent)
}

// ConfigureWiFi stores the uplink network of an event. The password goes to
// the secrets store; open networks delete any stored password.
func (s *Service) ConfigureWiFi(ctx context.Context, id string, sel relay.SelectionRequest) error {
	if _, critical := relay.SeparateWarningsAndErrors(relay.ValidateSelection(sel)); len(critical) > 0 {
		return critical[0]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	event, err := s.get(id)
	if err != nil {
		return err
	}

	key := secrets.EventPasswordKey(id)
	if sel.Password != "" {
		if err := s.store.Put(ctx, key, sel.Password); err != nil {
			return fmt.Errorf("store network password: %w", err)
		}
	} else if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete network password: %w", err)
	}

	event.WiFi = &config.WiFiMeta{SSID: sel.SSID, MAC: sel.MAC, Band: sel.Band}
	event.UpdatedAt = s.now()

	logging.Info("Event network configured", zap.String("id", id), zap.String("ssid", sel.SSID), zap.Stringer("band", sel.Band))
	return s.save()
}

// WiFi returns the stored uplink network of an event, password included.
// A network stored without a password yields an empty Password.
func (s *Service) WiFi(ctx context.Context, id string) (relay.SelectionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, err := s.get(id)
	if err != nil {
		return relay.SelectionRequest{}, err
	}
	if !event.IsWiFiConfigured() {
		return relay.SelectionRequest{}, fmt.Errorf("event %q: %w", event.Name, ErrWiFiNotConfigured)
	}

	sel := relay.SelectionRequest{SSID: event.WiFi.SSID, MAC: event.WiFi.MAC, Band: event.WiFi.Band}
	password, err := s.store.Get(ctx, secrets.EventPasswordKey(id))
	switch {
	case err == nil:
		sel.Password = password
	case errors.Is(err, secrets.ErrNotFound):
	default:
		return relay.SelectionRequest{}, fmt.Errorf("read network password: %w", err)
	}
	return sel, nil
}

// ClearWiFi removes the uplink network of an event
func (s *Service) ClearWiFi(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, err := s.get(id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, secrets.EventPasswordKey(id)); err != nil {
		return fmt.Errorf("delete network password: %w", err)
	}

	event.WiFi = nil
	event.UpdatedAt = s.now()
	return s.save()
}

// IsWiFiConfigured reports whether the event has an uplink network
func (s *Service) IsWiFiConfigured(id string) bool {
	event, err := s.Get(id)
	return err == nil && event.IsWiFiConfigured()
}

func (s *Service) get(id string) (*config.Event, error) {
	event := s.registry.GetEvent(id)
	if event == nil {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}
	return event, nil
}

func (s *Service) save() error {
	if s.path == "" {
		return nil
	}
	if err := s.registry.SaveTo(s.path); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	return nil
}
