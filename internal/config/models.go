package config

import (
	"time"

	"github.com/muurk/relaylink/internal/relay"
)

// Registry represents the entire user configuration file.
// This stores events, known relay devices and application preferences.
type Registry struct {
	Version      int               `yaml:"version"`
	CurrentEvent string            `yaml:"current_event,omitempty"` // ID of the selected event
	Events       map[string]*Event `yaml:"events,omitempty"`        // Keyed by event ID
	Relays       map[string]*Relay `yaml:"relays,omitempty"`        // Keyed by relay base URL
	Preferences  *Preferences      `yaml:"preferences,omitempty"`
}

// Event is one occasion the relay is configured for.
type Event struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	Date      time.Time `yaml:"date"`
	WiFi      *WiFiMeta `yaml:"wifi,omitempty"` // Uplink network chosen for the event
	CreatedAt time.Time `yaml:"created_at"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// WiFiMeta is the non-secret part of an event's uplink network.
// The network password is kept in the secrets store, never here.
type WiFiMeta struct {
	SSID string     `yaml:"ssid"`
	MAC  string     `yaml:"mac"`
	Band relay.Band `yaml:"band"`
}

// IsWiFiConfigured reports whether the event has an uplink network
func (e *Event) IsWiFiConfigured() bool {
	return e.WiFi != nil && e.WiFi.SSID != "" && e.WiFi.MAC != ""
}

// FormattedDate returns the event date as "Jan 2, 2006"
func (e *Event) FormattedDate() string {
	return e.Date.Format("Jan 2, 2006")
}

// DisplayName returns "<name> - <date>"
func (e *Event) DisplayName() string {
	return e.Name + " - " + e.FormattedDate()
}

// Relay represents user-defined metadata for a relay device.
// This is keyed by the relay's base URL in the Registry.
type Relay struct {
	Nickname string    `yaml:"nickname,omitempty"`  // User-friendly name
	Hostname string    `yaml:"hostname,omitempty"`  // mDNS hostname, if discovered
	LastIP   string    `yaml:"last_ip,omitempty"`   // Last known IP address
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last discovery/connection time
	LastSSID string    `yaml:"last_ssid,omitempty"` // Uplink network last selected on this relay
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	AutoDiscover    bool       `yaml:"auto_discover"`          // Run mDNS discovery when no relay URL is given
	DiscoverTimeout int        `yaml:"discover_timeout"`       // mDNS discovery timeout in seconds
	DefaultAuth     *AuthPrefs `yaml:"default_auth,omitempty"` // Default authentication preferences
}

// AuthPrefs represents default authentication preferences.
// Note: Passwords are NEVER stored here; see the secrets package.
type AuthPrefs struct {
	Username string `yaml:"username"` // Default relay username (e.g., "admin")
}

func defaultPreferences() *Preferences {
	return &Preferences{
		AutoDiscover:    false,
		DiscoverTimeout: 5,
		DefaultAuth: &AuthPrefs{
			Username: relay.DefaultUsername,
		},
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Events:      make(map[string]*Event),
		Relays:      make(map[string]*Relay),
		Preferences: defaultPreferences(),
	}
}

// GetEvent retrieves an event by ID.
// Returns nil if the event doesn't exist in the registry.
func (r *Registry) GetEvent(id string) *Event {
	return r.Events[id]
}

// PutEvent adds or replaces an event
func (r *Registry) PutEvent(e *Event) {
	if r.Events == nil {
		r.Events = make(map[string]*Event)
	}
	r.Events[e.ID] = e
}

// DeleteEvent removes an event and clears it as current event.
// Returns false if the event didn't exist.
func (r *Registry) DeleteEvent(id string) bool {
	if _, exists := r.Events[id]; !exists {
		return false
	}
	delete(r.Events, id)
	if r.CurrentEvent == id {
		r.CurrentEvent = ""
	}
	return true
}

// GetRelay retrieves relay metadata by base URL.
// Returns nil if the relay doesn't exist in the registry.
func (r *Registry) GetRelay(baseURL string) *Relay {
	return r.Relays[baseURL]
}

// EnsureRelay ensures a relay entry exists in the registry.
// Returns the relay entry (existing or newly created).
func (r *Registry) EnsureRelay(baseURL string) *Relay {
	if r.Relays == nil {
		r.Relays = make(map[string]*Relay)
	}

	if device, exists := r.Relays[baseURL]; exists {
		return device
	}

	device := &Relay{}
	r.Relays[baseURL] = device
	return device
}

// UpdateRelayLastSeen updates the last seen timestamp and IP for a relay.
func (r *Registry) UpdateRelayLastSeen(baseURL, ip, hostname string) {
	device := r.EnsureRelay(baseURL)
	device.LastSeen = time.Now()
	if ip != "" {
		device.LastIP = ip
	}
	if hostname != "" {
		device.Hostname = hostname
	}
}

// SetRelayNickname sets a user-friendly nickname for a relay.
func (r *Registry) SetRelayNickname(baseURL, nickname string) {
	device := r.EnsureRelay(baseURL)
	device.Nickname = nickname
}

// RecordSelection remembers the uplink network last selected on a relay.
func (r *Registry) RecordSelection(baseURL, ssid string) {
	device := r.EnsureRelay(baseURL)
	device.LastSSID = ssid
	device.LastSeen = time.Now()
}
