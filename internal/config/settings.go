package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/muurk/relaylink/internal/relay"
)

// EnvPrefix is the prefix of environment overrides, e.g. RELAYLINK_RELAY_URL
const EnvPrefix = "RELAYLINK_"

// SettingsFile is the optional settings file inside the config directory
const SettingsFile = "settings.yaml"

// Settings are the runtime options. Sources, later overriding earlier:
// defaults, settings file, RELAYLINK_* environment, explicit overrides
// (command-line flags).
type Settings struct {
	Relay     RelaySettings     `koanf:"relay"`
	Secrets   SecretsSettings   `koanf:"secrets"`
	Admin     AdminSettings     `koanf:"admin"`
	Discovery DiscoverySettings `koanf:"discovery"`
	Log       LogSettings       `koanf:"log"`
}

// RelaySettings configure the relay client
type RelaySettings struct {
	URL         string        `koanf:"url"`
	User        string        `koanf:"user"`
	Timeout     time.Duration `koanf:"timeout"`
	DialTimeout time.Duration `koanf:"dialtimeout"`
	Insecure    bool          `koanf:"insecure"`
}

// SecretsSettings select the credential store backend
type SecretsSettings struct {
	Backend string `koanf:"backend"`
	Dir     string `koanf:"dir"`
}

// AdminSettings configure the operator gate
type AdminSettings struct {
	Session time.Duration `koanf:"session"`
}

// DiscoverySettings configure mDNS discovery
type DiscoverySettings struct {
	Timeout time.Duration `koanf:"timeout"`
	Pattern string        `koanf:"pattern"`
}

// LogSettings configure logging
type LogSettings struct {
	Level string `koanf:"level"`
}

// TransportOptions converts the relay settings for relay.NewClientWithOptions
func (s RelaySettings) TransportOptions() relay.TransportOptions {
	return relay.TransportOptions{
		Timeout:     s.Timeout,
		DialTimeout: s.DialTimeout,
		VerifyTLS:   !s.Insecure,
	}
}

// DefaultSettings returns the built-in defaults as a flat key map
func DefaultSettings() map[string]any {
	secretsDir, err := GetSecretsDir()
	if err != nil {
		secretsDir = ""
	}

	return map[string]any{
		"relay.url":         relay.DefaultBaseURL,
		"relay.user":        relay.DefaultUsername,
		"relay.timeout":     relay.DefaultTimeout.String(),
		"relay.dialtimeout": relay.DefaultDialTimeout.String(),
		"relay.insecure":    true,
		"secrets.backend":   "chain",
		"secrets.dir":       secretsDir,
		"admin.session":     (5 * time.Minute).String(),
		"discovery.timeout": (5 * time.Second).String(),
		"discovery.pattern": "(?i)tenda|relay|extender",
		"log.level":         "",
	}
}

// SettingsLoader layers settings sources with koanf
type SettingsLoader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
	overrides map[string]any
}

// SettingsOption configures a SettingsLoader
type SettingsOption func(*SettingsLoader)

// WithSettingsFile sets the settings file path. A missing file is skipped.
func WithSettingsFile(path string) SettingsOption {
	return func(l *SettingsLoader) {
		l.filePath = path
	}
}

// WithEnvPrefix sets the environment variable prefix
func WithEnvPrefix(prefix string) SettingsOption {
	return func(l *SettingsLoader) {
		l.envPrefix = prefix
	}
}

// WithOverrides applies values above every other source (e.g. flags that
// were set on the command line). Keys use the dotted form, e.g. "relay.url".
func WithOverrides(values map[string]any) SettingsOption {
	return func(l *SettingsLoader) {
		l.overrides = values
	}
}

// NewSettingsLoader creates a loader reading the default settings file
func NewSettingsLoader(opts ...SettingsOption) *SettingsLoader {
	l := &SettingsLoader{
		k:         koanf.New("."),
		envPrefix: EnvPrefix,
	}
	if dir, err := GetConfigDir(); err == nil {
		l.filePath = filepath.Join(dir, SettingsFile)
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load reads every source and returns the merged settings
func (l *SettingsLoader) Load() (*Settings, error) {
	if err := l.k.Load(mapProvider(DefaultSettings()), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if l.filePath != "" {
		if _, err := os.Stat(l.filePath); err == nil {
			if err := l.k.Load(file.Provider(l.filePath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load settings file %s: %w", l.filePath, err)
			}
		}
	}

	// RELAYLINK_RELAY_DIALTIMEOUT -> relay.dialtimeout
	envTransformer := func(s string) string {
		s = strings.TrimPrefix(s, l.envPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "_", ".")
	}
	if err := l.k.Load(env.Provider(l.envPrefix, ".", envTransformer), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	if len(l.overrides) > 0 {
		if err := l.k.Load(mapProvider(l.overrides), nil); err != nil {
			return nil, fmt.Errorf("load overrides: %w", err)
		}
	}

	var s Settings
	if err := l.k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if _, err := relay.ValidateBaseURL(s.Relay.URL); err != nil {
		return nil, err
	}

	return &s, nil
}

// Get returns a raw value by dotted key
func (l *SettingsLoader) Get(key string) any {
	return l.k.Get(key)
}

// mapProvider is a koanf provider over an in-memory map with dotted keys
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("map provider does not support ReadBytes")
}

func (m mapProvider) Read() (map[string]any, error) {
	return maps.Unflatten(m, "."), nil
}
