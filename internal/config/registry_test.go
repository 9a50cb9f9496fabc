package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/muurk/relaylink/internal/relay"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	if !strings.Contains(configDir, "relaylink") {
		t.Errorf("GetConfigDir() = %v, should contain 'relaylink'", configDir)
	}

	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("macOS config dir should contain '.config', got: %v", configDir)
		}
	}
}

func TestGetConfigDir_XDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux")
	}

	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if configDir != "/tmp/xdg/relaylink" {
		t.Errorf("GetConfigDir() = %v, want /tmp/xdg/relaylink", configDir)
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}
	if reg.Events == nil {
		t.Error("NewRegistry().Events should not be nil")
	}
	if reg.Relays == nil {
		t.Error("NewRegistry().Relays should not be nil")
	}
	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should not be nil")
	}
	if reg.Preferences.DefaultAuth.Username != "admin" {
		t.Errorf("default username = %v, want admin", reg.Preferences.DefaultAuth.Username)
	}
}

func TestRegistryEnsureRelay(t *testing.T) {
	reg := NewRegistry()

	relay1 := reg.EnsureRelay("http://10.0.0.213")
	if relay1 == nil {
		t.Fatal("EnsureRelay() returned nil")
	}

	relay2 := reg.EnsureRelay("http://10.0.0.213")
	if relay1 != relay2 {
		t.Error("EnsureRelay() should return same instance for same URL")
	}

	relay3 := reg.EnsureRelay("http://10.0.0.214")
	if relay1 == relay3 {
		t.Error("EnsureRelay() should create new instance for different URL")
	}
}

func TestRegistryUpdateRelayLastSeen(t *testing.T) {
	reg := NewRegistry()

	before := time.Now()
	reg.UpdateRelayLastSeen("http://10.0.0.213", "10.0.0.213", "tenda-a9.local.")
	after := time.Now()

	device := reg.GetRelay("http://10.0.0.213")
	if device == nil {
		t.Fatal("Relay should exist after UpdateRelayLastSeen()")
	}
	if device.LastIP != "10.0.0.213" {
		t.Errorf("LastIP = %v, want 10.0.0.213", device.LastIP)
	}
	if device.Hostname != "tenda-a9.local." {
		t.Errorf("Hostname = %v, want tenda-a9.local.", device.Hostname)
	}
	if device.LastSeen.Before(before) || device.LastSeen.After(after) {
		t.Errorf("LastSeen = %v, should be between %v and %v", device.LastSeen, before, after)
	}

	reg.UpdateRelayLastSeen("http://10.0.0.213", "", "")
	if device.LastIP != "10.0.0.213" || device.Hostname != "tenda-a9.local." {
		t.Error("empty values should not overwrite known ones")
	}
}

func TestRegistryRelayNicknameAndSelection(t *testing.T) {
	reg := NewRegistry()

	reg.SetRelayNickname("http://10.0.0.213", "Booth relay")
	reg.RecordSelection("http://10.0.0.213", "Cafe")

	device := reg.GetRelay("http://10.0.0.213")
	if device.Nickname != "Booth relay" {
		t.Errorf("Nickname = %v, want 'Booth relay'", device.Nickname)
	}
	if device.LastSSID != "Cafe" {
		t.Errorf("LastSSID = %v, want Cafe", device.LastSSID)
	}
}

func TestRegistryEvents(t *testing.T) {
	reg := NewRegistry()
	event := &Event{ID: "evt-1", Name: "Wedding"}

	reg.PutEvent(event)
	reg.CurrentEvent = "evt-1"

	if reg.GetEvent("evt-1") != event {
		t.Error("GetEvent() should return the stored event")
	}
	if !reg.DeleteEvent("evt-1") {
		t.Error("DeleteEvent() should report a deletion")
	}
	if reg.CurrentEvent != "" {
		t.Error("deleting the current event should clear CurrentEvent")
	}
	if reg.DeleteEvent("evt-1") {
		t.Error("DeleteEvent() on a missing event should return false")
	}
}

func TestEventIsWiFiConfigured(t *testing.T) {
	tests := []struct {
		name string
		wifi *WiFiMeta
		want bool
	}{
		{"none", nil, false},
		{"ssid only", &WiFiMeta{SSID: "Cafe"}, false},
		{"complete", &WiFiMeta{SSID: "Cafe", MAC: "aa:bb:cc:dd:ee:ff"}, true},
	}

	for _, tt := range tests {
		e := &Event{WiFi: tt.wifi}
		if got := e.IsWiFiConfigured(); got != tt.want {
			t.Errorf("%s: IsWiFiConfigured() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")
	date := time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)

	reg := NewRegistry()
	reg.SetRelayNickname("http://10.0.0.213", "Booth relay")
	reg.PutEvent(&Event{
		ID:   "evt-1",
		Name: "Wedding",
		Date: date,
		WiFi: &WiFiMeta{SSID: "Cafe", MAC: "aa:bb:cc:dd:ee:ff", Band: relay.Band5GHz},
	})
	reg.CurrentEvent = "evt-1"

	if err := reg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("config file missing: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
	}

	data, _ := os.ReadFile(configPath)
	if !strings.HasPrefix(string(data), "# relaylink Configuration File") {
		t.Error("saved file should start with the header comment")
	}
	if !strings.Contains(string(data), "band: 5GHz") {
		t.Errorf("band should be stored by name:\n%s", data)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	event := loaded.GetEvent("evt-1")
	if event == nil {
		t.Fatal("event should exist in loaded registry")
	}
	if event.Name != "Wedding" || !event.Date.Equal(date) {
		t.Errorf("loaded event = %+v", event)
	}
	if event.WiFi == nil || event.WiFi.Band != relay.Band5GHz || event.WiFi.MAC != "aa:bb:cc:dd:ee:ff" {
		t.Errorf("loaded wifi = %+v", event.WiFi)
	}
	if loaded.CurrentEvent != "evt-1" {
		t.Errorf("CurrentEvent = %v, want evt-1", loaded.CurrentEvent)
	}
	if loaded.GetRelay("http://10.0.0.213").Nickname != "Booth relay" {
		t.Error("relay nickname should survive a round trip")
	}
}

func TestLoadFrom_Missing(t *testing.T) {
	reg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if reg.Version != 1 {
		t.Error("missing file should yield a default registry")
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	dir := t.TempDir()

	badVersion := filepath.Join(dir, "v2.yaml")
	_ = os.WriteFile(badVersion, []byte("version: 2\n"), 0600)
	if _, err := LoadFrom(badVersion); err == nil {
		t.Error("LoadFrom() should reject version 2")
	}

	garbage := filepath.Join(dir, "garbage.yaml")
	_ = os.WriteFile(garbage, []byte("version: [\n"), 0600)
	if _, err := LoadFrom(garbage); err == nil {
		t.Error("LoadFrom() should reject malformed YAML")
	}
}

func TestLoadFrom_DropsDanglingCurrentEvent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	_ = os.WriteFile(path, []byte("version: 1\ncurrent_event: gone\n"), 0600)

	reg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if reg.CurrentEvent != "" {
		t.Errorf("CurrentEvent = %q, want empty", reg.CurrentEvent)
	}
	if reg.Preferences == nil || reg.Events == nil || reg.Relays == nil {
		t.Error("LoadFrom() should initialize missing sections")
	}
}

func BenchmarkGetConfigDir(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = GetConfigDir()
	}
}

func BenchmarkEnsureRelay(b *testing.B) {
	reg := NewRegistry()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.EnsureRelay("http://10.0.0.213")
	}
}
