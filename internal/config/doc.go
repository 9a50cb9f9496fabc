// Package config provides user configuration management for relaylink.
//
// Two files live in the configuration directory:
//
//   - config.yaml, the registry: events with their chosen uplink network,
//     known relay devices and preferences. It is rewritten by the tool.
//   - settings.yaml, optional runtime settings (relay address, timeouts,
//     secrets backend). It is only read, layered under RELAYLINK_*
//     environment variables and command-line flags.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/relaylink or $HOME/.config/relaylink
//   - macOS: $HOME/.config/relaylink
//   - Windows: %LOCALAPPDATA%\relaylink
//
// # Security
//
// IMPORTANT: This package NEVER stores credentials. The relay password, the
// admin password hash and event network passwords are kept by the secrets
// package.
//
// # Usage Example
//
//	settings, err := config.NewSettingsLoader().Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	registry.UpdateRelayLastSeen(settings.Relay.URL, "", "")
//
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
