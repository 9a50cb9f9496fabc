package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/relaylink/internal/admin"
	"github.com/muurk/relaylink/internal/config"
	"github.com/muurk/relaylink/internal/events"
	"github.com/muurk/relaylink/internal/logging"
	"github.com/muurk/relaylink/internal/relay"
	"github.com/muurk/relaylink/internal/secrets"
	"github.com/muurk/relaylink/internal/ui"
)

// Global flags
var (
	settingsFile   string
	relayURL       string
	relayUser      string
	relayTimeout   time.Duration
	insecure       bool
	secretsBackend string
	logLevel       string
)

// flagKeys maps global flag names to settings keys
var flagKeys = map[string]string{
	"url":             "relay.url",
	"user":            "relay.user",
	"timeout":         "relay.timeout",
	"insecure":        "relay.insecure",
	"secrets-backend": "secrets.backend",
	"log-level":       "log.level",
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&settingsFile, "config", "", "Settings file (default: settings.yaml in the config directory)")
	flags.StringVar(&relayURL, "url", relay.DefaultBaseURL, "Relay base URL")
	flags.StringVar(&relayUser, "user", relay.DefaultUsername, "Relay login username")
	flags.DurationVar(&relayTimeout, "timeout", relay.DefaultTimeout, "Total timeout per relay request")
	flags.BoolVar(&insecure, "insecure", true, "Accept self-signed relay certificates")
	flags.StringVar(&secretsBackend, "secrets-backend", secrets.BackendChain, "Secrets backend (chain, file, pass, memory)")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent when empty")
}

// app holds the collaborators a command needs
type app struct {
	settings *config.Settings
	store    secrets.Store
	gate     *admin.Gate
	prompt   *ui.Prompter

	registryPath string
	registry     *config.Registry
}

// flagOverrides returns the settings set explicitly on the command line
func flagOverrides(cmd *cobra.Command) map[string]any {
	overrides := make(map[string]any)
	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		switch name {
		case "timeout":
			overrides[key] = relayTimeout.String()
		case "insecure":
			overrides[key] = insecure
		default:
			overrides[key] = flag.Value.String()
		}
	}
	return overrides
}

// newApp loads settings, initializes logging and opens the secrets store
func newApp(cmd *cobra.Command) (*app, error) {
	opts := []config.SettingsOption{config.WithOverrides(flagOverrides(cmd))}
	if settingsFile != "" {
		opts = append(opts, config.WithSettingsFile(settingsFile))
	}

	settings, err := config.NewSettingsLoader(opts...).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	if err := logging.Initialize(settings.Log.Level); err != nil {
		return nil, err
	}

	store, err := secrets.New(settings.Secrets.Backend, settings.Secrets.Dir)
	if err != nil {
		return nil, err
	}

	registryPath, err := config.GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	logging.Debug("Settings loaded",
		zap.String("relay_url", settings.Relay.URL),
		zap.String("relay_user", settings.Relay.User),
		zap.String("secrets_backend", settings.Secrets.Backend))

	return &app{
		settings:     settings,
		store:        store,
		gate:         admin.NewGate(store, admin.WithSessionTimeout(settings.Admin.Session)),
		prompt:       ui.NewPrompter(),
		registryPath: registryPath,
	}, nil
}

// loadRegistry reads the registry file once per command
func (a *app) loadRegistry() (*config.Registry, error) {
	if a.registry != nil {
		return a.registry, nil
	}
	registry, err := config.LoadFrom(a.registryPath)
	if err != nil {
		return nil, err
	}
	a.registry = registry
	return registry, nil
}

func (a *app) saveRegistry() error {
	if a.registry == nil {
		return nil
	}
	return a.registry.SaveTo(a.registryPath)
}

// events returns the event service over the registry file
func (a *app) events() (*events.Service, error) {
	registry, err := a.loadRegistry()
	if err != nil {
		return nil, err
	}
	return events.NewService(registry, a.store, events.WithPath(a.registryPath)), nil
}

// ensureSetup fails unless the admin password and the relay password are stored
func (a *app) ensureSetup(ctx context.Context) error {
	complete, err := a.gate.SetupComplete(ctx)
	if err != nil {
		return fmt.Errorf("failed to check admin setup: %w", err)
	}
	if !complete {
		return fmt.Errorf("%w: run 'relaylink admin setup' first", admin.ErrSetupIncomplete)
	}
	return nil
}

// readAdminPassword prompts for the admin password
func (a *app) readAdminPassword() (string, error) {
	return a.prompt.Password("Admin password: ")
}

// unlock prompts for the admin password and opens an admin session
func (a *app) unlock(ctx context.Context) error {
	password, err := a.readAdminPassword()
	if err != nil {
		return err
	}
	return a.gate.Authenticate(ctx, password)
}

// newClient creates a relay client from the settings. Each command owns its
// own client and discards it on exit.
func (a *app) newClient() *relay.Client {
	return relay.NewClientWithOptions(a.settings.Relay.URL, a.settings.Relay.TransportOptions())
}

// login releases the relay password through the gate and logs client in.
// The admin session must already be open.
func (a *app) login(ctx context.Context, client *relay.Client) error {
	if err := client.LoginWithCredentials(ctx, a.settings.Relay.User, a.gate); err != nil {
		return err
	}

	if registry, err := a.loadRegistry(); err == nil {
		registry.EnsureRelay(a.settings.Relay.URL).LastSeen = time.Now()
		if err := a.saveRegistry(); err != nil {
			logging.Warn("Failed to save relay metadata", zap.Error(err))
		}
	}
	return nil
}

// relayParams are the header parameters shared by relay commands
func (a *app) relayParams() []ui.Param {
	return []ui.Param{
		{Key: "Relay", Value: a.settings.Relay.URL},
		{Key: "User", Value: a.settings.Relay.User},
	}
}

// stepError marks a step failed and returns err
func stepError(onStep ui.StepCallback, step int, err error) error {
	onStep(step, ui.StepFailed, relay.ShortErrorMessage(err))
	return err
}
