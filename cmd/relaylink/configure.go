package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/relaylink/internal/config"
	"github.com/muurk/relaylink/internal/events"
	"github.com/muurk/relaylink/internal/logging"
	"github.com/muurk/relaylink/internal/relay"
	"github.com/muurk/relaylink/internal/ui"
)

// Configure command flags
var (
	configureEvent string
	configureSSID  string
)

func init() {
	configureCmd.Flags().StringVar(&configureEvent, "event", "", "Event to configure (default: the current event)")
	configureCmd.Flags().StringVar(&configureSSID, "ssid", "", "Select this network without the interactive picker")

	rootCmd.AddCommand(configureCmd)
}

const (
	stepUnlock = iota + 1
	stepLogin
	stepScan
	stepChoose
	stepSelect
	stepSave
)

// configureCmd runs the full operator workflow for an event
var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Choose and apply the uplink network for an event",
	Long: `Run the complete workflow for an event:

  1. Unlock the relay password with the admin password
  2. Log in to the relay
  3. Scan for networks (placeholder results are flagged)
  4. Pick a network; the event's current network is preselected
  5. Enter the network password (prefilled for the event's current network)
  6. Apply the selection on the relay and store it on the event

The network password is kept in the secrets store; only the SSID, MAC and
band are written to the configuration file.`,
	Example: `  # Interactive picker for the current event
  relaylink configure

  # Non-interactive, for a specific event
  relaylink configure --event summer-fair --ssid Cafe_5G`,
	RunE: runConfigure,
}

func runConfigure(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := a.ensureSetup(ctx); err != nil {
		return err
	}

	service, err := a.events()
	if err != nil {
		return err
	}
	event, err := resolveEvent(service, configureEvent)
	if err != nil {
		return err
	}
	if configureSSID == "" && !ui.IsInteractive() {
		return errors.New("no terminal for the network picker; pass --ssid")
	}

	stored, err := service.WiFi(ctx, event.ID)
	if err != nil && !errors.Is(err, events.ErrWiFiNotConfigured) {
		return err
	}

	adminPassword, err := a.readAdminPassword()
	if err != nil {
		return err
	}

	client := a.newClient()
	defer client.Close()

	params := append([]ui.Param{{Key: "Event", Value: event.DisplayName()}}, a.relayParams()...)
	if stored.SSID != "" {
		params = append(params, ui.Param{Key: "Current network", Value: stored.SSID})
	}

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:   "Configure Uplink",
		Command: "relaylink configure",
		Params:  params,
		StepNames: []string{
			"Unlock relay password",
			"Log in to relay",
			"Scan networks",
			"Choose network",
			"Apply selection",
			"Save to event",
		},
	})

	return runner.Run(ctx, func(ctx context.Context, onStep ui.StepCallback) ([]ui.Param, error) {
		onStep(stepUnlock, ui.StepRunning, "")
		if err := a.gate.Authenticate(ctx, adminPassword); err != nil {
			return nil, stepError(onStep, stepUnlock, err)
		}
		defer a.gate.Logout()
		onStep(stepUnlock, ui.StepComplete, "")

		onStep(stepLogin, ui.StepRunning, "")
		if err := a.login(ctx, client); err != nil {
			return nil, stepError(onStep, stepLogin, err)
		}
		onStep(stepLogin, ui.StepComplete, "")

		onStep(stepScan, ui.StepRunning, "")
		result, err := client.ScanNetworks(ctx)
		if err != nil {
			return nil, stepError(onStep, stepScan, err)
		}
		if result.IsPlaceholder() {
			onStep(stepScan, ui.StepComplete, ui.WarningMarker+" placeholder networks, the relay answer was not understood")
		} else {
			onStep(stepScan, ui.StepComplete, result.Summary())
		}

		onStep(stepChoose, ui.StepRunning, "")
		req, err := chooseNetwork(ctx, a, client, result, stored)
		if err != nil {
			return nil, stepError(onStep, stepChoose, err)
		}
		onStep(stepChoose, ui.StepComplete, req.SSID)

		onStep(stepSelect, ui.StepRunning, "")
		if err := client.Select(ctx, req); err != nil {
			return nil, stepError(onStep, stepSelect, err)
		}
		onStep(stepSelect, ui.StepComplete, "")

		onStep(stepSave, ui.StepRunning, "")
		a.registry.RecordSelection(a.settings.Relay.URL, req.SSID)
		if err := service.ConfigureWiFi(ctx, event.ID, req); err != nil {
			return nil, stepError(onStep, stepSave, err)
		}
		onStep(stepSave, ui.StepComplete, "")

		return []ui.Param{
			{Key: "Event", Value: event.DisplayName()},
			{Key: "SSID", Value: req.SSID},
			{Key: "Band", Value: req.Band.String()},
			{Key: "MAC", Value: req.MAC},
			{Key: "Scan source", Value: result.Source.String()},
		}, nil
	})
}

// resolveEvent returns the named event, or the current one when id is empty
func resolveEvent(service *events.Service, id string) (*config.Event, error) {
	if id != "" {
		return service.Get(id)
	}
	event, err := service.Current()
	if errors.Is(err, events.ErrNoCurrentEvent) {
		return nil, fmt.Errorf("%w: pass --event or run 'relaylink events use <id>'", err)
	}
	return event, err
}

// chooseNetwork picks the network from the scan, with the picker or --ssid,
// and returns the selection including its password
func chooseNetwork(ctx context.Context, a *app, client *relay.Client, result *relay.ScanResult, stored relay.SelectionRequest) (relay.SelectionRequest, error) {
	if configureSSID == "" {
		sel, err := ui.RunNetworkPicker(ctx, ui.PickerConfig{
			Result:         result,
			CurrentSSID:    stored.SSID,
			StoredPassword: stored.Password,
			Rescan:         client.ScanNetworks,
		})
		if err != nil {
			return relay.SelectionRequest{}, err
		}
		return sel.Request(), nil
	}

	network, ok := result.Find(configureSSID)
	if !ok {
		return relay.SelectionRequest{}, fmt.Errorf("network %q not found in scan results", configureSSID)
	}

	req := relay.SelectionRequest{SSID: network.SSID, MAC: network.MAC, Band: network.Band}
	if network.IsOpen() {
		return req, nil
	}

	if network.SSID == stored.SSID && stored.Password != "" {
		logging.Debug("Using stored network password", zap.String("ssid", network.SSID))
		req.Password = stored.Password
		return req, nil
	}

	password, err := a.prompt.Password(fmt.Sprintf("Password for %s: ", network.SSID))
	if err != nil {
		return relay.SelectionRequest{}, err
	}
	req.Password = password
	return req, nil
}
