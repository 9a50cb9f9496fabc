package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/muurk/relaylink/internal/relay"
	"github.com/muurk/relaylink/internal/ui"
)

// Relay command flags
var (
	outputFormat string
	selectSSID   string
	selectMAC    string
	selectBand   string
	selectEvent  string
)

func init() {
	scanCmd.Flags().StringVar(&outputFormat, "format", "table", "Output format (table, compact, json)")

	selectCmd.Flags().StringVar(&selectSSID, "ssid", "", "Network name to select (required)")
	selectCmd.Flags().StringVar(&selectMAC, "mac", "", "Access point MAC; skips the lookup in the scan results")
	selectCmd.Flags().StringVar(&selectBand, "band", "", "Band (2.4GHz or 5GHz); required with --mac")
	selectCmd.Flags().StringVar(&selectEvent, "event", "", "Also store the network on this event")
	_ = selectCmd.MarkFlagRequired("ssid")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(selectCmd)
}

// loginCmd checks that the stored relay password is accepted
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Check that the relay accepts the stored password",
	Long: `Unlock the relay password with the admin password and log in to the
relay's management interface. The relay session ends when the command exits;
use this to verify the address and credentials.`,
	Example: `  relaylink login
  relaylink login --url http://192.168.0.254 --user admin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if err := a.ensureSetup(ctx); err != nil {
			return err
		}
		if err := a.unlock(ctx); err != nil {
			return err
		}

		client := a.newClient()
		defer client.Close()

		runner := ui.NewRunner(ui.RunnerConfig{
			Title:     "Relay Login",
			Command:   "relaylink login",
			Params:    a.relayParams(),
			StepNames: []string{"Log in to relay"},
		})
		return runner.Run(ctx, func(ctx context.Context, onStep ui.StepCallback) ([]ui.Param, error) {
			onStep(1, ui.StepRunning, "")
			if err := a.login(ctx, client); err != nil {
				return nil, stepError(onStep, 1, err)
			}
			onStep(1, ui.StepComplete, "")

			return []ui.Param{
				{Key: "Session cookies", Value: strconv.Itoa(len(client.Session().Cookies()))},
			}, nil
		})
	},
}

// scanCmd lists the networks visible to the relay
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List the networks the relay can see",
	Long: `Log in to the relay and ask it to scan for networks. Results are
de-duplicated and sorted by signal strength. When the relay's answer cannot
be parsed a fixed placeholder list is shown and flagged as such.`,
	Example: `  relaylink scan
  relaylink scan --format compact

  # JSON output for scripting
  relaylink scan --format json`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := a.ensureSetup(ctx); err != nil {
		return err
	}
	if err := a.unlock(ctx); err != nil {
		return err
	}

	client := a.newClient()
	defer client.Close()

	if err := a.login(ctx, client); err != nil {
		return err
	}
	result, err := client.ScanNetworks(ctx)
	if err != nil {
		return err
	}

	switch outputFormat {
	case "table", "":
		var current string
		if service, err := a.events(); err == nil {
			if event, err := service.Current(); err == nil && event.WiFi != nil {
				current = event.WiFi.SSID
			}
		}
		fmt.Println(ui.RenderNetworkTable(result, current))
		fmt.Println(result.Summary())
	default:
		out, err := result.Format(outputFormat)
		if err != nil {
			return err
		}
		fmt.Println(out)
	}
	return nil
}

// selectCmd selects an uplink network without the interactive picker
var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Select the relay's uplink network",
	Long: `Select the network the relay should repeat. The network is looked up in
a fresh scan to find its MAC address and band; pass --mac and --band to skip
the scan. The network password is prompted for unless the network is open.`,
	Example: `  relaylink select --ssid Cafe_5G
  relaylink select --ssid Cafe --mac aa:bb:cc:dd:ee:ff --band 2.4GHz

  # Remember the choice on an event
  relaylink select --ssid Cafe_5G --event summer-fair`,
	RunE: runSelect,
}

func runSelect(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := a.ensureSetup(ctx); err != nil {
		return err
	}

	manual := selectMAC != ""
	var band relay.Band
	if manual {
		if band, err = relay.ParseBand(selectBand); err != nil {
			return err
		}
	}

	if err := a.unlock(ctx); err != nil {
		return err
	}

	client := a.newClient()
	defer client.Close()

	if err := a.login(ctx, client); err != nil {
		return err
	}

	network := relay.Network{SSID: selectSSID, MAC: selectMAC, Band: band}
	if !manual {
		result, err := client.ScanNetworks(ctx)
		if err != nil {
			return err
		}
		if result.IsPlaceholder() {
			return fmt.Errorf("the relay scan could not be parsed; pass --mac and --band to select %q", selectSSID)
		}
		found, ok := result.Find(selectSSID)
		if !ok {
			return fmt.Errorf("network %q not found in scan results", selectSSID)
		}
		network = found
	}

	var password string
	if manual || !network.IsOpen() {
		if password, err = a.prompt.Password(fmt.Sprintf("Password for %s: ", network.SSID)); err != nil {
			return err
		}
	}

	req := relay.SelectionRequest{SSID: network.SSID, Password: password, MAC: network.MAC, Band: network.Band}
	if err := client.Select(ctx, req); err != nil {
		return err
	}
	fmt.Printf("✓ Relay uplink set to %s (%s, %s)\n", req.SSID, req.Band, req.MAC)

	if registry, err := a.loadRegistry(); err == nil {
		registry.RecordSelection(a.settings.Relay.URL, req.SSID)
	}

	if selectEvent != "" {
		service, err := a.events()
		if err != nil {
			return err
		}
		if err := service.ConfigureWiFi(ctx, selectEvent, req); err != nil {
			return fmt.Errorf("selected on the relay but not stored on event %s: %w", selectEvent, err)
		}
		fmt.Printf("✓ Stored on event %s\n", selectEvent)
		return nil
	}
	return a.saveRegistry()
}
