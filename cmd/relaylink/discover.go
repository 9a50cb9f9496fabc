package main

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/relaylink/internal/discovery"
	"github.com/muurk/relaylink/internal/logging"
	"github.com/muurk/relaylink/internal/relay"
	"github.com/muurk/relaylink/internal/ui"
)

// Discover command flags
var (
	discoverTimeout time.Duration
	discoverName    string
	discoverNoProbe bool
)

func init() {
	discoverCmd.Flags().DurationVar(&discoverTimeout, "scan-timeout", 0, "mDNS browse time (default: discovery.timeout, 5s)")
	discoverCmd.Flags().StringVar(&discoverName, "name", "", "Stop at the first relay whose hostname or instance contains this text")
	discoverCmd.Flags().BoolVar(&discoverNoProbe, "no-probe", false, "Skip the HTTP reachability check")

	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(probeCmd)
}

// discoverCmd finds relays on the local network
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find relays on the local network with mDNS",
	Long: `Browse mDNS (_http._tcp) for devices whose name matches discovery.pattern
(default: tenda, relay or extender), check that each answers HTTP and remember
them in the configuration file.

Relays that do not advertise over mDNS can still be used with --url.`,
	Example: `  relaylink discover
  relaylink discover --scan-timeout 15s
  relaylink discover --name tenda`,
	RunE: runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	timeout := a.settings.Discovery.Timeout
	if discoverTimeout > 0 {
		timeout = discoverTimeout
	}
	scanner, err := discovery.NewScanner(timeout, a.settings.Discovery.Pattern)
	if err != nil {
		return err
	}

	fmt.Printf("Scanning for relays (timeout: %s)...\n\n", timeout)

	var devices []*discovery.Device
	if discoverName != "" {
		device, err := scanner.WaitForDevice(ctx, discoverName)
		if err != nil {
			return err
		}
		devices = []*discovery.Device{device}
	} else {
		if devices, err = scanner.ScanForDevices(ctx); err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
	}

	if len(devices) == 0 {
		fmt.Println("No relays found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the relay is powered on")
		fmt.Println("  - Connect to the relay's Wi-Fi network")
		fmt.Println("  - Try increasing --scan-timeout")
		fmt.Println("  - Many relays do not advertise; use --url with the relay address")
		return nil
	}

	fmt.Printf("Found %d relay(s):\n\n", len(devices))

	httpClient := relay.NewHTTPClient(relay.TransportOptions{
		Timeout:     discovery.DefaultProbeTimeout,
		DialTimeout: discovery.DefaultProbeTimeout,
		VerifyTLS:   !a.settings.Relay.Insecure,
	})

	for i, device := range devices {
		fmt.Printf("%d. %s\n", i+1, device)
		fmt.Printf("   URL:      %s\n", device.BaseURL())
		if model := device.GetMetadata("model"); model != "" {
			fmt.Printf("   Model:    %s\n", model)
		}
		if !discoverNoProbe {
			fmt.Printf("   Status:   %s\n", probeStatus(ctx, httpClient, device.BaseURL()))
		}
		fmt.Println()
	}

	registry, err := a.loadRegistry()
	if err != nil {
		return err
	}
	discovery.Record(registry, devices)
	if err := a.saveRegistry(); err != nil {
		logging.Warn("Failed to save discovered relays", zap.Error(err))
	}

	fmt.Println("Use 'relaylink login --url <URL>' to check the credentials")
	return nil
}

func probeStatus(ctx context.Context, httpClient *http.Client, baseURL string) string {
	result, err := discovery.Probe(ctx, httpClient, baseURL)
	if err != nil {
		return ui.FailureMarker + " " + relay.ShortErrorMessage(err)
	}
	return fmt.Sprintf("%s HTTP %d in %s", ui.StepMarkerComplete, result.StatusCode, result.Latency.Round(time.Millisecond))
}

// probeCmd checks that the configured relay answers HTTP
var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check that the relay's management page answers",
	Long: `Send one unauthenticated request to the relay base URL. Any HTTP answer
counts as reachable; no credentials are needed or sent.`,
	Example: `  relaylink probe
  relaylink probe --url http://192.168.0.254`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		runner := ui.NewRunner(ui.RunnerConfig{
			Title:     "Relay Probe",
			Command:   "relaylink probe",
			Params:    a.relayParams()[:1],
			StepNames: []string{"Contact relay"},
		})
		return runner.Run(cmd.Context(), func(ctx context.Context, onStep ui.StepCallback) ([]ui.Param, error) {
			onStep(1, ui.StepRunning, "")
			httpClient := relay.NewHTTPClient(a.settings.Relay.TransportOptions())
			result, err := discovery.Probe(ctx, httpClient, a.settings.Relay.URL)
			if err != nil {
				return nil, stepError(onStep, 1, err)
			}
			onStep(1, ui.StepComplete, "")

			details := []ui.Param{
				{Key: "Status", Value: strconv.Itoa(result.StatusCode)},
				{Key: "Latency", Value: result.Latency.Round(time.Millisecond).String()},
			}
			if result.Server != "" {
				details = append(details, ui.Param{Key: "Server", Value: result.Server})
			}
			return details, nil
		})
	},
}
