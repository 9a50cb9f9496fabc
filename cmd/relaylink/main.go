// Relaylink configures the uplink network of a Wi-Fi relay device.
//
// It logs in to the relay's HTTP management interface, scans the networks
// the relay can see and selects the one it should repeat. The relay password
// is kept in a secrets store behind an operator (admin) password, and the
// chosen network is remembered per event.
//
// Usage:
//
//	relaylink [command] [flags]
//
// Run 'relaylink admin setup' once, then 'relaylink configure'.
// See 'relaylink --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/muurk/relaylink/internal/logging"
	"github.com/muurk/relaylink/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := adminHint(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "relaylink",
	Short: "Wi-Fi Relay Configuration Utility",
	Long: `A standalone utility for configuring the uplink network of a Wi-Fi relay.

Logs in to the relay's management interface, scans for visible networks and
selects the network the relay should repeat. The relay password is stored in
a secrets store (pass or a private file) and released only after the admin
password has been entered.

Settings are read from settings.yaml in the configuration directory, then
RELAYLINK_* environment variables, then command-line flags.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Example: `  # First run: set the admin and relay passwords
  relaylink admin setup

  # Create an event and configure the relay for it
  relaylink events create "Summer Fair" --date 2026-07-04
  relaylink configure

  # Scan from a relay at a non-default address
  relaylink scan --url http://192.168.0.254`,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("relaylink %s\n", version.Full())
	},
}
