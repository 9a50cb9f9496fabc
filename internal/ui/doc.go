// Package ui provides terminal UI components for the relaylink CLI.
//
// Most components follow a "run once and exit" pattern rendered with
// Lipgloss:
//
//   - Header: command banner showing operation name and parameters
//   - Progress: step list with a progress bar for multi-step workflows
//   - Result: success, failure and warning boxes; failures carry
//     troubleshooting tips derived from relay errors
//   - RenderNetworkTable: scan results as a table, placeholder data flagged
//
// The Runner orchestrates header, steps and result for a command.
//
// The one interactive component is the NetworkPicker, a Bubble Tea program
// used by "relaylink configure": a filterable list of scanned networks with
// the event's current network preselected, optional rescan, then a masked
// password prompt for secured networks.
//
// Example:
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:     "Configure Uplink",
//	    Command:   "relaylink configure",
//	    Params:    []ui.Param{{Key: "Relay", Value: baseURL}},
//	    StepNames: []string{"Log in", "Scan", "Select"},
//	})
//
//	err := runner.Run(ctx, func(ctx context.Context, onStep ui.StepCallback) ([]ui.Param, error) {
//	    onStep(1, ui.StepRunning, "")
//	    // ... do work ...
//	    onStep(1, ui.StepComplete, "")
//	    return nil, nil
//	})
//
// # Logging Integration
//
// zap logging is silent unless RELAYLINK_LOG_LEVEL or --log-level is set, so
// the curated UI output is displayed cleanly.
package ui
