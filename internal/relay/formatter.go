package relay

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Summary returns a one-line summary of the scan result
func (r *ScanResult) Summary() string {
	if r.IsPlaceholder() {
		return fmt.Sprintf("%d placeholder network(s) (relay returned no parseable scan data)", len(r.Networks))
	}
	return fmt.Sprintf("%d network(s) from %s scan data", len(r.Networks), r.Source)
}

// FormatSignalBars renders the signal as a 4-cell bar, e.g. "▂▄▆_"
func FormatSignalBars(n Network) string {
	cells := []string{"▂", "▄", "▆", "█"}
	bars := n.SignalBars()

	var b strings.Builder
	for i, cell := range cells {
		if i < bars {
			b.WriteString(cell)
		} else {
			b.WriteString("_")
		}
	}
	return b.String()
}

// FormatTable returns the networks as a fixed-width text table
func (r *ScanResult) FormatTable() string {
	var b strings.Builder

	ssidWidth := len("SSID")
	for _, n := range r.Networks {
		if len(n.SSID) > ssidWidth {
			ssidWidth = len(n.SSID)
		}
	}

	b.WriteString(fmt.Sprintf("%-4s %-*s  %-17s  %-6s  %-3s  %-7s  %-8s\n",
		"#", ssidWidth, "SSID", "MAC", "Band", "Ch", "Signal", "Security"))
	b.WriteString(strings.Repeat("-", 4+1+ssidWidth+2+17+2+6+2+3+2+7+2+8))
	b.WriteString("\n")

	for i, n := range r.Networks {
		b.WriteString(fmt.Sprintf("%-4d %-*s  %-17s  %-6s  %-3d  %4d %s  %-8s\n",
			i+1, ssidWidth, n.SSID, n.MAC, n.Band, n.Channel, n.SignalStrength, FormatSignalBars(n), n.SecurityMode))
	}

	if r.IsPlaceholder() {
		b.WriteString("\nNOTE: placeholder data, not reported by the relay.\n")
	}

	return b.String()
}

// FormatCompact returns one line per network
func (r *ScanResult) FormatCompact() string {
	var b strings.Builder
	for _, n := range r.Networks {
		b.WriteString(fmt.Sprintf("%s\t%s\t%s\t%d\t%s\n", n.SSID, n.MAC, n.Band, n.SignalStrength, n.SecurityMode))
	}
	return b.String()
}

// scanJSON is the JSON shape of a scan result for scripting
type scanJSON struct {
	Source      string    `json:"source"`
	Placeholder bool      `json:"placeholder"`
	Networks    []Network `json:"networks"`
}

// FormatJSON returns the scan result as indented JSON
func (r *ScanResult) FormatJSON() (string, error) {
	data, err := json.MarshalIndent(scanJSON{
		Source:      r.Source.String(),
		Placeholder: r.IsPlaceholder(),
		Networks:    r.Networks,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal scan result: %w", err)
	}
	return string(data), nil
}

// Format renders the result as "table", "compact" or "json"
func (r *ScanResult) Format(format string) (string, error) {
	switch format {
	case "compact":
		return r.FormatCompact(), nil
	case "json":
		return r.FormatJSON()
	case "table", "detailed", "":
		return r.FormatTable(), nil
	default:
		return "", fmt.Errorf("unknown output format %q (use table, compact or json)", format)
	}
}
