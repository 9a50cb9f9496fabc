package ui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/muurk/relaylink/internal/config"
	"github.com/muurk/relaylink/internal/relay"
)

// RenderNetworkTable renders scan results as a bordered table. The row whose
// SSID equals current is marked.
func RenderNetworkTable(result *relay.ScanResult, current string) string {
	rows := make([][]string, 0, len(result.Networks))
	for i, n := range result.Networks {
		name := n.SSID
		if current != "" && n.SSID == current {
			name = CurrentMarker + " " + name
		}
		security := n.SecurityMode
		if n.IsOpen() {
			security = "Open"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			name,
			n.Band.String(),
			relay.FormatSignalBars(n),
			strconv.Itoa(n.Channel),
			security,
			n.MAC,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(PrimaryColor)).
		Headers("#", "SSID", "BAND", "SIGNAL", "CH", "SECURITY", "MAC").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if row >= 0 && row < len(result.Networks) && result.Networks[row].SSID == current {
				return TableCellStyle.Foreground(SuccessColor)
			}
			return TableCellStyle
		})

	out := t.Render()
	if result.IsPlaceholder() {
		out = WarningTitleStyle.Render(WarningMarker+"  Relay returned no readable scan data; these are placeholder networks") + "\n" + out
	}
	return out
}

// RenderEventTable renders events in the given order, marking currentID
func RenderEventTable(events []*config.Event, currentID string) string {
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		id := e.ID
		if e.ID == currentID {
			id = CurrentMarker + " " + id
		}
		network := "-"
		if e.IsWiFiConfigured() {
			network = e.WiFi.SSID + " (" + e.WiFi.Band.String() + ")"
		}
		rows = append(rows, []string{id, e.Name, e.FormattedDate(), network})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(PrimaryColor)).
		Headers("ID", "NAME", "DATE", "NETWORK").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if row >= 0 && row < len(events) && events[row].ID == currentID {
				return TableCellStyle.Foreground(SuccessColor)
			}
			return TableCellStyle
		}).
		Render()
}
