package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ConfirmDangerousOperation displays a warning box and asks the operator to
// type phrase to proceed. Returns true only for an exact match.
func ConfirmDangerousOperation(in io.Reader, out io.Writer, title string, warnings []string, phrase string) bool {
	width := GetTerminalWidth()

	lines := []string{"", WarningTitleStyle.Render(fmt.Sprintf("   %s  WARNING  ─  %s", WarningMarker, title)), ""}
	for _, warning := range warnings {
		lines = append(lines, lipgloss.NewStyle().Foreground(TextColor).Render("   • "+warning))
	}
	lines = append(lines, "")

	fmt.Fprintln(out, resultBoxStyle(width, WarningColor).Render(strings.Join(lines, "\n")))
	fmt.Fprintln(out)
	fmt.Fprint(out, WarningTitleStyle.Render(fmt.Sprintf("To proceed, type %q and press Enter: ", phrase)))

	input, err := bufio.NewReader(in).ReadString('\n')
	fmt.Fprintln(out)
	if err != nil && input == "" {
		return false
	}

	if strings.TrimSpace(input) == phrase {
		return true
	}

	fmt.Fprintln(out, lipgloss.NewStyle().Foreground(MutedColor).Render("  Operation cancelled."))
	return false
}

// ConfirmAdminReset guards "admin reset", which deletes the operator
// password and the relay password
func ConfirmAdminReset(in io.Reader, out io.Writer) bool {
	return ConfirmDangerousOperation(in, out,
		"RESET ADMIN CREDENTIALS",
		[]string{
			"The admin password hash will be deleted",
			"The stored relay password will be deleted",
			"Event network passwords are kept",
			"You will need to run: relaylink admin setup",
		},
		"RESET",
	)
}
