package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/relaylink/internal/config"
	"github.com/muurk/relaylink/internal/events"
	"github.com/muurk/relaylink/internal/ui"
)

const eventDateLayout = "2006-01-02"

// Events command flags
var (
	eventDate   string
	eventName   string
	eventRecent int
	eventSearch string
	eventUse    bool
)

func init() {
	eventsCreateCmd.Flags().StringVar(&eventDate, "date", "", "Event date as YYYY-MM-DD (default: today)")
	eventsCreateCmd.Flags().BoolVar(&eventUse, "use", true, "Make the new event the current one")

	eventsUpdateCmd.Flags().StringVar(&eventName, "name", "", "New event name")
	eventsUpdateCmd.Flags().StringVar(&eventDate, "date", "", "New event date as YYYY-MM-DD")

	eventsListCmd.Flags().IntVar(&eventRecent, "recent", 0, fmt.Sprintf("Show only the N most recently updated events (0: all, default N is %d with --recent)", events.DefaultRecentLimit))
	eventsListCmd.Flags().Lookup("recent").NoOptDefVal = fmt.Sprint(events.DefaultRecentLimit)
	eventsListCmd.Flags().StringVar(&eventSearch, "search", "", "Filter by name or date (case-insensitive)")

	eventsCmd.AddCommand(eventsCreateCmd)
	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsShowCmd)
	eventsCmd.AddCommand(eventsUseCmd)
	eventsCmd.AddCommand(eventsUpdateCmd)
	eventsCmd.AddCommand(eventsDeleteCmd)
	eventsCmd.AddCommand(eventsClearWiFiCmd)

	rootCmd.AddCommand(eventsCmd)
}

var eventsCmd = &cobra.Command{
	Use:     "events",
	Aliases: []string{"event"},
	Short:   "Manage events and their uplink networks",
}

var eventsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an event",
	Example: `  relaylink events create "Summer Fair" --date 2026-07-04
  relaylink events create "Board Meeting" --use=false`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := eventService(cmd)
		if err != nil {
			return err
		}
		date, err := parseEventDate(eventDate, time.Now())
		if err != nil {
			return err
		}

		event, err := service.Create(args[0], date)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Created event %s (%s)\n", event.ID, event.DisplayName())

		if eventUse {
			if err := service.SetCurrent(event.ID); err != nil {
				return err
			}
			fmt.Println("✓ Set as current event")
		}
		return nil
	},
}

var eventsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List events, most recently updated first",
	Example: `  relaylink events list
  relaylink events list --recent
  relaylink events list --search fair`,
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := eventService(cmd)
		if err != nil {
			return err
		}

		var list []*config.Event
		switch {
		case eventSearch != "":
			list = service.Search(eventSearch)
		case eventRecent > 0:
			list = service.Recent(eventRecent)
		default:
			list = service.List()
		}

		if len(list) == 0 {
			fmt.Println("No events found.")
			fmt.Println("Create one with: relaylink events create <name>")
			return nil
		}

		var currentID string
		if current, err := service.Current(); err == nil {
			currentID = current.ID
		}

		fmt.Println(ui.RenderEventTable(list, currentID))
		return nil
	},
}

var eventsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show an event (default: the current event)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := eventService(cmd)
		if err != nil {
			return err
		}
		event, err := resolveEvent(service, firstArg(args))
		if err != nil {
			return err
		}

		details := []ui.Param{
			{Key: "ID", Value: event.ID},
			{Key: "Name", Value: event.Name},
			{Key: "Date", Value: event.FormattedDate()},
			{Key: "Updated", Value: event.UpdatedAt.Local().Format(time.RFC1123)},
		}
		if event.IsWiFiConfigured() {
			details = append(details,
				ui.Param{Key: "SSID", Value: event.WiFi.SSID},
				ui.Param{Key: "MAC", Value: event.WiFi.MAC},
				ui.Param{Key: "Band", Value: event.WiFi.Band.String()},
			)
		} else {
			details = append(details, ui.Param{Key: "Network", Value: "not configured"})
		}

		ui.NewPrinter(nil).Success(event.Name, details...)
		return nil
	},
}

var eventsUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Make an event the current one (\"\" clears it)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := eventService(cmd)
		if err != nil {
			return err
		}
		if err := service.SetCurrent(args[0]); err != nil {
			return err
		}
		if args[0] == "" {
			fmt.Println("✓ Current event cleared")
			return nil
		}
		fmt.Printf("✓ Current event is now %s\n", args[0])
		return nil
	},
}

var eventsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Rename an event or change its date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := eventService(cmd)
		if err != nil {
			return err
		}
		event, err := service.Get(args[0])
		if err != nil {
			return err
		}

		name := event.Name
		if eventName != "" {
			name = eventName
		}
		date, err := parseEventDate(eventDate, event.Date)
		if err != nil {
			return err
		}

		updated, err := service.Update(event.ID, name, date)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Updated event %s (%s)\n", updated.ID, updated.DisplayName())
		return nil
	},
}

var eventsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an event and its stored network password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := eventService(cmd)
		if err != nil {
			return err
		}
		if err := service.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Deleted event %s\n", args[0])
		return nil
	},
}

var eventsClearWiFiCmd = &cobra.Command{
	Use:   "clear-wifi [id]",
	Short: "Forget the network stored on an event (default: the current event)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := eventService(cmd)
		if err != nil {
			return err
		}
		event, err := resolveEvent(service, firstArg(args))
		if err != nil {
			return err
		}
		if err := service.ClearWiFi(cmd.Context(), event.ID); err != nil {
			return err
		}
		fmt.Printf("✓ Network cleared on %s\n", event.DisplayName())
		return nil
	},
}

func eventService(cmd *cobra.Command) (*events.Service, error) {
	a, err := newApp(cmd)
	if err != nil {
		return nil, err
	}
	return a.events()
}

// parseEventDate parses YYYY-MM-DD in local time; empty input yields def
func parseEventDate(s string, def time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	date, err := time.ParseInLocation(eventDateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, errors.New("invalid date (use YYYY-MM-DD): " + s)
	}
	return date, nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
