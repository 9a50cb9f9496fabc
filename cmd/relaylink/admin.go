package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/muurk/relaylink/internal/admin"
	"github.com/muurk/relaylink/internal/ui"
)

var forceReset bool

func init() {
	adminCmd.AddCommand(adminSetupCmd)
	adminCmd.AddCommand(adminPasswdCmd)
	adminCmd.AddCommand(adminRelayPasswordCmd)
	adminCmd.AddCommand(adminStatusCmd)
	adminCmd.AddCommand(adminResetCmd)

	adminResetCmd.Flags().BoolVar(&forceReset, "force", false, "Skip the confirmation prompt")

	rootCmd.AddCommand(adminCmd)
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage the admin password and the stored relay password",
	Long: `The relay password is kept in the secrets store and released only after
the admin password has been entered. Each command that talks to the relay
asks for the admin password; the admin session lasts for the lifetime of
that command (at most admin.session, 5 minutes by default).`,
}

var adminSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Set the admin password and the relay password",
	Long: `Set the admin password (at least 6 characters) and store the relay's
management password. If an admin password already exists it must be entered
first.`,
	Example: `  relaylink admin setup
  relaylink admin setup --secrets-backend file`,
	RunE: runAdminSetup,
}

func runAdminSetup(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	hasAdmin, err := a.gate.HasAdminPassword(ctx)
	if err != nil {
		return fmt.Errorf("failed to read secrets store: %w", err)
	}
	if hasAdmin {
		fmt.Println("An admin password is already set.")
		if err := a.unlock(ctx); err != nil {
			return err
		}
	}

	adminPassword, err := a.prompt.NewPassword("New admin password: ")
	if err != nil {
		return err
	}
	if err := a.gate.SetAdminPassword(ctx, adminPassword); err != nil {
		return err
	}
	fmt.Println("✓ Admin password saved")

	relayPassword, err := a.prompt.NewPassword("Relay password: ")
	if err != nil {
		return err
	}
	if err := a.gate.SetRelaySecret(ctx, relayPassword); err != nil {
		return err
	}
	fmt.Println("✓ Relay password saved")

	fmt.Println("\nSetup complete. Next: relaylink configure")
	return nil
}

var adminPasswdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the admin password",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if err := a.unlock(ctx); err != nil {
			return err
		}
		password, err := a.prompt.NewPassword("New admin password: ")
		if err != nil {
			return err
		}
		if err := a.gate.SetAdminPassword(ctx, password); err != nil {
			return err
		}

		fmt.Println("✓ Admin password changed")
		return nil
	},
}

var adminRelayPasswordCmd = &cobra.Command{
	Use:   "set-relay-password",
	Short: "Replace the stored relay password",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if err := a.unlock(ctx); err != nil {
			return err
		}
		password, err := a.prompt.NewPassword("Relay password: ")
		if err != nil {
			return err
		}
		if err := a.gate.SetRelaySecret(ctx, password); err != nil {
			return err
		}

		fmt.Println("✓ Relay password saved")
		return nil
	},
}

var adminStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether admin setup is complete",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		hasAdmin, err := a.gate.HasAdminPassword(ctx)
		if err != nil {
			return fmt.Errorf("failed to read secrets store: %w", err)
		}
		hasRelay, err := a.gate.HasRelaySecret(ctx)
		if err != nil {
			return fmt.Errorf("failed to read secrets store: %w", err)
		}

		details := []ui.Param{
			{Key: "Admin password", Value: yesNo(hasAdmin)},
			{Key: "Relay password", Value: yesNo(hasRelay)},
			{Key: "Secrets backend", Value: a.settings.Secrets.Backend},
			{Key: "Secrets dir", Value: a.settings.Secrets.Dir},
			{Key: "Session", Value: a.gate.SessionTimeout().String()},
		}

		p := ui.NewPrinter(nil)
		if hasAdmin && hasRelay {
			p.Success("Admin setup complete", details...)
			return nil
		}
		p.Warning("Admin setup incomplete", append(details, ui.Param{Key: "Next", Value: "relaylink admin setup"})...)
		return nil
	},
}

var adminResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the admin password and the relay password",
	Long: `Delete the admin password hash and the stored relay password. Use this
when the admin password has been forgotten. Event network passwords are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		if !forceReset && !ui.ConfirmAdminReset(os.Stdin, os.Stdout) {
			return errors.New("reset cancelled")
		}
		if err := a.gate.Reset(cmd.Context()); err != nil {
			return err
		}

		fmt.Println("✓ Admin credentials deleted")
		fmt.Println("Run 'relaylink admin setup' to set new passwords")
		return nil
	},
}

func yesNo(b bool) string {
	if b {
		return "set"
	}
	return "not set"
}

// adminHint returns a follow-up line for errors raised by the admin gate
func adminHint(err error) string {
	switch {
	case errors.Is(err, admin.ErrSetupIncomplete):
		return "Run 'relaylink admin setup' to set the admin and relay passwords"
	case errors.Is(err, admin.ErrAuthenticationFailed):
		return "Forgotten the admin password? Run 'relaylink admin reset'"
	case errors.Is(err, admin.ErrInvalidPassword):
		return "Admin passwords need at least " + strconv.Itoa(admin.MinPasswordLength) + " characters"
	}
	return ""
}
