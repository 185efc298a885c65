package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-admin/pkg/session"
)

var sessionKeys = []string{
	session.KeyAuthToken,
	session.KeyUserData,
	session.KeyOrganizationID,
	session.KeyUserID,
	session.KeyDepartmentID,
}

// SessionCmd creates the session command and its subcommands
func SessionCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Show or change the stored session (organization, user, department, token)",
	}

	cmd.AddCommand(sessionShowCmd(app), sessionSetCmd(app), sessionClearCmd(app))

	return cmd
}

func sessionShowCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the identifiers resolved from the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := app.Identity.Snapshot()

			fmt.Println("\nSession:")
			fmt.Printf("  %-14s %s\n", "Organization", orMissing(snap.OrganizationID))
			fmt.Printf("  %-14s %s\n", "User", orMissing(snap.UserID))
			fmt.Printf("  %-14s %s\n", "Department", orMissing(snap.DepartmentID))
			fmt.Printf("  %-14s %s\n", "Employee", orMissing(snap.EmployeeID))
			if snap.HasAuthToken {
				fmt.Printf("  %-14s %s\n", "Auth token", colored(colorGreen, "present"))
			} else {
				fmt.Printf("  %-14s %s\n", "Auth token", colored(colorRed, "missing"))
			}
			fmt.Println()

			return nil
		},
	}
}

func sessionSetCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a session value (" + strings.Join(sessionKeys, ", ") + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := sessionKey(args[0])
			if err != nil {
				return err
			}

			if err := app.Session.Set(key, args[1]); err != nil {
				return fmt.Errorf("failed to store %s: %w", key, err)
			}

			app.Logger.Info("Session value stored", zap.String("key", key))
			fmt.Printf("\n✓ %s stored\n\n", key)
			return nil
		},
	}
}

func sessionClearCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear [key]",
		Short: "Remove one session value, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := sessionKeys
			if len(args) == 1 {
				key, err := sessionKey(args[0])
				if err != nil {
					return err
				}
				keys = []string{key}
			}

			for _, key := range keys {
				if err := app.Session.Delete(key); err != nil {
					return fmt.Errorf("failed to remove %s: %w", key, err)
				}
			}

			app.Logger.Info("Session values removed", zap.Strings("keys", keys))
			fmt.Printf("\n✓ Removed %s\n\n", strings.Join(keys, ", "))
			return nil
		},
	}
}

// sessionKey matches a key name case-insensitively against the known keys
func sessionKey(name string) (string, error) {
	for _, k := range sessionKeys {
		if strings.EqualFold(k, name) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown session key %q (expected one of %s)", name, strings.Join(sessionKeys, ", "))
}

func orMissing(v string) string {
	if v == "" {
		return colored(colorRed, "missing")
	}
	return v
}
