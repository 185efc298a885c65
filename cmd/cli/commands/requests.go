package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-admin/pkg/clients/apiclient"
	"github.com/jakechorley/shift-admin/pkg/core/model"
	"github.com/jakechorley/shift-admin/pkg/core/services"
)

// ListAvailabilityCmd creates the listAvailability command
func ListAvailabilityCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listAvailability",
		Short: "List an employee's availability entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employee, _ := cmd.Flags().GetString("employee")

			entries, err := app.API.ListAvailability(app.Ctx, model.ID(employee))
			if err != nil {
				return fmt.Errorf("failed to list availability: %w", err)
			}

			fmt.Printf("\nFound %d availability entries:\n\n", len(entries))
			for _, e := range entries {
				window := "all day"
				if e.StartTime != "" && e.EndTime != "" {
					window = e.StartTime + "-" + e.EndTime
				}
				fmt.Printf("- %-8s %s %-13s %-11s %s\n",
					e.ID, e.AvailabilityDate, window, e.Type,
					colored(approvalColor(e.Approved), e.Approved.String()))
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("employee", "", "Employee ID (defaults to the session employee)")

	return cmd
}

// RequestAvailabilityCmd creates the requestAvailability command
func RequestAvailabilityCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requestAvailability <date> <AVAILABLE|UNAVAILABLE|PREFERRED>",
		Short: "Submit an availability entry for a day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			employee, _ := cmd.Flags().GetString("employee")
			start, _ := cmd.Flags().GetString("start")
			end, _ := cmd.Flags().GetString("end")
			notes, _ := cmd.Flags().GetString("notes")

			entry, err := services.RequestAvailability(app.Ctx, app.API, app.Logger, apiclient.AvailabilityRequest{
				EmployeeID:       model.ID(employee),
				AvailabilityDate: args[0],
				StartTime:        start,
				EndTime:          end,
				Type:             model.AvailabilityType(strings.ToUpper(args[1])),
				Notes:            notes,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Availability submitted (id %s): %s on %s\n\n", entry.ID, entry.Label(), entry.AvailabilityDate)
			return nil
		},
	}

	cmd.Flags().String("employee", "", "Employee ID (defaults to the session employee)")
	cmd.Flags().String("start", "", "Start time HH:MM (all day when omitted)")
	cmd.Flags().String("end", "", "End time HH:MM")
	cmd.Flags().String("notes", "", "Notes for the reviewer")

	return cmd
}

// ListTimeOffCmd creates the listTimeOff command
func ListTimeOffCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listTimeOff",
		Short: "List an employee's time-off requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employee, _ := cmd.Flags().GetString("employee")

			requests, err := app.API.ListTimeOff(app.Ctx, model.ID(employee))
			if err != nil {
				return fmt.Errorf("failed to list time off: %w", err)
			}

			fmt.Printf("\nFound %d time-off requests:\n\n", len(requests))
			for _, r := range requests {
				approval := r.Status.Approval()
				fmt.Printf("- %-8s %s to %s %-10s %s",
					r.ID, r.StartDate, r.EndDate, r.Type, colored(approvalColor(approval), approval.String()))
				if r.Reason != "" {
					fmt.Printf(" - %s", r.Reason)
				}
				fmt.Println()
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("employee", "", "Employee ID (defaults to the session employee)")

	return cmd
}

// RequestTimeOffCmd creates the requestTimeOff command
func RequestTimeOffCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requestTimeOff <start_date> <end_date> <type>",
		Short: "Request time off for an inclusive range of days",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			employee, _ := cmd.Flags().GetString("employee")
			reason, _ := cmd.Flags().GetString("reason")

			created, err := services.RequestTimeOff(app.Ctx, app.API, app.Logger, apiclient.TimeOffPayload{
				EmployeeID: model.ID(employee),
				StartDate:  args[0],
				EndDate:    args[1],
				Type:       strings.ToUpper(args[2]),
				Reason:     reason,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Time off requested (id %s): %s to %s\n\n", created.ID, created.StartDate, created.EndDate)
			return nil
		},
	}

	cmd.Flags().String("employee", "", "Employee ID (defaults to the session employee)")
	cmd.Flags().String("reason", "", "Reason for the request")

	return cmd
}

// ListShiftSwapsCmd creates the listShiftSwaps command
func ListShiftSwapsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listShiftSwaps",
		Short: "List an employee's shift swap requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employee, _ := cmd.Flags().GetString("employee")

			swaps, err := app.API.ListShiftSwaps(app.Ctx, model.ID(employee))
			if err != nil {
				return fmt.Errorf("failed to list shift swaps: %w", err)
			}

			fmt.Printf("\nFound %d shift swap requests:\n\n", len(swaps))
			for _, s := range swaps {
				approval := s.Status.Approval()
				target := "anyone"
				if s.TargetEmployeeID != "" {
					target = "employee " + s.TargetEmployeeID.String()
				}
				fmt.Printf("- %-8s %s %s -> %s %s\n",
					s.ID, s.Shift.Date, s.Shift.Label(), target, colored(approvalColor(approval), approval.String()))
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("employee", "", "Employee ID (defaults to the session employee)")

	return cmd
}

// RequestShiftSwapCmd creates the requestShiftSwap command
func RequestShiftSwapCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requestShiftSwap <shift_id> [target_employee_id]",
		Short: "Offer a shift to another employee, or to anyone",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			employee, _ := cmd.Flags().GetString("employee")
			reason, _ := cmd.Flags().GetString("reason")

			payload := apiclient.ShiftSwapPayload{
				RequesterID: model.ID(employee),
				ShiftID:     model.ID(args[0]),
				Reason:      reason,
			}
			if len(args) > 1 {
				payload.TargetEmployeeID = model.ID(args[1])
			}

			created, err := services.RequestShiftSwap(app.Ctx, app.API, app.Logger, payload)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Shift swap requested (id %s)\n\n", created.ID)
			return nil
		},
	}

	cmd.Flags().String("employee", "", "Requesting employee ID (defaults to the session employee)")
	cmd.Flags().String("reason", "", "Reason for the swap")

	return cmd
}

// reviewCmd builds the three review commands, which differ only in the record they decide on
func reviewCmd(
	app *AppContext,
	use, short string,
	review func(notifier services.Notifier, decision services.ReviewDecision) (summary string, notified bool, err error),
) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <employee_id> <record_id> <approve|reject>",
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			approve, err := parseDecision(args[2])
			if err != nil {
				return err
			}
			noEmail, _ := cmd.Flags().GetBool("no-email")

			app.Logger.Debug(use+" command",
				zap.String("employee_id", args[0]),
				zap.String("record_id", args[1]),
				zap.Bool("approve", approve),
				zap.Bool("no_email", noEmail))

			summary, notified, err := review(app.Notifier(noEmail), services.ReviewDecision{
				EmployeeID: model.ID(args[0]),
				RecordID:   model.ID(args[1]),
				Approve:    approve,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ %s\n", summary)
			if notified {
				fmt.Println("  Employee notified by e-mail")
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Bool("no-email", false, "Don't e-mail the employee about the decision")

	return cmd
}

// parseDecision accepts approve/reject and a few common spellings
func parseDecision(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "approve", "approved", "yes", "true":
		return true, nil
	case "reject", "rejected", "no", "false":
		return false, nil
	default:
		return false, fmt.Errorf("decision must be approve or reject, got: %s", s)
	}
}

// ReviewAvailabilityCmd creates the reviewAvailability command
func ReviewAvailabilityCmd(app *AppContext) *cobra.Command {
	return reviewCmd(app, "reviewAvailability", "Approve or reject a pending availability entry",
		func(notifier services.Notifier, decision services.ReviewDecision) (string, bool, error) {
			result, err := services.ReviewAvailability(app.Ctx, app.API, notifier, app.Logger, decision)
			if err != nil {
				return "", false, err
			}
			return fmt.Sprintf("Availability %s on %s is now %s",
				result.Record.ID, result.Record.AvailabilityDate, result.Record.Approved), result.Notified, nil
		})
}

// ReviewTimeOffCmd creates the reviewTimeOff command
func ReviewTimeOffCmd(app *AppContext) *cobra.Command {
	return reviewCmd(app, "reviewTimeOff", "Approve or reject a pending time-off request",
		func(notifier services.Notifier, decision services.ReviewDecision) (string, bool, error) {
			result, err := services.ReviewTimeOff(app.Ctx, app.API, notifier, app.Logger, decision)
			if err != nil {
				return "", false, err
			}
			return fmt.Sprintf("Time off %s (%s to %s) is now %s",
				result.Record.ID, result.Record.StartDate, result.Record.EndDate, result.Record.Status.Approval()), result.Notified, nil
		})
}

// ReviewShiftSwapCmd creates the reviewShiftSwap command
func ReviewShiftSwapCmd(app *AppContext) *cobra.Command {
	return reviewCmd(app, "reviewShiftSwap", "Approve or reject a pending shift swap",
		func(notifier services.Notifier, decision services.ReviewDecision) (string, bool, error) {
			result, err := services.ReviewShiftSwap(app.Ctx, app.API, notifier, app.Logger, decision)
			if err != nil {
				return "", false, err
			}
			return fmt.Sprintf("Shift swap %s is now %s",
				result.Record.ID, result.Record.Status.Approval()), result.Notified, nil
		})
}
