package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-admin/pkg/core/model"
	"github.com/jakechorley/shift-admin/pkg/core/services"
)

// PublishScheduleCmd creates the publishSchedule command
func PublishScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publishSchedule [YYYY-MM]",
		Short: "Write a department's month schedule to the schedule spreadsheet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var monthArg string
			if len(args) > 0 {
				monthArg = args[0]
			}
			month, err := parseMonth(monthArg, app.Location())
			if err != nil {
				return err
			}
			department, _ := cmd.Flags().GetString("department")

			app.Logger.Debug("publishSchedule command",
				zap.String("month", month.Format("2006-01")),
				zap.String("department", department))

			sheets, err := app.Sheets()
			if err != nil {
				return err
			}

			tab, err := services.PublishSchedule(app.Ctx, app.API, sheets, app.Logger,
				app.Cfg.ScheduleSheetID, model.ID(department), month)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Schedule published to tab %q\n", tab)
			fmt.Printf("  https://docs.google.com/spreadsheets/d/%s\n\n", app.Cfg.ScheduleSheetID)
			return nil
		},
	}

	cmd.Flags().String("department", "", "Department ID (defaults to the session department)")

	return cmd
}

// ImportStaffCmd creates the importStaff command
func ImportStaffCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "importStaff <spreadsheet_id>",
		Short: "Create employees from a staff sheet, skipping known e-mails",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, _ := cmd.Flags().GetString("tab")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			sheets, err := app.Sheets()
			if err != nil {
				return err
			}

			result, err := services.ImportStaff(app.Ctx, sheets, app.API, app.Logger, args[0], tab, dryRun)
			if err != nil {
				return err
			}

			if dryRun {
				fmt.Printf("\nDRY RUN - would create %d employees:\n", len(result.Created))
			} else {
				fmt.Printf("\n✓ Created %d employees:\n", len(result.Created))
			}
			for _, e := range result.Created {
				fmt.Printf("  ✓ %s (%s)\n", e.FullName(), e.Email)
			}

			if len(result.Skipped) > 0 {
				fmt.Printf("\nSkipped %d rows:\n", len(result.Skipped))
				for _, s := range result.Skipped {
					fmt.Printf("  - row %d %s: %s\n", s.Row.Row, s.Row.Email, s.Reason)
				}
			}

			if len(result.Failed) > 0 {
				fmt.Printf("\n⚠️  Failed to create %d employees:\n", len(result.Failed))
				for _, f := range result.Failed {
					fmt.Printf("  ✗ row %d %s: %v\n", f.Row.Row, f.Row.Email, f.Err)
				}
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("tab", "Staff", "Sheet tab holding the staff list")
	cmd.Flags().Bool("dry-run", false, "Show what would be created without creating anything")

	return cmd
}

// ExportCalendarCmd creates the exportCalendar command
func ExportCalendarCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exportCalendar",
		Short: "Export an employee's shifts and time off as an iCalendar file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employee, _ := cmd.Flags().GetString("employee")
			out, _ := cmd.Flags().GetString("out")

			export, err := services.BuildCalendarExport(app.Ctx, app.API, app.Logger, model.ID(employee), app.Location())
			if err != nil {
				return err
			}

			var events int
			err = writeFile(out, func(f *os.File) error {
				var err error
				events, err = services.ExportCalendarICS(f, *export, app.Logger)
				return err
			})
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Exported %d events to %s\n\n", events, out)
			return nil
		},
	}

	cmd.Flags().String("employee", "", "Employee ID (defaults to the session employee)")
	cmd.Flags().String("out", "shifts.ics", "Output file")

	return cmd
}

// ExportScheduleCmd creates the exportSchedule command
func ExportScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exportSchedule [YYYY-MM]",
		Short: "Export a department's month schedule as an Excel workbook",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var monthArg string
			if len(args) > 0 {
				monthArg = args[0]
			}
			month, err := parseMonth(monthArg, app.Location())
			if err != nil {
				return err
			}
			department, _ := cmd.Flags().GetString("department")
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = fmt.Sprintf("schedule-%s.xlsx", month.Format("2006-01"))
			}

			schedule, err := services.BuildMonthSchedule(app.Ctx, app.API, app.Logger, model.ID(department), month)
			if err != nil {
				return err
			}

			var sheet string
			err = writeFile(out, func(f *os.File) error {
				var err error
				sheet, err = services.ExportScheduleXLSX(f, schedule, app.Logger)
				return err
			})
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Exported %d shifts to %s (sheet %q)\n\n", len(schedule.Shifts), out, sheet)
			return nil
		},
	}

	cmd.Flags().String("department", "", "Department ID (defaults to the session department)")
	cmd.Flags().String("out", "", "Output file (defaults to schedule-YYYY-MM.xlsx)")

	return cmd
}

// writeFile creates path and hands it to write. A failed write removes the partial file.
func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
