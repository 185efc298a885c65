package commands

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-admin/pkg/core/calendar"
	"github.com/jakechorley/shift-admin/pkg/core/model"
	"github.com/jakechorley/shift-admin/pkg/core/services"
)

const (
	dayColWidth    = 18
	maxDayEntries  = 3
	weekdayHeaders = "Sun Mon Tue Wed Thu Fri Sat"
)

// ViewCalendarCmd creates the viewCalendar command
func ViewCalendarCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viewCalendar [YYYY-MM]",
		Short: "Show a month of shifts, availability, time off and drafts",
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
			employee, _ := cmd.Flags().GetString("employee")
			noDrafts, _ := cmd.Flags().GetBool("no-drafts")

			app.Logger.Debug("viewCalendar command",
				zap.String("month", month.Format("2006-01")),
				zap.Bool("no_drafts", noDrafts))

			var drafts services.DraftLister
			if !noDrafts {
				drafts = app.Database
			}

			result, err := services.ViewCalendar(app.Ctx, app.API, drafts, app.Logger, services.CalendarParams{
				Month:        month,
				DepartmentID: model.ID(department),
				EmployeeID:   model.ID(employee),
			})
			if err != nil {
				return err
			}

			renderMonth(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().String("department", "", "Department ID (defaults to the session department)")
	cmd.Flags().String("employee", "", "Employee ID (defaults to the session employee)")
	cmd.Flags().Bool("no-drafts", false, "Hide local draft shifts")

	return cmd
}

// renderMonth draws the calendar as a seven column grid with a legend
func renderMonth(w io.Writer, result *services.CalendarResult) {
	month := result.Month
	fmt.Fprintf(w, "\n%s %d\n\n", month.Month, month.Year)

	for _, name := range strings.Fields(weekdayHeaders) {
		fmt.Fprint(w, padRight(name, dayColWidth))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", dayColWidth*7))

	for _, week := range month.Weeks() {
		for _, day := range week {
			label := strconv.Itoa(day.Date.Day())
			if day.InMonth {
				fmt.Fprint(w, padRight(label, dayColWidth))
			} else {
				fmt.Fprint(w, colored(colorDim, padRight(label, dayColWidth)))
			}
		}
		fmt.Fprintln(w)

		for line := 0; line < maxDayEntries; line++ {
			if !weekHasLine(week, line) {
				break
			}
			for _, day := range week {
				fmt.Fprint(w, dayCellLine(day, line))
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, strings.Repeat("-", dayColWidth*7))
	}

	if len(result.Errors) > 0 {
		sources := make([]string, 0, len(result.Errors))
		for source := range result.Errors {
			sources = append(sources, string(source))
		}
		sort.Strings(sources)
		fmt.Fprintln(w)
		for _, source := range sources {
			fmt.Fprintf(w, "⚠️  Could not load %s: %v\n", source, result.Errors[services.CalendarSource(source)])
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Legend:")
	fmt.Fprintf(w, "  %s = published shift\n", colored(colorGreen, "shift"))
	fmt.Fprintf(w, "  %s = draft shift\n", colored(colorYellow, "draft"))
	fmt.Fprintf(w, "  %s = availability\n", colored(colorCyan, "available"))
	fmt.Fprintf(w, "  %s = unavailable\n", colored(colorRed, "unavailable"))
	fmt.Fprintf(w, "  %s = time off\n", colored(colorMagenta, "time off"))
	fmt.Fprintf(w, "  %s = cancelled or rejected\n", colored(colorDim, "dimmed"))
}

func weekHasLine(week []calendar.Day, line int) bool {
	for _, day := range week {
		if len(day.Entries) > line {
			return true
		}
	}
	return false
}

// dayCellLine renders one line of a day cell. The last line becomes "+N more" when the day overflows.
func dayCellLine(day calendar.Day, line int) string {
	if line >= len(day.Entries) {
		return strings.Repeat(" ", dayColWidth)
	}
	if line == maxDayEntries-1 && len(day.Entries) > maxDayEntries {
		more := fmt.Sprintf("+%d more", len(day.Entries)-line)
		return colored(colorDim, padRight(more, dayColWidth-1)) + " "
	}
	entry := day.Entries[line]
	return colored(entryColor(entry), padRight(entryLabel(entry), dayColWidth-1)) + " "
}

// UpcomingShiftsCmd creates the upcomingShifts command
func UpcomingShiftsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upcomingShifts",
		Short: "List an employee's assigned shifts in the coming days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employee, _ := cmd.Flags().GetString("employee")
			days, _ := cmd.Flags().GetInt("days")
			if days == 0 {
				days = app.Cfg.UpcomingWindowDays
			}

			app.Logger.Debug("upcomingShifts command", zap.String("employee", employee), zap.Int("days", days))

			shifts, err := services.UpcomingShifts(app.Ctx, app.API, app.Logger, model.ID(employee), app.Today(), days)
			if err != nil {
				return err
			}

			if len(shifts) == 0 {
				fmt.Printf("\nNo shifts in the next %d days.\n\n", days)
				return nil
			}

			fmt.Printf("\nUpcoming shifts (next %d days):\n\n", days)
			for _, s := range shifts {
				day, err := calendar.ParseRecordDate(s.Date, app.Location())
				if err != nil {
					continue
				}
				fmt.Printf("  %s  %s\n", day.Format("Mon 02 Jan"), colored(entryColor(s), s.Label()))
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("employee", "", "Employee ID (defaults to the session employee)")
	cmd.Flags().Int("days", 0, "Window length in days (defaults to upcomingWindowDays from config)")

	return cmd
}

// ScheduleHoursCmd creates the scheduleHours command
func ScheduleHoursCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scheduleHours <from> <to>",
		Short: "Total an employee's scheduled hours between two dates (inclusive)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseDate(args[0], app.Location())
			if err != nil {
				return err
			}
			to, err := parseDate(args[1], app.Location())
			if err != nil {
				return err
			}
			employee, _ := cmd.Flags().GetString("employee")

			result, err := services.ScheduleHours(app.Ctx, app.API, app.Logger, model.ID(employee), from, to)
			if err != nil {
				return err
			}

			name := "Employee"
			if result.Employee != nil {
				name = result.Employee.FullName()
			}

			fmt.Printf("\n%s: %.2f hours from %s to %s\n",
				name, result.Hours, result.From.Format("2006-01-02"), result.To.Format("2006-01-02"))

			if result.HasContract {
				color := colorGreen
				if result.ContractStatus() != "within" {
					color = colorRed
				}
				fmt.Printf("Contract: %.1f-%.1f hours over %.1f weeks (%s)\n",
					result.MinHours, result.MaxHours, result.Weeks, colored(color, result.ContractStatus()))
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("employee", "", "Employee ID (defaults to the session employee)")

	return cmd
}
