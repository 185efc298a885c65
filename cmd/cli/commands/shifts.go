package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-admin/pkg/core/model"
	"github.com/jakechorley/shift-admin/pkg/core/services"
	"github.com/jakechorley/shift-admin/pkg/db"
)

// DraftShiftCmd creates the draftShift command
func DraftShiftCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draftShift <date> <start> <end> <shift_type>",
		Short: "Create a local draft shift (publish it with publishShift)",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			department, _ := cmd.Flags().GetString("department")
			role, _ := cmd.Flags().GetString("role")
			count, _ := cmd.Flags().GetInt("count")
			notes, _ := cmd.Flags().GetString("notes")

			if department == "" {
				department, _ = app.Identity.DepartmentID()
			}

			draft, err := app.Planner.CreateDraft(app.Ctx, services.DraftInput{
				Date:           args[0],
				StartTime:      args[1],
				EndTime:        args[2],
				ShiftType:      args[3],
				DepartmentID:   model.ID(department),
				RequiredRoleID: model.ID(role),
				RequiredCount:  count,
				Notes:          notes,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Draft created!\n\n")
			fmt.Printf("Draft ID: %s\n", draft.ID)
			fmt.Printf("Shift:    %s %s\n\n", draft.Date, draft.Shift().Label())
			return nil
		},
	}

	cmd.Flags().String("department", "", "Department ID (defaults to the session department)")
	cmd.Flags().String("role", "", "Required role ID")
	cmd.Flags().Int("count", 1, "Number of staff required")
	cmd.Flags().String("notes", "", "Notes shown on the shift")

	return cmd
}

// DraftFromTemplateCmd creates the draftFromTemplate command
func DraftFromTemplateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draftFromTemplate <template> <from> <to>",
		Short: "Create drafts for every occurrence of a configured shift template",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, ok := app.Cfg.Template(args[0])
			if !ok {
				return fmt.Errorf("unknown shift template: %s (see listTemplates)", args[0])
			}
			from, err := parseDate(args[1], time.UTC)
			if err != nil {
				return err
			}
			to, err := parseDate(args[2], time.UTC)
			if err != nil {
				return err
			}
			department, _ := cmd.Flags().GetString("department")

			drafts, err := app.Planner.DraftsFromTemplate(app.Ctx, *tmpl, from, to, model.ID(department))
			if err != nil {
				return err
			}

			if len(drafts) == 0 {
				fmt.Printf("\nTemplate %s has no occurrences between %s and %s.\n\n", tmpl.Name, args[1], args[2])
				return nil
			}

			fmt.Printf("\n✓ %d drafts created from template %s\n\n", len(drafts), tmpl.Name)
			fmt.Printf("Batch ID: %s\n\n", drafts[0].BatchID)
			printDrafts(drafts)
			fmt.Printf("\nPublish them all with: publishShift --batch %s\n\n", drafts[0].BatchID)
			return nil
		},
	}

	cmd.Flags().String("department", "", "Department ID (overrides the template's department)")

	return cmd
}

// ListTemplatesCmd creates the listTemplates command
func ListTemplatesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listTemplates",
		Short: "List the shift templates from the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("\nFound %d shift templates:\n\n", len(app.Cfg.ShiftTemplates))
			for _, t := range app.Cfg.ShiftTemplates {
				fmt.Printf("- %-20s %s %s-%s x%d  %s\n", t.Name, t.ShiftType, t.StartTime, t.EndTime, t.RequiredCount, t.RRule)
			}
			fmt.Println()
			return nil
		},
	}
}

// ListDraftsCmd creates the listDrafts command
func ListDraftsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listDrafts",
		Short: "List local draft shifts that have not been published",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			drafts, err := app.Planner.ListDrafts(app.Ctx)
			if err != nil {
				return err
			}

			if len(drafts) == 0 {
				fmt.Println("\nNo drafts.")
				fmt.Println()
				return nil
			}

			fmt.Printf("\nFound %d drafts:\n\n", len(drafts))
			printDrafts(drafts)
			fmt.Println()
			return nil
		},
	}
}

func printDrafts(drafts []db.Draft) {
	for _, d := range drafts {
		fmt.Printf("  %s  %s  %s", d.ID, d.Date, d.Shift().Label())
		if d.TemplateName != "" {
			fmt.Print(colored(colorDim, " ("+d.TemplateName+")"))
		}
		fmt.Println()
	}
}

// PublishShiftCmd creates the publishShift command
func PublishShiftCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publishShift [draft_id]",
		Short: "Publish a draft shift, or a whole template batch with --batch",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, _ := cmd.Flags().GetString("batch")

			switch {
			case batch != "" && len(args) > 0:
				return fmt.Errorf("give either a draft id or --batch, not both")
			case batch != "":
				app.Logger.Debug("publishShift command", zap.String("batch_id", batch))
				published, err := app.Planner.PublishBatch(app.Ctx, batch)
				for _, s := range published {
					fmt.Printf("  ✓ %s %s (shift %s)\n", s.Date, s.Label(), s.ID)
				}
				if err != nil {
					if len(published) > 0 {
						fmt.Printf("\n⚠️  Stopped after %d shifts\n", len(published))
					}
					return err
				}
				fmt.Printf("\n✓ Published %d shifts\n\n", len(published))
				return nil
			case len(args) == 1:
				app.Logger.Debug("publishShift command", zap.String("draft_id", args[0]))
				shift, err := app.Planner.PublishDraft(app.Ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Printf("\n✓ Published %s %s (shift %s)\n\n", shift.Date, shift.Label(), shift.ID)
				return nil
			default:
				return fmt.Errorf("a draft id or --batch is required")
			}
		},
	}

	cmd.Flags().String("batch", "", "Publish every draft of a template batch")

	return cmd
}

// DeleteShiftCmd creates the deleteShift command
func DeleteShiftCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteShift <id>",
		Short: "Delete a draft locally, or a published shift from the backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := app.Planner.DeleteShift(app.Ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Deleted %s shift %s\n\n", status, args[0])
			return nil
		},
	}
}
