package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-admin/pkg/clients/apiclient"
	"github.com/jakechorley/shift-admin/pkg/core/model"
)

// ListDepartmentsCmd creates the listDepartments command
func ListDepartmentsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listDepartments",
		Short: "List the organization's departments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			departments, err := app.API.ListDepartments(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list departments: %w", err)
			}

			fmt.Printf("\nFound %d departments:\n\n", len(departments))
			for _, d := range departments {
				printNamed(d.ID, d.Name, d.Description)
			}
			fmt.Println()

			return nil
		},
	}
}

// CreateDepartmentCmd creates the createDepartment command
func CreateDepartmentCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createDepartment <name>",
		Short: "Create a department in the session organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description, _ := cmd.Flags().GetString("description")

			department, err := app.API.CreateDepartment(app.Ctx, apiclient.DepartmentRequest{
				Name:        args[0],
				Description: description,
			})
			if err != nil {
				return fmt.Errorf("failed to create department: %w", err)
			}

			app.Logger.Info("Department created", zap.String("id", department.ID.String()))
			fmt.Printf("\n✓ Department created: %s (%s)\n\n", department.Name, department.ID)
			return nil
		},
	}

	cmd.Flags().String("description", "", "Department description")

	return cmd
}

// UpdateDepartmentCmd creates the updateDepartment command
func UpdateDepartmentCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "updateDepartment <id> <name>",
		Short: "Rename a department or change its description",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			description, _ := cmd.Flags().GetString("description")

			department, err := app.API.UpdateDepartment(app.Ctx, model.ID(args[0]), apiclient.DepartmentRequest{
				Name:        args[1],
				Description: description,
			})
			if err != nil {
				return fmt.Errorf("failed to update department: %w", err)
			}

			app.Logger.Info("Department updated", zap.String("id", department.ID.String()))
			fmt.Printf("\n✓ Department updated: %s (%s)\n\n", department.Name, department.ID)
			return nil
		},
	}

	cmd.Flags().String("description", "", "Department description")

	return cmd
}

// DeleteDepartmentCmd creates the deleteDepartment command
func DeleteDepartmentCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteDepartment <id>",
		Short: "Delete a department",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.API.DeleteDepartment(app.Ctx, model.ID(args[0])); err != nil {
				return fmt.Errorf("failed to delete department: %w", err)
			}

			app.Logger.Info("Department deleted", zap.String("id", args[0]))
			fmt.Printf("\n✓ Department %s deleted\n\n", args[0])
			return nil
		},
	}
}

// ListEmployeesCmd creates the listEmployees command
func ListEmployeesCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listEmployees",
		Short: "List the organization's employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")

			employees, err := app.API.ListEmployees(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list employees: %w", err)
			}

			shown := 0
			for _, e := range employees {
				if e.Active || all {
					shown++
				}
			}

			fmt.Printf("\nFound %d employees:\n\n", shown)
			for _, e := range employees {
				if !e.Active && !all {
					continue
				}
				fmt.Printf("- %s (%s) - %s", e.FullName(), e.ID, e.Email)
				if e.Department != nil {
					fmt.Printf(" - %s", e.Department.Name)
				}
				if e.Role != nil {
					fmt.Printf(" [%s]", e.Role.Name)
				}
				if !e.Active {
					fmt.Print(colored(colorDim, " (inactive)"))
				}
				fmt.Println()
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Bool("all", false, "Include inactive employees")

	return cmd
}

// ListRolesCmd creates the listRoles command
func ListRolesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listRoles",
		Short: "List the organization's job roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			roles, err := app.API.ListRoles(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list roles: %w", err)
			}

			fmt.Printf("\nFound %d roles:\n\n", len(roles))
			for _, r := range roles {
				printNamed(r.ID, r.Name, r.Description)
			}
			fmt.Println()

			return nil
		},
	}
}

// ListSkillsCmd creates the listSkills command
func ListSkillsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listSkills",
		Short: "List the organization's skills",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			skills, err := app.API.ListSkills(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list skills: %w", err)
			}

			fmt.Printf("\nFound %d skills:\n\n", len(skills))
			for _, s := range skills {
				printNamed(s.ID, s.Name, s.Description)
			}
			fmt.Println()

			return nil
		},
	}
}

// ListContractTypesCmd creates the listContractTypes command
func ListContractTypesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listContractTypes",
		Short: "List contract types and their weekly hour bounds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			contracts, err := app.API.ListContractTypes(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list contract types: %w", err)
			}

			fmt.Printf("\nFound %d contract types:\n\n", len(contracts))
			for _, c := range contracts {
				fmt.Printf("- %s (%s) - %.1f-%.1f hours/week\n", c.Name, c.ID, c.MinHoursPerWeek, c.MaxHoursPerWeek)
			}
			fmt.Println()

			return nil
		},
	}
}

// ListAppUsersCmd creates the listAppUsers command
func ListAppUsersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listAppUsers",
		Short: "List login accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.API.ListAppUsers(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list app users: %w", err)
			}

			fmt.Printf("\nFound %d app users:\n\n", len(users))
			for _, u := range users {
				fmt.Printf("- %s (%s) - %s - %s", u.Username, u.ID, u.Email, u.UserRole)
				if u.EmployeeID != "" {
					fmt.Printf(" [employee %s]", u.EmployeeID)
				}
				fmt.Println()
			}
			fmt.Println()

			return nil
		},
	}
}

func printNamed(id model.ID, name, description string) {
	if description != "" {
		fmt.Printf("- %s (%s) - %s\n", name, id, description)
		return
	}
	fmt.Printf("- %s (%s)\n", name, id)
}
