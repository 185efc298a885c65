package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-admin/cmd/cli/commands"
	"github.com/jakechorley/shift-admin/internal/config"
	"github.com/jakechorley/shift-admin/pkg/clients/apiclient"
	"github.com/jakechorley/shift-admin/pkg/core/services"
	"github.com/jakechorley/shift-admin/pkg/db"
	"github.com/jakechorley/shift-admin/pkg/postgres"
	"github.com/jakechorley/shift-admin/pkg/session"
	"github.com/jakechorley/shift-admin/pkg/utils/logging"
)

var env string

func main() {
	app := &commands.AppContext{}

	rootCmd := &cobra.Command{
		Use:   "shift-admin",
		Short: "Shift Admin CLI - Manage staff schedules",
		Long:  `A CLI tool for managing departments, staff availability, time off, shift swaps and monthly schedules.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(app)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Database != nil {
				app.Database.Close()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	// Add all commands
	rootCmd.AddCommand(commands.SessionCmd(app))
	rootCmd.AddCommand(commands.ViewCalendarCmd(app))
	rootCmd.AddCommand(commands.UpcomingShiftsCmd(app))
	rootCmd.AddCommand(commands.ScheduleHoursCmd(app))
	rootCmd.AddCommand(commands.ListAvailabilityCmd(app))
	rootCmd.AddCommand(commands.RequestAvailabilityCmd(app))
	rootCmd.AddCommand(commands.ReviewAvailabilityCmd(app))
	rootCmd.AddCommand(commands.ListTimeOffCmd(app))
	rootCmd.AddCommand(commands.RequestTimeOffCmd(app))
	rootCmd.AddCommand(commands.ReviewTimeOffCmd(app))
	rootCmd.AddCommand(commands.ListShiftSwapsCmd(app))
	rootCmd.AddCommand(commands.RequestShiftSwapCmd(app))
	rootCmd.AddCommand(commands.ReviewShiftSwapCmd(app))
	rootCmd.AddCommand(commands.ListDepartmentsCmd(app))
	rootCmd.AddCommand(commands.CreateDepartmentCmd(app))
	rootCmd.AddCommand(commands.UpdateDepartmentCmd(app))
	rootCmd.AddCommand(commands.DeleteDepartmentCmd(app))
	rootCmd.AddCommand(commands.ListEmployeesCmd(app))
	rootCmd.AddCommand(commands.ListRolesCmd(app))
	rootCmd.AddCommand(commands.ListSkillsCmd(app))
	rootCmd.AddCommand(commands.ListContractTypesCmd(app))
	rootCmd.AddCommand(commands.ListAppUsersCmd(app))
	rootCmd.AddCommand(commands.ListTemplatesCmd(app))
	rootCmd.AddCommand(commands.DraftShiftCmd(app))
	rootCmd.AddCommand(commands.DraftFromTemplateCmd(app))
	rootCmd.AddCommand(commands.ListDraftsCmd(app))
	rootCmd.AddCommand(commands.PublishShiftCmd(app))
	rootCmd.AddCommand(commands.DeleteShiftCmd(app))
	rootCmd.AddCommand(commands.PublishScheduleCmd(app))
	rootCmd.AddCommand(commands.ImportStaffCmd(app))
	rootCmd.AddCommand(commands.ExportCalendarCmd(app))
	rootCmd.AddCommand(commands.ExportScheduleCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up config, logger, session, API client and draft store.
// Google clients are created by the commands that need them.
func initApp(app *commands.AppContext) error {
	var err error
	app.Env = env
	app.Ctx = context.Background()

	// Config comes first because it carries the console log level
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app.Logger, err = logging.InitLogger(env, app.Cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))
	app.Logger.Debug("Configuration loaded successfully",
		zap.String("api_base_url", app.Cfg.APIBaseURL),
		zap.String("timezone", app.Cfg.Timezone),
		zap.Int("shift_templates", len(app.Cfg.ShiftTemplates)))

	sessionPath, err := session.DefaultFilePath(env)
	if err != nil {
		return fmt.Errorf("failed to locate session file: %w", err)
	}
	store := session.NewFileStore(sessionPath)
	app.Session = store
	app.Identity = session.NewResolver(store)
	app.Logger.Debug("Session store ready", zap.String("path", store.Path()))

	app.API, err = apiclient.New(app.Cfg.APIBaseURL, app.Identity, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	app.Database, err = openDraftStore(app.Ctx, app.Cfg, app.Logger)
	if err != nil {
		return err
	}

	app.Planner = services.NewShiftPlanner(app.Database, app.API, app.Logger)

	return nil
}

// openDraftStore connects to postgres when a database URL is configured.
// Without one, drafts live in memory and last only as long as the process (or interactive session).
func openDraftStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (db.Database, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("No databaseURL configured, drafts are kept in memory only")
		return db.NewMemoryDB(), nil
	}

	logger.Info("Connecting to database")
	pg, err := postgres.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pg.RunMigrations(ctx); err != nil {
		pg.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("Database initialized successfully")

	return pg, nil
}
