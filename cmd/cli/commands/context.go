package commands

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-admin/internal/config"
	"github.com/jakechorley/shift-admin/pkg/clients/apiclient"
	"github.com/jakechorley/shift-admin/pkg/clients/gmailclient"
	"github.com/jakechorley/shift-admin/pkg/clients/sheetsclient"
	"github.com/jakechorley/shift-admin/pkg/core/calendar"
	"github.com/jakechorley/shift-admin/pkg/core/services"
	"github.com/jakechorley/shift-admin/pkg/db"
	"github.com/jakechorley/shift-admin/pkg/session"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Env      string
	Cfg      *config.Config
	Session  session.Store
	Identity *session.Resolver
	API      *apiclient.Client
	Database db.Database
	Planner  *services.ShiftPlanner
	Logger   *zap.Logger
	Ctx      context.Context

	// Google clients are only needed by a few commands, so the OAuth flow runs on first use
	oauthCfg     *config.OAuthClientConfig
	sheetsClient *sheetsclient.Client
	gmailClient  *gmailclient.Client
}

// Sheets returns the sheets client, authenticating with Google on first use
func (a *AppContext) Sheets() (*sheetsclient.Client, error) {
	if a.sheetsClient != nil {
		return a.sheetsClient, nil
	}

	if a.oauthCfg == nil {
		a.Logger.Info("Loading OAuth client configuration")
		oauthCfg, err := config.LoadOAuthClientWithEnv(a.Env)
		if err != nil {
			return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
		}
		a.oauthCfg = oauthCfg
	}

	a.Logger.Info("Initializing sheets client")
	client, err := sheetsclient.NewClient(a.Ctx, a.oauthCfg, a.Env, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	a.sheetsClient = client
	a.Logger.Debug("Sheets client initialized successfully")

	return a.sheetsClient, nil
}

// Gmail returns the gmail client. It shares the sheets client's OAuth token.
func (a *AppContext) Gmail() (*gmailclient.Client, error) {
	if a.gmailClient != nil {
		return a.gmailClient, nil
	}

	sheets, err := a.Sheets()
	if err != nil {
		return nil, err
	}

	a.Logger.Info("Initializing gmail client")
	client, err := gmailclient.NewClient(a.Ctx, a.oauthCfg, sheets.Token(), a.Cfg.GmailUserID, a.Cfg.GmailSender)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail client: %w", err)
	}
	a.gmailClient = client
	a.Logger.Debug("Gmail client initialized successfully")

	return a.gmailClient, nil
}

// Notifier returns the review notifier, or nil when e-mail is disabled or unavailable.
// The result is an untyped nil so services can compare it against nil.
func (a *AppContext) Notifier(noEmail bool) services.Notifier {
	if noEmail || a.Cfg.GmailSender == "" {
		return nil
	}

	client, err := a.Gmail()
	if err != nil {
		a.Logger.Warn("E-mail notifications disabled", zap.Error(err))
		return nil
	}
	return client
}

// Location is the display zone for dates
func (a *AppContext) Location() *time.Location {
	return a.Cfg.Location()
}

// Today is the start of today in the display zone
func (a *AppContext) Today() time.Time {
	return calendar.StartOfDay(time.Now().In(a.Location()))
}
