package gmailclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/jakechorley/shift-admin/internal/config"
	"github.com/jakechorley/shift-admin/pkg/utils"
)

// Client wraps the Gmail API client
type Client struct {
	service      *gmail.Service
	userID       string
	from         string
	lastSendTime time.Time
	sendMutex    sync.Mutex
}

// NewClient creates a Gmail client from a token that already carries the gmail.send scope.
// userID is the sending mailbox ("me" when empty); from, when set, becomes the From header.
func NewClient(ctx context.Context, oauthCfg *config.OAuthClientConfig, token *oauth2.Token, userID, from string) (*Client, error) {
	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth config: %w", err)
	}

	service, err := gmail.NewService(ctx, option.WithHTTPClient(oauthConfig.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	return NewClientWithService(service, userID, from), nil
}

// NewClientWithService wraps an already configured service
func NewClientWithService(service *gmail.Service, userID, from string) *Client {
	if userID == "" {
		userID = "me"
	}
	return &Client{
		service: service,
		userID:  userID,
		from:    from,
	}
}
