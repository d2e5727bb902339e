package sheetsclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/yyw794/badminton-score/internal/config"
)

// Client publishes lineups to Google Sheets
type Client struct {
	service *sheets.Service
}

// NewClient authorizes against Google with the scopes and token directory
// from publish, running the browser consent flow when no usable token is
// stored for env.
func NewClient(ctx context.Context, oauthCfg *config.OAuthClientConfig, publish config.PublishConfig, env string, logger *zap.Logger) (*Client, error) {
	oauthConfig, err := oauthConfigFor(oauthCfg, publish)
	if err != nil {
		return nil, err
	}

	dir, err := publish.TokenDirectory()
	if err != nil {
		return nil, err
	}

	auth := &authorizer{
		oauth:        oauthConfig,
		store:        tokenStore{dir: dir, env: env},
		scopes:       publish.OAuthScopes(),
		port:         publish.RedirectPort(),
		tokenInfoURL: tokenInfoURL,
		httpClient:   http.DefaultClient,
		logger:       logger,
	}
	tok, err := auth.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth token: %w", err)
	}

	service, err := sheets.NewService(ctx, option.WithHTTPClient(oauthConfig.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{service: service}, nil
}

// oauthConfigFor builds the installed-app config, redirecting to the local callback port
func oauthConfigFor(oauthCfg *config.OAuthClientConfig, publish config.PublishConfig) (*oauth2.Config, error) {
	raw, err := json.Marshal(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal oauth config: %w", err)
	}

	cfg, err := google.ConfigFromJSON(raw, publish.OAuthScopes()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create google config: %w", err)
	}
	cfg.RedirectURL = fmt.Sprintf("http://localhost:%d%s", publish.RedirectPort(), callbackPath)
	return cfg, nil
}
