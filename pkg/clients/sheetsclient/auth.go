package sheetsclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	callbackPath = "/oauth/callback"
	tokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"
	authTimeout  = 5 * time.Minute
)

// tokenStore keeps one token file per environment, readable by the owner only
type tokenStore struct {
	dir string
	env string
}

func (s tokenStore) path() string {
	return filepath.Join(s.dir, "token-"+s.env+".json")
}

// load returns nil without error when nothing has been stored yet
func (s tokenStore) load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("failed to parse token file %s: %w", s.path(), err)
	}
	return &tok, nil
}

func (s tokenStore) save(tok *oauth2.Token) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	if err := os.WriteFile(s.path(), data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

func (s tokenStore) remove() error {
	if err := os.Remove(s.path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete token file: %w", err)
	}
	return nil
}

// authorizer hands out a token granting every publishing scope. A stored
// token is reused while it refreshes and still carries the scopes; otherwise
// the browser consent flow runs once and its token replaces the stored one.
type authorizer struct {
	oauth        *oauth2.Config
	store        tokenStore
	scopes       []string
	port         int
	tokenInfoURL string
	httpClient   *http.Client
	logger       *zap.Logger
}

func (a *authorizer) token(ctx context.Context) (*oauth2.Token, error) {
	stored, err := a.store.load()
	if err != nil {
		a.logger.Warn("Ignoring unreadable stored token", zap.Error(err))
	}

	if stored != nil {
		tok, err := a.reuse(ctx, stored)
		if err == nil {
			return tok, nil
		}
		a.logger.Info("Stored token cannot be reused, authorizing again", zap.Error(err))
		if err := a.store.remove(); err != nil {
			a.logger.Warn("Failed to delete stale token", zap.Error(err))
		}
	}

	return a.authorize(ctx)
}

// reuse refreshes an expired token and confirms the result still grants the scopes
func (a *authorizer) reuse(ctx context.Context, stored *oauth2.Token) (*oauth2.Token, error) {
	tok := stored
	if !tok.Valid() {
		if tok.RefreshToken == "" {
			return nil, errors.New("stored token has expired and has no refresh token")
		}
		refreshed, err := a.oauth.TokenSource(ctx, tok).Token()
		if err != nil {
			return nil, fmt.Errorf("failed to refresh token: %w", err)
		}
		tok = refreshed
	}

	if err := a.checkScopes(ctx, tok); err != nil {
		return nil, err
	}

	if tok != stored {
		a.logger.Debug("Token refreshed")
		if err := a.store.save(tok); err != nil {
			a.logger.Warn("Failed to store refreshed token", zap.Error(err))
		}
	}
	return tok, nil
}

func (a *authorizer) authorize(ctx context.Context) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", a.port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen for the OAuth callback: %w", err)
	}

	state := uuid.NewString()
	fmt.Printf("\nVisit this URL to allow publishing lineups to Google Sheets:\n%s\n\n",
		a.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline))

	code, err := awaitCallback(ctx, ln, state, authTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to get authorization code: %w", err)
	}

	tok, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}
	if err := a.checkScopes(ctx, tok); err != nil {
		return nil, fmt.Errorf("%w; grant every requested permission on the consent screen", err)
	}

	if err := a.store.save(tok); err != nil {
		a.logger.Warn("Failed to store token, the next run will authorize again", zap.Error(err))
	}
	return tok, nil
}

func (a *authorizer) checkScopes(ctx context.Context, tok *oauth2.Token) error {
	granted, err := a.grantedScopes(ctx, tok)
	if err != nil {
		return err
	}
	if missing := missingScopes(granted, a.scopes); len(missing) > 0 {
		return fmt.Errorf("token is missing scopes %v", missing)
	}
	return nil
}

// grantedScopes asks the tokeninfo endpoint which scopes the access token carries
func (a *authorizer) grantedScopes(ctx context.Context, tok *oauth2.Token) ([]string, error) {
	endpoint := a.tokenInfoURL + "?" + url.Values{"access_token": {tok.AccessToken}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create tokeninfo request: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call tokeninfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tokeninfo returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var info struct {
		Scope string `json:"scope"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode tokeninfo response: %w", err)
	}
	return strings.Fields(info.Scope), nil
}

func missingScopes(granted, required []string) []string {
	var missing []string
	for _, s := range required {
		if !slices.Contains(granted, s) {
			missing = append(missing, s)
		}
	}
	return missing
}

const consentPage = `<html><head><title>Lineup publishing allowed</title></head>
<body><h1>Publishing allowed</h1><p>You can close this window and return to the terminal.</p></body></html>`

// awaitCallback serves the redirect target on ln until Google sends the
// authorization code back with the expected state, or the wait is abandoned.
func awaitCallback(ctx context.Context, ln net.Listener, state string, timeout time.Duration) (string, error) {
	type result struct {
		code string
		err  error
	}
	done := make(chan result, 1)
	deliver := func(r result) {
		select {
		case done <- r:
		default:
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("state") != state:
			http.Error(w, "state mismatch", http.StatusBadRequest)
			deliver(result{err: errors.New("callback state does not match the request")})
		case q.Get("error") != "":
			http.Error(w, "authorization denied", http.StatusForbidden)
			deliver(result{err: fmt.Errorf("authorization denied: %s", q.Get("error"))})
		case q.Get("code") == "":
			http.Error(w, "missing code", http.StatusBadRequest)
			deliver(result{err: errors.New("no authorization code received")})
		default:
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			io.WriteString(w, consentPage)
			deliver(result{code: q.Get("code")})
		}
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			deliver(result{err: fmt.Errorf("callback server: %w", err)})
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case r := <-done:
		return r.code, r.err
	case <-waitCtx.Done():
		return "", fmt.Errorf("no authorization within %v: %w", timeout, waitCtx.Err())
	}
}
