package sheetsclient

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/yyw794/badminton-score/internal/config"
)

func TestTokenStore_SaveLoadRemove(t *testing.T) {
	store := tokenStore{dir: filepath.Join(t.TempDir(), "tokens"), env: "test"}

	tok, err := store.load()
	require.NoError(t, err)
	assert.Nil(t, tok, "nothing stored yet")

	require.NoError(t, store.save(&oauth2.Token{AccessToken: "abc", RefreshToken: "r1"}))

	info, err := os.Stat(store.path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	assert.Equal(t, "token-test.json", filepath.Base(store.path()))

	tok, err = store.load()
	require.NoError(t, err)
	require.NotNil(t, tok)
	assert.Equal(t, "abc", tok.AccessToken)
	assert.Equal(t, "r1", tok.RefreshToken)

	require.NoError(t, store.remove())
	require.NoError(t, store.remove(), "removing twice is fine")

	tok, err = store.load()
	require.NoError(t, err)
	assert.Nil(t, tok)
}

func TestTokenStore_CorruptFile(t *testing.T) {
	store := tokenStore{dir: t.TempDir(), env: "test"}
	require.NoError(t, os.WriteFile(store.path(), []byte("{not json"), 0o600))

	_, err := store.load()
	assert.ErrorContains(t, err, "failed to parse token file")
}

func TestMissingScopes(t *testing.T) {
	required := []string{config.ScopeSpreadsheets, "https://www.googleapis.com/auth/drive.file"}

	assert.Empty(t, missingScopes([]string{"openid", config.ScopeSpreadsheets, "https://www.googleapis.com/auth/drive.file"}, required))
	assert.Equal(t, []string{"https://www.googleapis.com/auth/drive.file"}, missingScopes([]string{config.ScopeSpreadsheets}, required))
	assert.Equal(t, required, missingScopes(nil, required))
}

// tokenInfoServer answers tokeninfo requests with the given scope string
func tokenInfoServer(t *testing.T, scope string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("access_token") == "" {
			http.Error(w, `{"error":"invalid_token"}`, http.StatusBadRequest)
			return
		}
		fmt.Fprintf(w, `{"scope": %q, "expires_in": "3599"}`, scope)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testAuthorizer(t *testing.T, tokenInfo *httptest.Server) *authorizer {
	t.Helper()
	return &authorizer{
		oauth:        &oauth2.Config{ClientID: "client"},
		store:        tokenStore{dir: t.TempDir(), env: "test"},
		scopes:       []string{config.ScopeSpreadsheets},
		tokenInfoURL: tokenInfo.URL,
		httpClient:   tokenInfo.Client(),
		logger:       zap.NewNop(),
	}
}

func TestAuthorizer_ReusesValidToken(t *testing.T) {
	auth := testAuthorizer(t, tokenInfoServer(t, "openid "+config.ScopeSpreadsheets))
	stored := &oauth2.Token{AccessToken: "abc", Expiry: time.Now().Add(time.Hour)}
	require.NoError(t, auth.store.save(stored))

	tok, err := auth.token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", tok.AccessToken)
}

func TestAuthorizer_RejectsTokenWithoutScopes(t *testing.T) {
	auth := testAuthorizer(t, tokenInfoServer(t, "openid email"))

	_, err := auth.reuse(context.Background(), &oauth2.Token{AccessToken: "abc", Expiry: time.Now().Add(time.Hour)})
	assert.ErrorContains(t, err, "missing scopes")
}

func TestAuthorizer_ExpiredWithoutRefreshToken(t *testing.T) {
	auth := testAuthorizer(t, tokenInfoServer(t, config.ScopeSpreadsheets))

	_, err := auth.reuse(context.Background(), &oauth2.Token{AccessToken: "abc", Expiry: time.Now().Add(-time.Hour)})
	assert.ErrorContains(t, err, "no refresh token")
}

func TestAuthorizer_TokenInfoFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend unavailable", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	auth := testAuthorizer(t, srv)

	_, err := auth.grantedScopes(context.Background(), &oauth2.Token{AccessToken: "abc"})
	assert.ErrorContains(t, err, "tokeninfo returned 503")
}

func callbackListener(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return ln
}

func TestAwaitCallback_ReturnsCode(t *testing.T) {
	ln := callbackListener(t)
	url := fmt.Sprintf("http://%s%s?state=s1&code=4%%2Fabc", ln.Addr(), callbackPath)

	done := make(chan struct{})
	var code string
	var err error
	go func() {
		defer close(done)
		code, err = awaitCallback(context.Background(), ln, "s1", 5*time.Second)
	}()

	resp, getErr := http.Get(url)
	require.NoError(t, getErr)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	<-done
	require.NoError(t, err)
	assert.Equal(t, "4/abc", code)
}

func TestAwaitCallback_StateMismatch(t *testing.T) {
	ln := callbackListener(t)
	url := fmt.Sprintf("http://%s%s?state=forged&code=abc", ln.Addr(), callbackPath)

	done := make(chan error, 1)
	go func() {
		_, err := awaitCallback(context.Background(), ln, "s1", 5*time.Second)
		done <- err
	}()

	resp, err := http.Get(url)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	assert.ErrorContains(t, <-done, "state does not match")
}

func TestAwaitCallback_Timeout(t *testing.T) {
	_, err := awaitCallback(context.Background(), callbackListener(t), "s1", 50*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOAuthConfigFor(t *testing.T) {
	oauthCfg := &config.OAuthClientConfig{Installed: config.OAuthInstalled{
		ClientID:     "client-id",
		ProjectID:    "lineup",
		AuthURI:      "https://accounts.google.com/o/oauth2/auth",
		TokenURI:     "https://oauth2.googleapis.com/token",
		ClientSecret: "secret",
		RedirectURIs: []string{"http://localhost"},
	}}
	publish := config.PublishConfig{CallbackPort: 8085, Scopes: []string{"https://www.googleapis.com/auth/drive.file"}}

	cfg, err := oauthConfigFor(oauthCfg, publish)
	require.NoError(t, err)
	assert.Equal(t, "client-id", cfg.ClientID)
	assert.Equal(t, "http://localhost:8085/oauth/callback", cfg.RedirectURL)
	assert.Equal(t, []string{config.ScopeSpreadsheets, "https://www.googleapis.com/auth/drive.file"}, cfg.Scopes)
}
