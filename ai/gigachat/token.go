package gigachat

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// defaultTokenLifetime applies when the auth server omits expires_in.
	defaultTokenLifetime = 1800 * time.Second

	// tokenSafetyMargin is subtracted from the server-provided lifetime
	// so a token is refreshed before it actually expires mid-request.
	tokenSafetyMargin = 60 * time.Second

	authTimeout = 10 * time.Second
)

// TokenManager caches the short-lived bearer credential for the
// generation service and refreshes it on expiry. A single instance is
// shared across concurrent requests; redundant refreshes from
// concurrent callers are harmless since each one fully overwrites
// token and expiry.
type TokenManager struct {
	authEndpoint string
	key          string
	scope        string
	httpClient   *http.Client

	mu        sync.Mutex
	token     string
	expiresAt time.Time

	now func() time.Time
}

func NewTokenManager(authEndpoint, key, scope string) *TokenManager {
	return &TokenManager{
		authEndpoint: authEndpoint,
		key:          key,
		scope:        scope,
		httpClient:   &http.Client{Timeout: authTimeout},
		now:          time.Now,
	}
}

// Token returns a valid bearer token, refreshing it when the cached
// one is absent or expired. An empty string signals the caller to fall
// back; it is never a fatal condition.
func (m *TokenManager) Token(ctx context.Context) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" && m.now().Before(m.expiresAt) {
		return m.token
	}
	return m.refresh(ctx)
}

// refresh performs the client-credential exchange. The pre-shared key
// is presented as an opaque "Basic" header value (not base64 of
// user:password) and every request carries a fresh RqUID correlation
// id, per the GigaChat OAuth contract. Caller must hold m.mu.
func (m *TokenManager) refresh(ctx context.Context) string {
	if m.key == "" {
		slog.Warn("gigachat: no pre-shared key configured for token exchange")
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	form := url.Values{"scope": {m.scope}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.authEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		slog.Error("gigachat: build token request failed", "error", err)
		return ""
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("RqUID", uuid.NewString())
	req.Header.Set("Authorization", "Basic "+m.key)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		slog.Error("gigachat: token request failed", "endpoint", m.authEndpoint, "error", err)
		return ""
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.Error("gigachat: token exchange rejected",
			"status", resp.StatusCode,
			"body", string(body),
		)
		return ""
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		slog.Error("gigachat: malformed token response", "error", err)
		return ""
	}
	if payload.AccessToken == "" {
		slog.Error("gigachat: token response missing access_token")
		return ""
	}

	lifetime := defaultTokenLifetime
	if payload.ExpiresIn > 0 {
		lifetime = time.Duration(payload.ExpiresIn) * time.Second
	}
	m.token = payload.AccessToken
	m.expiresAt = m.now().Add(lifetime - tokenSafetyMargin)

	slog.Info("gigachat: token refreshed", "expires_in", lifetime.String())
	return m.token
}
