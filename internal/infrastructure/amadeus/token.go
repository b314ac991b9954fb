package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/da7a90-backup/rihla-travel-agency/internal/domain/flight"
	"github.com/da7a90-backup/rihla-travel-agency/internal/metrics"
)

// Credential is the bearer token plus its absolute expiry. Replaced
// wholesale on every refresh.
type Credential struct {
	AccessToken string
	ExpiresAt   time.Time
}

func (c Credential) usable(now time.Time, safetyGap time.Duration) bool {
	return c.AccessToken != "" && now.Add(safetyGap).Before(c.ExpiresAt)
}

// TokenManager performs the client-credentials exchange and caches the
// result until it is within the safety gap of expiry. Concurrent callers
// during a refresh share the single outstanding request.
type TokenManager struct {
	baseURL      string
	clientID     string
	clientSecret string
	safetyGap    time.Duration

	httpClient *http.Client
	now        func() time.Time

	mu    sync.Mutex
	cred  Credential
	group singleflight.Group
}

func NewTokenManager(baseURL, clientID, clientSecret string, safetyGap time.Duration, httpClient *http.Client) *TokenManager {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TokenManager{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		safetyGap:    safetyGap,
		httpClient:   httpClient,
		now:          time.Now,
	}
}

// WithClock injects a time source for tests and returns the manager.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	m.now = now
	return m
}

// Token returns the cached credential, refreshing it first when it is
// within the safety gap of expiry. Refresh failures are not retried here;
// they surface as AuthenticationError.
func (m *TokenManager) Token(ctx context.Context) (Credential, error) {
	m.mu.Lock()
	cred := m.cred
	m.mu.Unlock()

	if cred.usable(m.now(), m.safetyGap) {
		return cred, nil
	}

	v, err, _ := m.group.Do("token", func() (any, error) {
		// Another caller may have refreshed while we waited on the group.
		m.mu.Lock()
		current := m.cred
		m.mu.Unlock()
		if current.usable(m.now(), m.safetyGap) {
			return current, nil
		}

		fresh, err := m.exchange(ctx)
		if err != nil {
			return Credential{}, err
		}

		m.mu.Lock()
		m.cred = fresh
		m.mu.Unlock()

		metrics.TokenRefreshes.Inc()
		return fresh, nil
	})
	if err != nil {
		return Credential{}, err
	}
	return v.(Credential), nil
}

func (m *TokenManager) exchange(ctx context.Context) (Credential, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {m.clientID},
		"client_secret": {m.clientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		m.baseURL+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return Credential{}, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return Credential{}, &flight.AuthenticationError{Reason: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Credential{}, &flight.AuthenticationError{Status: resp.StatusCode, Reason: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return Credential{}, &flight.AuthenticationError{
			Status: resp.StatusCode,
			Reason: strings.TrimSpace(string(body)),
		}
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return Credential{}, &flight.AuthenticationError{Status: resp.StatusCode, Reason: "malformed token response"}
	}
	if tok.AccessToken == "" {
		return Credential{}, &flight.AuthenticationError{Status: resp.StatusCode, Reason: "empty access token"}
	}

	return Credential{
		AccessToken: tok.AccessToken,
		ExpiresAt:   m.now().Add(time.Duration(tok.ExpiresIn) * time.Second),
	}, nil
}
