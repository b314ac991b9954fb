package amadeus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/da7a90-backup/rihla-travel-agency/internal/domain/flight"
)

func tokenServer(t *testing.T, exchanges *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/security/oauth2/token" {
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		n := exchanges.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"tok-%d","token_type":"Bearer","expires_in":1799}`, n)
	}))
}

func TestTokenManager_ReusesTokenUntilSafetyGap(t *testing.T) {
	var exchanges atomic.Int32
	srv := tokenServer(t, &exchanges)
	defer srv.Close()

	now := time.Now()
	m := NewTokenManager(srv.URL, "id", "secret", 60*time.Second, srv.Client()).
		WithClock(func() time.Time { return now })

	first, err := m.Token(context.Background())
	if err != nil {
		t.Fatalf("first Token: %v", err)
	}
	second, err := m.Token(context.Background())
	if err != nil {
		t.Fatalf("second Token: %v", err)
	}
	if got := exchanges.Load(); got != 1 {
		t.Fatalf("expected 1 exchange for back-to-back calls, got %d", got)
	}
	if first.AccessToken != second.AccessToken {
		t.Fatal("cached call returned a different token")
	}

	// Move the clock inside the safety gap; the next call must refresh.
	now = now.Add(1799*time.Second - 30*time.Second)
	third, err := m.Token(context.Background())
	if err != nil {
		t.Fatalf("third Token: %v", err)
	}
	if got := exchanges.Load(); got != 2 {
		t.Fatalf("expected refresh inside safety gap, got %d exchanges", got)
	}
	if third.AccessToken == first.AccessToken {
		t.Fatal("refresh returned the stale token")
	}
}

func TestTokenManager_ConcurrentCallersShareOneExchange(t *testing.T) {
	var exchanges atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		exchanges.Add(1)
		time.Sleep(20 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"tok","token_type":"Bearer","expires_in":1799}`)
	}))
	defer srv.Close()

	m := NewTokenManager(srv.URL, "id", "secret", 60*time.Second, srv.Client())

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Token(context.Background()); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("Token: %v", err)
	}

	if got := exchanges.Load(); got != 1 {
		t.Fatalf("expected a single shared exchange, got %d", got)
	}
}

func TestTokenManager_FailureIsAuthenticationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid_client"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	m := NewTokenManager(srv.URL, "id", "wrong", 60*time.Second, srv.Client())

	_, err := m.Token(context.Background())
	var authErr *flight.AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthenticationError, got %v", err)
	}
	if authErr.Status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", authErr.Status)
	}
}
