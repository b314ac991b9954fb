package amadeus

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/da7a90-backup/rihla-travel-agency/internal/infrastructure/cache"
)

func TestReferenceResolver_StaticFallback(t *testing.T) {
	r := NewReferenceResolver(nil)

	if got := r.AirlineName("AF"); got != "Air France" {
		t.Errorf("AirlineName(AF) = %q", got)
	}
	if got := r.AirlineName("af"); got != "Air France" {
		t.Errorf("lookup must be case-insensitive, got %q", got)
	}
	if got := r.CityName("NKC"); got != "Nouakchott" {
		t.Errorf("CityName(NKC) = %q", got)
	}
}

func TestReferenceResolver_UnknownCodePassesThrough(t *testing.T) {
	r := NewReferenceResolver(nil)

	if got := r.AirlineName("ZZ"); got != "ZZ" {
		t.Errorf("unknown airline = %q, want the raw code", got)
	}
	if got := r.CityName("XXX"); got != "XXX" {
		t.Errorf("unknown city = %q, want the raw code", got)
	}
	if got := r.AirlineName(""); got != "" {
		t.Errorf("empty code = %q, want empty", got)
	}
}

func TestReferenceResolver_WarmPrefersProviderNames(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/security/oauth2/token", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"tok","token_type":"Bearer","expires_in":1799}`)
	})
	mux.HandleFunc("/v1/reference-data/airlines", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[{"iataCode":"AF","businessName":"AIR FRANCE","commonName":"AIR FRANCE OFFICIAL"}]}`)
	})
	mux.HandleFunc("/v1/reference-data/locations", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("keyword") == "NKC" {
			fmt.Fprint(w, `{"data":[{"iataCode":"NKC","name":"OUMTOUNSY INTL","address":{"cityName":"NOUAKCHOTT CITY"}}]}`)
			return
		}
		fmt.Fprint(w, `{"data":[]}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(srv, cache.NewMemory(time.Minute))
	r := NewReferenceResolver(client)
	r.Warm(context.Background())

	if got := r.AirlineName("AF"); got != "Air France Official" {
		t.Errorf("warmed airline = %q, want the provider name title-cased", got)
	}
	if got := r.CityName("NKC"); got != "Nouakchott City" {
		t.Errorf("warmed city = %q, want Nouakchott City", got)
	}
	// Codes the provider did not return keep their static names.
	if got := r.AirlineName("TK"); got != "Turkish Airlines" {
		t.Errorf("unwarmed airline = %q", got)
	}
}

func TestReferenceResolver_WarmFailureDegradesQuietly(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/security/oauth2/token", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"tok","token_type":"Bearer","expires_in":1799}`)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(srv, cache.NewMemory(time.Minute))
	r := NewReferenceResolver(client)
	r.Warm(context.Background())

	if got := r.AirlineName("AF"); got != "Air France" {
		t.Errorf("failed warm must fall back to static names, got %q", got)
	}
}
