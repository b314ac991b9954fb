package amadeus

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"
	"sync"
)

// ReferenceResolver maps airline and location codes to display names. The
// in-memory cache is warmed best-effort from the provider's reference
// endpoints; misses fall back to the static table and finally to the raw
// code. Resolution never fails its caller.
type ReferenceResolver struct {
	client *Client

	mu        sync.RWMutex
	airlines  map[string]string
	locations map[string]string
}

func NewReferenceResolver(client *Client) *ReferenceResolver {
	return &ReferenceResolver{
		client:    client,
		airlines:  make(map[string]string),
		locations: make(map[string]string),
	}
}

// Warm loads the reference caches for the carriers and markets in the
// static table. Failures are logged and swallowed; the resolver degrades
// to the static names.
func (r *ReferenceResolver) Warm(ctx context.Context) {
	r.warmAirlines(ctx)
	r.warmLocations(ctx)
}

func (r *ReferenceResolver) warmAirlines(ctx context.Context) {
	codes := make([]string, 0, len(staticAirlineNames))
	for code := range staticAirlineNames {
		codes = append(codes, code)
	}

	cred, err := r.client.tokens.Token(ctx)
	if err != nil {
		slog.WarnContext(ctx, "airline reference warm skipped", "error", err)
		return
	}

	body, err := r.client.get(ctx,
		"/v1/reference-data/airlines?airlineCodes="+url.QueryEscape(strings.Join(codes, ",")), cred)
	if err != nil {
		slog.WarnContext(ctx, "airline reference load failed", "error", err)
		return
	}

	var parsed referenceResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		slog.WarnContext(ctx, "airline reference response malformed", "error", err)
		return
	}

	r.mu.Lock()
	for _, entry := range parsed.Data {
		name := entry.CommonName
		if name == "" {
			name = entry.BusinessName
		}
		if entry.IataCode != "" && name != "" {
			r.airlines[strings.ToUpper(entry.IataCode)] = titleCase(name)
		}
	}
	r.mu.Unlock()
}

func (r *ReferenceResolver) warmLocations(ctx context.Context) {
	cred, err := r.client.tokens.Token(ctx)
	if err != nil {
		slog.WarnContext(ctx, "location reference warm skipped", "error", err)
		return
	}

	for code := range staticCityNames {
		body, err := r.client.get(ctx,
			"/v1/reference-data/locations?subType=AIRPORT,CITY&keyword="+url.QueryEscape(code), cred)
		if err != nil {
			slog.WarnContext(ctx, "location reference load failed", "code", code, "error", err)
			continue
		}

		var parsed referenceResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			continue
		}

		r.mu.Lock()
		for _, entry := range parsed.Data {
			name := entry.Address.CityName
			if name == "" {
				name = entry.Name
			}
			if entry.IataCode != "" && name != "" {
				r.locations[strings.ToUpper(entry.IataCode)] = titleCase(name)
			}
		}
		r.mu.Unlock()
	}
}

// AirlineName resolves a carrier code, falling back to the static table and
// then to the code itself.
func (r *ReferenceResolver) AirlineName(code string) string {
	key := strings.ToUpper(strings.TrimSpace(code))
	if key == "" {
		return code
	}

	r.mu.RLock()
	name, ok := r.airlines[key]
	r.mu.RUnlock()
	if ok {
		return name
	}
	if name, ok := staticAirlineNames[key]; ok {
		return name
	}
	return code
}

// CityName resolves an airport or city code the same way.
func (r *ReferenceResolver) CityName(code string) string {
	key := strings.ToUpper(strings.TrimSpace(code))
	if key == "" {
		return code
	}

	r.mu.RLock()
	name, ok := r.locations[key]
	r.mu.RUnlock()
	if ok {
		return name
	}
	if name, ok := staticCityNames[key]; ok {
		return name
	}
	return code
}

// titleCase tidies the provider's ALL-CAPS reference names.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
