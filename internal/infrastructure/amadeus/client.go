package amadeus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/da7a90-backup/rihla-travel-agency/internal/domain/flight"
	"github.com/da7a90-backup/rihla-travel-agency/internal/infrastructure/cache"
	"github.com/da7a90-backup/rihla-travel-agency/internal/metrics"
)

type Config struct {
	BaseURL         string
	ClientID        string
	ClientSecret    string
	RequestCurrency string
	DisplayCurrency string
	ConversionRate  float64
	MaxResults      int
	TokenSafetyGap  time.Duration
	RequestTimeout  time.Duration
}

// Client is the only component that touches the provider wire protocol.
// It owns the token manager and consults the response cache before going
// to the network.
type Client struct {
	cfg        Config
	httpClient *http.Client
	tokens     *TokenManager
	store      cache.Store
}

func NewClient(cfg Config, store cache.Store) *Client {
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	if cfg.RequestTimeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		tokens:     NewTokenManager(cfg.BaseURL, cfg.ClientID, cfg.ClientSecret, cfg.TokenSafetyGap, httpClient),
		store:      store,
	}
}

// NewClientWithTransport lets tests swap the HTTP client and token manager.
func NewClientWithTransport(cfg Config, store cache.Store, httpClient *http.Client, tokens *TokenManager) *Client {
	return &Client{cfg: cfg, httpClient: httpClient, tokens: tokens, store: store}
}

// Search returns normalized offers for the criteria, serving repeats from
// the response cache. Offers come back in provider order.
func (c *Client) Search(ctx context.Context, criteria flight.SearchCriteria) ([]flight.Offer, error) {
	maxResults := criteria.MaxResults
	if maxResults <= 0 || maxResults > c.cfg.MaxResults {
		maxResults = c.cfg.MaxResults
	}

	key := cache.SearchKey(criteria, c.cfg.RequestCurrency, maxResults)
	if raw, ok := c.store.Get(ctx, key); ok {
		var offers []flight.Offer
		if err := json.Unmarshal(raw, &offers); err == nil {
			metrics.CacheHits.Inc()
			return offers, nil
		}
		// A corrupt entry falls through to a fresh fetch.
	}
	metrics.CacheMisses.Inc()

	cred, err := c.tokens.Token(ctx)
	if err != nil {
		metrics.SearchRequests.WithLabelValues("auth_error").Inc()
		return nil, err
	}

	params := url.Values{
		"originLocationCode":      {strings.ToUpper(criteria.Origin)},
		"destinationLocationCode": {strings.ToUpper(criteria.Destination)},
		"departureDate":           {criteria.DepartureDate.Format("2006-01-02")},
		"adults":                  {strconv.Itoa(criteria.Adults)},
		"currencyCode":            {c.cfg.RequestCurrency},
		"max":                     {strconv.Itoa(maxResults)},
	}
	if criteria.ReturnDate != nil {
		params.Set("returnDate", criteria.ReturnDate.Format("2006-01-02"))
	}
	if criteria.TravelClass != "" {
		params.Set("travelClass", strings.ToUpper(criteria.TravelClass))
	}
	if criteria.NonStop {
		params.Set("nonStop", "true")
	}

	body, err := c.get(ctx, "/v2/shopping/flight-offers?"+params.Encode(), cred)
	if err != nil {
		if flight.IsRateLimit(err) {
			metrics.SearchRequests.WithLabelValues("rate_limited").Inc()
		} else {
			metrics.SearchRequests.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	var parsed offersResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		metrics.SearchRequests.WithLabelValues("error").Inc()
		return nil, &flight.UpstreamUnavailableError{Status: http.StatusOK, Cause: fmt.Errorf("malformed search response: %w", err)}
	}

	offers := c.normalize(parsed.Data)
	metrics.SearchRequests.WithLabelValues("ok").Inc()

	if encoded, err := json.Marshal(offers); err == nil {
		c.store.Set(ctx, key, encoded)
	}

	return offers, nil
}

func (c *Client) get(ctx context.Context, path string, cred Credential) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, &flight.UpstreamUnavailableError{Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)
	req.Header.Set("Accept", "application/json")

	return c.do(req)
}

func (c *Client) postJSON(ctx context.Context, path string, cred Credential, payload any) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, &flight.UpstreamUnavailableError{Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(req)
}

// do executes the request and maps the provider's status codes onto the
// engine's error taxonomy: 429 rate limit, other 4xx invalid request,
// 5xx and transport failures upstream unavailable.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &flight.UpstreamUnavailableError{Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, &flight.UpstreamUnavailableError{Status: resp.StatusCode, Cause: err}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		metrics.RateLimitHits.Inc()
		return nil, &flight.RateLimitError{RetryAfter: retryAfter(resp)}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var parsed errorResponse
		_ = json.Unmarshal(body, &parsed)
		return nil, &flight.InvalidRequestError{Status: resp.StatusCode, Detail: parsed.detail()}
	default:
		slog.Warn("provider request failed", "status", resp.StatusCode, "path", req.URL.Path)
		return nil, &flight.UpstreamUnavailableError{Status: resp.StatusCode}
	}
}

func retryAfter(resp *http.Response) time.Duration {
	raw := resp.Header.Get("Retry-After")
	if raw == "" {
		return 0
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// OrderRequest creates a hold with the provider. FlightOffers carries the
// priced offer payloads untouched, the way the order endpoint expects them.
type OrderRequest struct {
	FlightOffers []json.RawMessage `json:"flightOffers"`
	Travelers    []Traveler        `json:"travelers"`
}

// CreateOrder places a hold for the given offers and travelers. Called by
// the booking/admin side, never by the search path.
func (c *Client) CreateOrder(ctx context.Context, order OrderRequest) (*Order, error) {
	cred, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"data": map[string]any{
			"type":         "flight-order",
			"flightOffers": order.FlightOffers,
			"travelers":    order.Travelers,
		},
	}

	body, err := c.postJSON(ctx, "/v1/booking/flight-orders", cred, payload)
	if err != nil {
		return nil, err
	}
	return parseOrder(body)
}

// GetOrder retrieves the booking/ticket detail for a held or ticketed order.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	cred, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	body, err := c.get(ctx, "/v1/booking/flight-orders/"+url.PathEscape(orderID), cred)
	if err != nil {
		return nil, err
	}
	return parseOrder(body)
}

// IssueOrder confirms a hold into a ticketed booking.
func (c *Client) IssueOrder(ctx context.Context, orderID string) (*Order, error) {
	cred, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	body, err := c.postJSON(ctx, "/v1/booking/flight-orders/"+url.PathEscape(orderID)+"/issuance", cred, struct{}{})
	if err != nil {
		return nil, err
	}
	return parseOrder(body)
}

func parseOrder(body []byte) (*Order, error) {
	var envelope orderEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("malformed order response: %w", err)
	}
	var data orderData
	if err := json.Unmarshal(envelope.Data, &data); err != nil || data.ID == "" {
		return nil, fmt.Errorf("order response missing id")
	}
	return &Order{ID: data.ID, Payload: envelope.Data}, nil
}
