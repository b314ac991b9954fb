package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/da7a90-backup/rihla-travel-agency/internal/domain/calendar"
	"github.com/da7a90-backup/rihla-travel-agency/internal/domain/flight"
	"github.com/da7a90-backup/rihla-travel-agency/internal/infrastructure/postgres"
	"github.com/da7a90-backup/rihla-travel-agency/internal/usecase"
)

// Resolver is the reference-data lookup the handlers expose.
type Resolver interface {
	AirlineName(code string) string
	CityName(code string) string
}

type Handlers struct {
	searchUC  *usecase.Search
	scheduler *usecase.Scheduler
	bookings  *usecase.Bookings
	resolver  Resolver
}

func NewHandlers(searchUC *usecase.Search, scheduler *usecase.Scheduler, bookings *usecase.Bookings, resolver Resolver) *Handlers {
	return &Handlers{
		searchUC:  searchUC,
		scheduler: scheduler,
		bookings:  bookings,
		resolver:  resolver,
	}
}

type searchRequest struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
	ReturnDate    string `json:"return_date,omitempty"`
	Adults        int    `json:"adults"`
	TravelClass   string `json:"travel_class,omitempty"`
	NonStop       bool   `json:"non_stop,omitempty"`
	MaxResults    int    `json:"max_results,omitempty"`
}

func (h *Handlers) SearchFlights(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	criteria, err := req.toCriteria()
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := h.searchUC.Execute(r.Context(), criteria)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

func (req searchRequest) toCriteria() (flight.SearchCriteria, error) {
	if len(req.Origin) != 3 || len(req.Destination) != 3 {
		return flight.SearchCriteria{}, fmt.Errorf("origin and destination must be 3-letter codes")
	}

	departure, err := time.Parse("2006-01-02", req.DepartureDate)
	if err != nil {
		return flight.SearchCriteria{}, fmt.Errorf("departure_date must be YYYY-MM-DD")
	}

	adults := req.Adults
	if adults <= 0 {
		adults = 1
	}

	criteria := flight.SearchCriteria{
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: departure,
		Adults:        adults,
		TravelClass:   req.TravelClass,
		NonStop:       req.NonStop,
		MaxResults:    req.MaxResults,
	}

	if req.ReturnDate != "" {
		ret, err := time.Parse("2006-01-02", req.ReturnDate)
		if err != nil {
			return flight.SearchCriteria{}, fmt.Errorf("return_date must be YYYY-MM-DD")
		}
		if ret.Before(departure) {
			return flight.SearchCriteria{}, fmt.Errorf("return_date is before departure_date")
		}
		criteria.ReturnDate = &ret
	}

	return criteria, nil
}

// Calendar streams per-day prices for a month as server-sent events, one
// event per resolved day. The scheduler paces the provider calls; a closed
// connection cancels the scan through the request context.
func (h *Handlers) Calendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	origin := q.Get("origin")
	destination := q.Get("destination")
	if len(origin) != 3 || len(destination) != 3 {
		writeJSONError(w, http.StatusBadRequest, "origin and destination must be 3-letter codes")
		return
	}

	month, err := time.Parse("2006-01", q.Get("month"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "month must be YYYY-MM")
		return
	}

	adults := 1
	if raw := q.Get("adults"); raw != "" {
		if _, err := fmt.Sscanf(raw, "%d", &adults); err != nil || adults <= 0 {
			writeJSONError(w, http.StatusBadRequest, "adults must be a positive integer")
			return
		}
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	criteria := flight.SearchCriteria{
		Origin:      origin,
		Destination: destination,
		Adults:      adults,
	}
	days := usecase.MonthDays(month.Year(), month.Month())

	runErr := h.scheduler.Run(r.Context(), days, criteria, func(day calendar.DayPrice) {
		payload, err := json.Marshal(day)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "event: day\ndata: %s\n\n", payload)
		flusher.Flush()
	})
	if runErr != nil && !errors.Is(runErr, r.Context().Err()) {
		fmt.Fprintf(w, "event: error\ndata: %q\n\n", runErr.Error())
		flusher.Flush()
		return
	}

	fmt.Fprint(w, "event: done\ndata: {}\n\n")
	flusher.Flush()
}

func (h *Handlers) AirlineName(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	writeJSON(w, http.StatusOK, map[string]string{
		"code": code,
		"name": h.resolver.AirlineName(code),
	})
}

func (h *Handlers) LocationName(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	writeJSON(w, http.StatusOK, map[string]string{
		"code": code,
		"name": h.resolver.CityName(code),
	})
}

func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var params usecase.CreateBookingParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.bookings.Create(r.Context(), params)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"tracking_token": token})
}

func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	rec, err := h.bookings.Get(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "booking not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (h *Handlers) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.bookings.UpdateStatus(r.Context(), chi.URLParam(r, "token"), req.Status)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "booking not found")
			return
		}
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

// writeDomainError maps the engine's error taxonomy onto HTTP statuses the
// frontend reacts to.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case flight.IsInvalidRequest(err):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case flight.IsRateLimit(err):
		writeJSONError(w, http.StatusTooManyRequests, err.Error())
	case flight.IsAuthentication(err):
		writeJSONError(w, http.StatusBadGateway, err.Error())
	case flight.IsUpstreamUnavailable(err):
		writeJSONError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
