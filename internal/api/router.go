package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter assembles the HTTP surface. bookingMW wraps only the booking
// routes; the search side stays untouched by it.
func NewRouter(h *Handlers, bookingMW ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/flights/search", h.SearchFlights)
		r.Get("/flights/calendar", h.Calendar)

		r.Get("/reference/airlines/{code}", h.AirlineName)
		r.Get("/reference/locations/{code}", h.LocationName)

		r.Group(func(r chi.Router) {
			for _, mw := range bookingMW {
				r.Use(mw)
			}
			r.Post("/bookings", h.CreateBooking)
			r.Get("/bookings/{token}", h.GetBooking)
			r.Patch("/bookings/{token}/status", h.UpdateBookingStatus)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
