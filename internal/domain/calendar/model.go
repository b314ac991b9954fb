package calendar

import "time"

// FetchStatus is the tri-state outcome of a single day's fetch.
type FetchStatus string

const (
	StatusPending FetchStatus = "pending"
	StatusOK      FetchStatus = "ok"
	StatusError   FetchStatus = "error"
)

// DayPrice is the per-day cell of the month browse view. It is the one
// entity the engine mutates in place, as each day resolves.
type DayPrice struct {
	Date       time.Time   `json:"date"`
	MinPrice   int64       `json:"min_price"`
	Currency   string      `json:"currency,omitempty"`
	OfferCount int         `json:"offer_count"`
	Available  bool        `json:"available"`
	Status     FetchStatus `json:"status"`
	Error      string      `json:"error,omitempty"`
}
