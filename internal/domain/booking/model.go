package booking

import (
	"context"
	"encoding/json"
	"time"
)

// Record is what the surrounding booking flow persists: passenger info, the
// chosen itinerary payload stored verbatim, the computed total and a status
// the admin side advances. The search engine only ever produces the payload;
// it never reads records back.
type Record struct {
	TrackingToken  string          `json:"tracking_token"`
	PassengerName  string          `json:"passenger_name"`
	PassengerEmail string          `json:"passenger_email"`
	PassengerPhone string          `json:"passenger_phone,omitempty"`
	DocumentNumber string          `json:"document_number,omitempty"`
	Itinerary      json.RawMessage `json:"itinerary"`
	TotalPrice     int64           `json:"total_price"`
	Currency       string          `json:"currency"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Booking lifecycle states.
const (
	StatusPending   = "PENDING"
	StatusPaid      = "PAID"
	StatusTicketed  = "TICKETED"
	StatusCancelled = "CANCELLED"
)

// Store is the persistence collaborator. Implementations live outside the
// search engine.
type Store interface {
	Create(ctx context.Context, rec *Record) error
	GetByToken(ctx context.Context, token string) (*Record, error)
	UpdateStatus(ctx context.Context, token, status string) error
}
