package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/da7a90-backup/rihla-travel-agency/internal/domain/booking"
)

// EventProducer publishes booking lifecycle events for downstream
// consumers (notifications, admin dashboards). Nil disables publishing.
type EventProducer interface {
	SendMessage(ctx context.Context, key, value []byte) error
}

// Bookings is the thin glue between the search engine's output and the
// persistence collaborator. The engine itself never touches it.
type Bookings struct {
	store    booking.Store
	producer EventProducer
}

func NewBookings(store booking.Store, producer EventProducer) *Bookings {
	return &Bookings{store: store, producer: producer}
}

type CreateBookingParams struct {
	PassengerName  string          `json:"passenger_name"`
	PassengerEmail string          `json:"passenger_email"`
	PassengerPhone string          `json:"passenger_phone"`
	DocumentNumber string          `json:"document_number"`
	Itinerary      json.RawMessage `json:"itinerary"`
	TotalPrice     int64           `json:"total_price"`
	Currency       string          `json:"currency"`
}

// Create stores the record and returns the opaque tracking token the
// traveler uses to follow the booking.
func (b *Bookings) Create(ctx context.Context, params CreateBookingParams) (string, error) {
	if params.PassengerName == "" || len(params.Itinerary) == 0 {
		return "", fmt.Errorf("passenger name and itinerary are required")
	}

	now := time.Now().UTC()
	rec := &booking.Record{
		TrackingToken:  uuid.New().String(),
		PassengerName:  params.PassengerName,
		PassengerEmail: params.PassengerEmail,
		PassengerPhone: params.PassengerPhone,
		DocumentNumber: params.DocumentNumber,
		Itinerary:      params.Itinerary,
		TotalPrice:     params.TotalPrice,
		Currency:       params.Currency,
		Status:         booking.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := b.store.Create(ctx, rec); err != nil {
		return "", fmt.Errorf("create booking: %w", err)
	}

	b.publish(ctx, "booking.created", rec)

	return rec.TrackingToken, nil
}

func (b *Bookings) Get(ctx context.Context, token string) (*booking.Record, error) {
	rec, err := b.store.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return rec, nil
}

func (b *Bookings) UpdateStatus(ctx context.Context, token, status string) error {
	switch status {
	case booking.StatusPending, booking.StatusPaid, booking.StatusTicketed, booking.StatusCancelled:
	default:
		return fmt.Errorf("unknown booking status %q", status)
	}

	if err := b.store.UpdateStatus(ctx, token, status); err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}

	rec, err := b.store.GetByToken(ctx, token)
	if err == nil {
		b.publish(ctx, "booking.status_changed", rec)
	}

	return nil
}

// publish is best-effort; a dead broker must not fail the booking flow.
func (b *Bookings) publish(ctx context.Context, eventType string, rec *booking.Record) {
	if b.producer == nil {
		return
	}

	event := map[string]any{
		"type":           eventType,
		"tracking_token": rec.TrackingToken,
		"status":         rec.Status,
		"total_price":    rec.TotalPrice,
		"currency":       rec.Currency,
		"occurred_at":    time.Now().UTC(),
	}
	value, err := json.Marshal(event)
	if err != nil {
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := b.producer.SendMessage(sendCtx, []byte(rec.TrackingToken), value); err != nil {
		slog.WarnContext(ctx, "booking event publish failed", "type", eventType, "error", err)
	}
}
