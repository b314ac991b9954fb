package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/da7a90-backup/rihla-travel-agency/internal/domain/booking"
)

type fakeBookingStore struct {
	records map[string]*booking.Record
	fail    error
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{records: make(map[string]*booking.Record)}
}

func (s *fakeBookingStore) Create(_ context.Context, rec *booking.Record) error {
	if s.fail != nil {
		return s.fail
	}
	s.records[rec.TrackingToken] = rec
	return nil
}

func (s *fakeBookingStore) GetByToken(_ context.Context, token string) (*booking.Record, error) {
	rec, ok := s.records[token]
	if !ok {
		return nil, context.DeadlineExceeded
	}
	return rec, nil
}

func (s *fakeBookingStore) UpdateStatus(_ context.Context, token, status string) error {
	rec, ok := s.records[token]
	if !ok {
		return context.DeadlineExceeded
	}
	rec.Status = status
	return nil
}

type recordingProducer struct {
	events [][]byte
	fail   error
}

func (p *recordingProducer) SendMessage(_ context.Context, _, value []byte) error {
	if p.fail != nil {
		return p.fail
	}
	p.events = append(p.events, value)
	return nil
}

func validParams() CreateBookingParams {
	return CreateBookingParams{
		PassengerName: "Aicha Mint Mohamed",
		Itinerary:     json.RawMessage(`{"outbound":"o1"}`),
		TotalPrice:    45000,
		Currency:      "MRU",
	}
}

func TestBookings_CreateAssignsTokenAndPublishes(t *testing.T) {
	store := newFakeBookingStore()
	producer := &recordingProducer{}
	b := NewBookings(store, producer)

	token, err := b.Create(context.Background(), validParams())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if token == "" {
		t.Fatal("empty tracking token")
	}

	rec := store.records[token]
	if rec == nil {
		t.Fatal("record not stored under its token")
	}
	if rec.Status != booking.StatusPending {
		t.Errorf("status = %q, want %q", rec.Status, booking.StatusPending)
	}

	if len(producer.events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(producer.events))
	}
	var event map[string]any
	if err := json.Unmarshal(producer.events[0], &event); err != nil {
		t.Fatalf("event not JSON: %v", err)
	}
	if event["type"] != "booking.created" || event["tracking_token"] != token {
		t.Errorf("unexpected event %v", event)
	}
}

func TestBookings_CreateRequiresNameAndItinerary(t *testing.T) {
	b := NewBookings(newFakeBookingStore(), nil)

	params := validParams()
	params.PassengerName = ""
	if _, err := b.Create(context.Background(), params); err == nil {
		t.Error("expected error for missing passenger name")
	}

	params = validParams()
	params.Itinerary = nil
	if _, err := b.Create(context.Background(), params); err == nil {
		t.Error("expected error for missing itinerary")
	}
}

func TestBookings_DeadProducerDoesNotFailCreate(t *testing.T) {
	store := newFakeBookingStore()
	producer := &recordingProducer{fail: context.DeadlineExceeded}
	b := NewBookings(store, producer)

	token, err := b.Create(context.Background(), validParams())
	if err != nil {
		t.Fatalf("Create must succeed with a dead broker, got %v", err)
	}
	if store.records[token] == nil {
		t.Fatal("record not stored")
	}
}

func TestBookings_UpdateStatusValidatesState(t *testing.T) {
	store := newFakeBookingStore()
	b := NewBookings(store, nil)

	token, err := b.Create(context.Background(), validParams())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := b.UpdateStatus(context.Background(), token, "SHIPPED"); err == nil {
		t.Error("expected error for unknown status")
	}
	if err := b.UpdateStatus(context.Background(), token, booking.StatusPaid); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if store.records[token].Status != booking.StatusPaid {
		t.Errorf("status = %q, want %q", store.records[token].Status, booking.StatusPaid)
	}
}
