package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/da7a90-backup/rihla-travel-agency/internal/domain/booking"
)

var ErrNotFound = errors.New("booking not found")

// BookingRepository persists booking records keyed by tracking token. The
// itinerary payload is stored verbatim as jsonb.
type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) Create(ctx context.Context, rec *booking.Record) error {
	const sql = `
		INSERT INTO bookings (
			tracking_token, passenger_name, passenger_email, passenger_phone,
			document_number, itinerary, total_price, currency, status,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, sql,
		rec.TrackingToken, rec.PassengerName, rec.PassengerEmail, nullIfEmpty(rec.PassengerPhone),
		nullIfEmpty(rec.DocumentNumber), rec.Itinerary, rec.TotalPrice, rec.Currency, rec.Status,
		rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	return nil
}

func (r *BookingRepository) GetByToken(ctx context.Context, token string) (*booking.Record, error) {
	const sql = `
		SELECT
			tracking_token, passenger_name, passenger_email,
			COALESCE(passenger_phone, ''),
			COALESCE(document_number, ''),
			itinerary, total_price, currency, status,
			created_at, updated_at
		FROM bookings
		WHERE tracking_token = $1
	`

	var rec booking.Record
	err := r.pool.QueryRow(ctx, sql, token).Scan(
		&rec.TrackingToken, &rec.PassengerName, &rec.PassengerEmail,
		&rec.PassengerPhone, &rec.DocumentNumber,
		&rec.Itinerary, &rec.TotalPrice, &rec.Currency, &rec.Status,
		&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select booking: %w", err)
	}

	return &rec, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, token, status string) error {
	const sql = `
		UPDATE bookings
		SET status = $2, updated_at = NOW()
		WHERE tracking_token = $1
	`

	cmdTag, err := r.pool.Exec(ctx, sql, token, status)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
