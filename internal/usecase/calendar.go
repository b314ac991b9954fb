package usecase

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/da7a90-backup/rihla-travel-agency/internal/domain/calendar"
	"github.com/da7a90-backup/rihla-travel-agency/internal/domain/flight"
	"github.com/da7a90-backup/rihla-travel-agency/internal/metrics"
)

// gate spaces provider calls at a fixed minimum interval and accepts an
// extra one-shot penalty after a throttled response. It is the scheduler's
// only concurrency control.
type gate struct {
	limiter *rate.Limiter

	mu      sync.Mutex
	penalty time.Duration
}

func newGate(minInterval time.Duration) *gate {
	return &gate{limiter: rate.NewLimiter(rate.Every(minInterval), 1)}
}

func (g *gate) Wait(ctx context.Context) error {
	g.mu.Lock()
	penalty := g.penalty
	g.penalty = 0
	g.mu.Unlock()

	if penalty > 0 {
		timer := time.NewTimer(penalty)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return g.limiter.Wait(ctx)
}

func (g *gate) Penalize(d time.Duration) {
	g.mu.Lock()
	if d > g.penalty {
		g.penalty = d
	}
	g.mu.Unlock()
}

// Scheduler drives the month-browse workflow: one directional fetch per
// calendar day, closest future day first, one call in flight at a time.
// A day's failure never aborts the batch.
type Scheduler struct {
	fetcher        Fetcher
	gate           *gate
	backoffPenalty time.Duration
	now            func() time.Time
}

func NewScheduler(fetcher Fetcher, minInterval, backoffPenalty time.Duration) *Scheduler {
	return &Scheduler{
		fetcher:        fetcher,
		gate:           newGate(minInterval),
		backoffPenalty: backoffPenalty,
		now:            time.Now,
	}
}

// WithClock injects a time source for tests and returns the scheduler.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// Run resolves each day and reports it through onDay as it completes. Past
// days are reported unavailable immediately, with no network call. The
// only way Run stops early is ctx being cancelled; abandoned scans stop
// issuing calls and write nothing further.
func (s *Scheduler) Run(ctx context.Context, days []time.Time, criteria flight.SearchCriteria, onDay func(calendar.DayPrice)) error {
	today := startOfDay(s.now())

	pending := make([]time.Time, 0, len(days))
	for _, day := range days {
		day = startOfDay(day)
		if day.Before(today) {
			metrics.CalendarDays.WithLabelValues("past").Inc()
			onDay(calendar.DayPrice{Date: day, Available: false, Status: calendar.StatusOK})
			continue
		}
		pending = append(pending, day)
	}

	sort.Slice(pending, func(i, j int) bool { return pending[i].Before(pending[j]) })

	for _, day := range pending {
		if err := s.gate.Wait(ctx); err != nil {
			return err
		}

		dayCriteria := criteria
		dayCriteria.DepartureDate = day
		dayCriteria.ReturnDate = nil

		offers, err := s.fetcher.Search(ctx, dayCriteria)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if flight.IsRateLimit(err) {
				s.gate.Penalize(s.backoffPenalty)
				slog.WarnContext(ctx, "calendar day throttled", "day", day.Format("2006-01-02"))
			}
			metrics.CalendarDays.WithLabelValues("error").Inc()
			onDay(calendar.DayPrice{
				Date:      day,
				Available: false,
				Status:    calendar.StatusError,
				Error:     err.Error(),
			})
			continue
		}

		metrics.CalendarDays.WithLabelValues("ok").Inc()
		onDay(resolveDay(day, offers))
	}

	return nil
}

func resolveDay(day time.Time, offers []flight.Offer) calendar.DayPrice {
	result := calendar.DayPrice{
		Date:       day,
		OfferCount: len(offers),
		Available:  len(offers) > 0,
		Status:     calendar.StatusOK,
	}
	for _, o := range offers {
		if result.MinPrice == 0 || o.DisplayPrice < result.MinPrice {
			result.MinPrice = o.DisplayPrice
			result.Currency = o.DisplayCurrency
		}
	}
	return result
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// MonthDays lists every day of the given month, for the calendar browse
// endpoint.
func MonthDays(year int, month time.Month) []time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := make([]time.Time, 0, 31)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
