package amadeus

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/da7a90-backup/rihla-travel-agency/internal/domain/flight"
)

// normalize converts raw provider offers into domain offers. Offers with no
// itinerary, or with an itinerary missing segments, are malformed and
// dropped rather than surfaced.
func (c *Client) normalize(raw []rawOffer) []flight.Offer {
	offers := make([]flight.Offer, 0, len(raw))
	for _, r := range raw {
		offer, ok := c.normalizeOffer(r)
		if !ok {
			continue
		}
		offers = append(offers, offer)
	}
	return offers
}

func (c *Client) normalizeOffer(r rawOffer) (flight.Offer, bool) {
	if len(r.Itineraries) == 0 {
		return flight.Offer{}, false
	}

	legs := make([]flight.Leg, 0, len(r.Itineraries))
	for _, itin := range r.Itineraries {
		if len(itin.Segments) == 0 {
			return flight.Offer{}, false
		}

		segments := make([]flight.Segment, 0, len(itin.Segments))
		for _, s := range itin.Segments {
			segments = append(segments, flight.Segment{
				Departure: flight.Endpoint{
					Airport:  s.Departure.IataCode,
					Terminal: s.Departure.Terminal,
					At:       parseLocalTime(s.Departure.At),
				},
				Arrival: flight.Endpoint{
					Airport:  s.Arrival.IataCode,
					Terminal: s.Arrival.Terminal,
					At:       parseLocalTime(s.Arrival.At),
				},
				CarrierCode:  s.CarrierCode,
				FlightNumber: s.CarrierCode + s.Number,
				Aircraft:     s.Aircraft.Code,
				Stops:        s.NumberOfStops,
			})
		}

		minutes := parseISODurationMinutes(itin.Duration)
		if minutes == 0 {
			minutes = spanMinutes(segments)
		}

		legs = append(legs, flight.Leg{Segments: segments, DurationMinutes: minutes})
	}

	total := r.Price.GrandTotal
	if total == "" {
		total = r.Price.Total
	}
	amount, err := strconv.ParseFloat(total, 64)
	if err != nil {
		return flight.Offer{}, false
	}

	offer := flight.Offer{
		ID:              r.ID,
		Legs:            legs,
		Price:           total,
		Currency:        r.Price.Currency,
		RawPrice:        amount,
		DisplayPrice:    convertPrice(amount, c.cfg.ConversionRate),
		DisplayCurrency: c.cfg.DisplayCurrency,
		BookableSeats:   r.NumberOfBookableSeats,
	}

	if len(r.TravelerPricings) > 0 && len(r.TravelerPricings[0].FareDetailsBySegment) > 0 {
		fare := r.TravelerPricings[0].FareDetailsBySegment[0]
		offer.Cabin = fare.Cabin
		offer.FareBasis = fare.FareBasis
	}

	return offer, true
}

// convertPrice derives the display amount at the fixed conversion rate,
// rounded to the nearest whole unit.
func convertPrice(amount, rate float64) int64 {
	return int64(math.Round(amount * rate))
}

// parseISODurationMinutes reads provider durations like "PT7H15M" or
// "P1DT2H30M". Unparseable input yields zero so the caller can fall back
// to segment times.
func parseISODurationMinutes(raw string) int {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if !strings.HasPrefix(s, "P") {
		return 0
	}
	s = s[1:]

	days := 0
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		if i > 0 {
			days = parseUnit(s[:i], 'D')
		}
		s = s[i+1:]
	} else if strings.HasSuffix(s, "D") {
		return parseUnit(s, 'D') * 24 * 60
	} else {
		return 0
	}

	hours := parseUnit(s, 'H')
	if i := strings.IndexByte(s, 'H'); i >= 0 {
		s = s[i+1:]
	}
	mins := parseUnit(s, 'M')

	return days*24*60 + hours*60 + mins
}

func parseUnit(s string, unit byte) int {
	i := strings.IndexByte(s, unit)
	if i <= 0 {
		return 0
	}
	start := i - 1
	for start > 0 && s[start-1] >= '0' && s[start-1] <= '9' {
		start--
	}
	n, err := strconv.Atoi(s[start:i])
	if err != nil {
		return 0
	}
	return n
}

// parseLocalTime reads the provider's zone-less timestamps
// ("2026-09-01T08:30:00"). Times stay in the airport's local clock.
func parseLocalTime(raw string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05", raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func spanMinutes(segments []flight.Segment) int {
	if len(segments) == 0 {
		return 0
	}
	first := segments[0].Departure.At
	last := segments[len(segments)-1].Arrival.At
	if first.IsZero() || last.IsZero() || !last.After(first) {
		return 0
	}
	return int(last.Sub(first).Minutes())
}
