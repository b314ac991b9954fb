package flight

import (
	"fmt"
	"time"
)

// SearchCriteria describes one offer search against the inventory provider.
// ReturnDate nil means a one-way search.
type SearchCriteria struct {
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	DepartureDate time.Time  `json:"departure_date"`
	ReturnDate    *time.Time `json:"return_date,omitempty"`
	Adults        int        `json:"adults"`
	TravelClass   string     `json:"travel_class,omitempty"`
	NonStop       bool       `json:"non_stop,omitempty"`
	MaxResults    int        `json:"max_results,omitempty"`
}

func (c SearchCriteria) RoundTrip() bool {
	return c.ReturnDate != nil
}

type Endpoint struct {
	Airport  string    `json:"airport"`
	Terminal string    `json:"terminal,omitempty"`
	At       time.Time `json:"at"`
}

// Segment is one physical flight within a leg.
type Segment struct {
	Departure    Endpoint `json:"departure"`
	Arrival      Endpoint `json:"arrival"`
	CarrierCode  string   `json:"carrier_code"`
	FlightNumber string   `json:"flight_number"`
	Aircraft     string   `json:"aircraft,omitempty"`
	Stops        int      `json:"stops"`
}

// Leg is one direction of travel made of ordered segments.
type Leg struct {
	Segments        []Segment `json:"segments"`
	DurationMinutes int       `json:"duration_minutes"`
}

// Offer is one directional bookable itinerary instance from the provider.
// Offers are immutable once fetched; derived values live in new fields.
type Offer struct {
	ID              string  `json:"id"`
	Legs            []Leg   `json:"legs"`
	Price           string  `json:"price"`
	Currency        string  `json:"currency"`
	DisplayPrice    int64   `json:"display_price"`
	DisplayCurrency string  `json:"display_currency"`
	Cabin           string  `json:"cabin,omitempty"`
	FareBasis       string  `json:"fare_basis,omitempty"`
	BookableSeats   int     `json:"bookable_seats,omitempty"`
	RawPrice        float64 `json:"-"`
}

// CarrierCode returns the primary carrier of the offer, taken from the
// first segment of the first leg.
func (o Offer) CarrierCode() string {
	if len(o.Legs) == 0 || len(o.Legs[0].Segments) == 0 {
		return ""
	}
	return o.Legs[0].Segments[0].CarrierCode
}

func (o Offer) SegmentCount() int {
	n := 0
	for _, l := range o.Legs {
		n += len(l.Segments)
	}
	return n
}

func (o Offer) DurationMinutes() int {
	n := 0
	for _, l := range o.Legs {
		n += l.DurationMinutes
	}
	return n
}

// Itinerary is a composed outbound offer plus an optional return offer with
// derived totals. Tags are assigned after composition; everything else is
// fixed at compose time.
type Itinerary struct {
	Outbound        Offer    `json:"outbound"`
	Return          *Offer   `json:"return,omitempty"`
	TotalPrice      int64    `json:"total_price"`
	DisplayCurrency string   `json:"display_currency"`
	TotalMinutes    int      `json:"total_minutes"`
	TotalDuration   string   `json:"total_duration"`
	SameAirline     bool     `json:"same_airline"`
	SelfTransfer    bool     `json:"self_transfer"`
	Tags            []string `json:"tags,omitempty"`
}

func (it Itinerary) RoundTrip() bool {
	return it.Return != nil
}

// Tag labels assigned by the ranking stage.
const (
	TagCheapest    = "Cheapest"
	TagFastest     = "Fastest"
	TagSameAirline = "Same Airline"
	TagBestOverall = "Best Overall"
)

// FormatDuration renders minutes the way the search results page shows
// them, e.g. "7h 15m".
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}
