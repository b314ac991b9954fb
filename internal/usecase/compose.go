package usecase

import (
	"sort"

	"github.com/da7a90-backup/rihla-travel-agency/internal/domain/flight"
)

// Composer pairs outbound and return offers into round-trip itineraries.
// Inputs are capped per leg before pairing, cheapest offers first, because
// the pairing cost is multiplicative.
type Composer struct {
	maxPerLeg int
}

func NewComposer(maxPerLeg int) *Composer {
	if maxPerLeg <= 0 {
		maxPerLeg = 20
	}
	return &Composer{maxPerLeg: maxPerLeg}
}

// Compose emits the full cross-product of the capped inputs. No filtering
// or deduplication happens here; every pair carries a distinct
// (outbound.ID, return.ID).
func (c *Composer) Compose(outbound, returns []flight.Offer) []flight.Itinerary {
	outbound = c.capLeg(outbound)
	returns = c.capLeg(returns)

	itineraries := make([]flight.Itinerary, 0, len(outbound)*len(returns))
	for _, out := range outbound {
		for _, ret := range returns {
			itineraries = append(itineraries, pair(out, ret))
		}
	}
	return itineraries
}

// ComposeOneWay wraps lone offers so the ranking stage can run on them.
func (c *Composer) ComposeOneWay(offers []flight.Offer) []flight.Itinerary {
	offers = c.capLeg(offers)

	itineraries := make([]flight.Itinerary, 0, len(offers))
	for _, o := range offers {
		minutes := o.DurationMinutes()
		itineraries = append(itineraries, flight.Itinerary{
			Outbound:        o,
			TotalPrice:      o.DisplayPrice,
			DisplayCurrency: o.DisplayCurrency,
			TotalMinutes:    minutes,
			TotalDuration:   flight.FormatDuration(minutes),
			SelfTransfer:    o.SegmentCount() > 1,
		})
	}
	return itineraries
}

func pair(out, ret flight.Offer) flight.Itinerary {
	sameAirline := out.CarrierCode() != "" && out.CarrierCode() == ret.CarrierCode()
	selfTransfer := !sameAirline || out.SegmentCount() > 1 || ret.SegmentCount() > 1
	minutes := out.DurationMinutes() + ret.DurationMinutes()

	retCopy := ret
	return flight.Itinerary{
		Outbound:        out,
		Return:          &retCopy,
		TotalPrice:      out.DisplayPrice + ret.DisplayPrice,
		DisplayCurrency: out.DisplayCurrency,
		TotalMinutes:    minutes,
		TotalDuration:   flight.FormatDuration(minutes),
		SameAirline:     sameAirline,
		SelfTransfer:    selfTransfer,
	}
}

// capLeg pre-ranks a leg's offers by display price and truncates to the
// configured cap, so composition work stays bounded.
func (c *Composer) capLeg(offers []flight.Offer) []flight.Offer {
	if len(offers) <= c.maxPerLeg {
		return offers
	}
	capped := make([]flight.Offer, len(offers))
	copy(capped, offers)
	sort.SliceStable(capped, func(i, j int) bool {
		return capped[i].DisplayPrice < capped[j].DisplayPrice
	})
	return capped[:c.maxPerLeg]
}
