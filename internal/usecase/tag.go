package usecase

import (
	"math"
	"sort"

	"github.com/da7a90-backup/rihla-travel-agency/internal/domain/flight"
)

// bestShare is the fraction of the input an itinerary's price and duration
// ranks must both fall within to earn the Best Overall tag.
const bestShare = 0.3

// Tag labels the itineraries in place and returns them in their original
// order. Exactly one itinerary gets Cheapest and one gets Fastest; ties go
// to the earliest in input order.
func Tag(itineraries []flight.Itinerary) []flight.Itinerary {
	n := len(itineraries)
	if n == 0 {
		return itineraries
	}

	priceOrder := rankBy(itineraries, func(a, b flight.Itinerary) bool {
		return a.TotalPrice < b.TotalPrice
	})
	durationOrder := rankBy(itineraries, func(a, b flight.Itinerary) bool {
		return a.TotalMinutes < b.TotalMinutes
	})

	priceRank := make([]int, n)
	durationRank := make([]int, n)
	for rank, idx := range priceOrder {
		priceRank[idx] = rank
	}
	for rank, idx := range durationOrder {
		durationRank[idx] = rank
	}

	cutoff := int(math.Ceil(bestShare * float64(n)))

	for i := range itineraries {
		it := &itineraries[i]
		it.Tags = it.Tags[:0]

		if i == priceOrder[0] {
			it.Tags = append(it.Tags, flight.TagCheapest)
		}
		if i == durationOrder[0] {
			it.Tags = append(it.Tags, flight.TagFastest)
		}
		if it.RoundTrip() && it.SameAirline {
			it.Tags = append(it.Tags, flight.TagSameAirline)
		}
		if it.SameAirline && !it.SelfTransfer &&
			priceRank[i] < cutoff && durationRank[i] < cutoff {
			it.Tags = append(it.Tags, flight.TagBestOverall)
		}
	}

	return itineraries
}

// rankBy returns input indices ordered by less; the stable sort keeps
// input order among ties.
func rankBy(itineraries []flight.Itinerary, less func(a, b flight.Itinerary) bool) []int {
	order := make([]int, len(itineraries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		return less(itineraries[order[x]], itineraries[order[y]])
	})
	return order
}
