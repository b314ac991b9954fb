package usecase

import (
	"slices"
	"testing"

	"github.com/da7a90-backup/rihla-travel-agency/internal/domain/flight"
)

func roundTrip(price int64, minutes int, sameAirline, selfTransfer bool) flight.Itinerary {
	ret := flight.Offer{ID: "r"}
	return flight.Itinerary{
		Outbound:     flight.Offer{ID: "o"},
		Return:       &ret,
		TotalPrice:   price,
		TotalMinutes: minutes,
		SameAirline:  sameAirline,
		SelfTransfer: selfTransfer,
	}
}

func tagged(itineraries []flight.Itinerary, tag string) []int {
	var out []int
	for i, it := range itineraries {
		if slices.Contains(it.Tags, tag) {
			out = append(out, i)
		}
	}
	return out
}

func TestTag_SingleCheapest(t *testing.T) {
	itineraries := []flight.Itinerary{
		roundTrip(100, 500, false, true),
		roundTrip(200, 400, false, true),
		roundTrip(150, 450, false, true),
	}

	Tag(itineraries)

	cheapest := tagged(itineraries, flight.TagCheapest)
	if len(cheapest) != 1 || cheapest[0] != 0 {
		t.Fatalf("expected only itinerary 0 tagged Cheapest, got %v", cheapest)
	}
}

func TestTag_FastestTieBreakKeepsFirst(t *testing.T) {
	itineraries := []flight.Itinerary{
		roundTrip(300, 400, false, true),
		roundTrip(100, 400, false, true),
		roundTrip(200, 500, false, true),
	}

	Tag(itineraries)

	fastest := tagged(itineraries, flight.TagFastest)
	if len(fastest) != 1 || fastest[0] != 0 {
		t.Fatalf("expected only itinerary 0 tagged Fastest, got %v", fastest)
	}
}

func TestTag_PreservesInputOrder(t *testing.T) {
	itineraries := []flight.Itinerary{
		roundTrip(300, 500, false, true),
		roundTrip(100, 300, false, true),
	}
	itineraries[0].Outbound.ID = "first"
	itineraries[1].Outbound.ID = "second"

	Tag(itineraries)

	if itineraries[0].Outbound.ID != "first" || itineraries[1].Outbound.ID != "second" {
		t.Fatal("tagging reordered the input")
	}
}

func TestTag_SameAirline(t *testing.T) {
	itineraries := []flight.Itinerary{
		roundTrip(100, 400, true, false),
		roundTrip(200, 500, false, true),
	}

	Tag(itineraries)

	same := tagged(itineraries, flight.TagSameAirline)
	if len(same) != 1 || same[0] != 0 {
		t.Fatalf("expected only itinerary 0 tagged Same Airline, got %v", same)
	}
}

func TestTag_BestOverall(t *testing.T) {
	// Ten itineraries; cutoff is ceil(0.3*10) = 3. Itinerary 0 is ranked
	// first on both axes and clean, so it earns the tag; itinerary 9 is
	// cheap-but-slow and stays untagged.
	itineraries := make([]flight.Itinerary, 0, 10)
	itineraries = append(itineraries, roundTrip(100, 300, true, false))
	for i := 1; i < 9; i++ {
		itineraries = append(itineraries, roundTrip(int64(200+i*50), 400+i*30, false, true))
	}
	itineraries = append(itineraries, roundTrip(110, 900, true, false))

	Tag(itineraries)

	best := tagged(itineraries, flight.TagBestOverall)
	if len(best) != 1 || best[0] != 0 {
		t.Fatalf("expected only itinerary 0 tagged Best Overall, got %v", best)
	}
}

func TestTag_OneWayStillRanks(t *testing.T) {
	itineraries := []flight.Itinerary{
		{Outbound: flight.Offer{ID: "a"}, TotalPrice: 200, TotalMinutes: 300},
		{Outbound: flight.Offer{ID: "b"}, TotalPrice: 100, TotalMinutes: 400},
	}

	Tag(itineraries)

	if got := tagged(itineraries, flight.TagCheapest); len(got) != 1 || got[0] != 1 {
		t.Errorf("expected itinerary 1 tagged Cheapest, got %v", got)
	}
	if got := tagged(itineraries, flight.TagFastest); len(got) != 1 || got[0] != 0 {
		t.Errorf("expected itinerary 0 tagged Fastest, got %v", got)
	}
	if got := tagged(itineraries, flight.TagSameAirline); len(got) != 0 {
		t.Errorf("one-way itineraries must not carry round-trip tags, got %v", got)
	}
}

func TestTag_Empty(t *testing.T) {
	if out := Tag(nil); len(out) != 0 {
		t.Fatalf("expected empty output, got %v", out)
	}
}
