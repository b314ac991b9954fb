package usecase

import (
	"fmt"
	"testing"
	"time"

	"github.com/da7a90-backup/rihla-travel-agency/internal/domain/flight"
)

func singleSegmentOffer(id, carrier string, price int64, minutes int) flight.Offer {
	depart := time.Date(2026, 9, 12, 8, 0, 0, 0, time.UTC)
	return flight.Offer{
		ID:              id,
		DisplayPrice:    price,
		DisplayCurrency: "MRU",
		Legs: []flight.Leg{{
			DurationMinutes: minutes,
			Segments: []flight.Segment{{
				Departure:    flight.Endpoint{Airport: "NKC", At: depart},
				Arrival:      flight.Endpoint{Airport: "CDG", At: depart.Add(time.Duration(minutes) * time.Minute)},
				CarrierCode:  carrier,
				FlightNumber: carrier + "100",
			}},
		}},
	}
}

func twoSegmentOffer(id, carrier string, price int64, minutes int) flight.Offer {
	o := singleSegmentOffer(id, carrier, price, minutes)
	o.Legs[0].Segments = append(o.Legs[0].Segments, o.Legs[0].Segments[0])
	return o
}

func TestCompose_CrossProduct(t *testing.T) {
	outbound := []flight.Offer{
		singleSegmentOffer("o1", "TK", 100, 300),
		singleSegmentOffer("o2", "AF", 200, 350),
		singleSegmentOffer("o3", "EK", 150, 400),
	}
	returns := []flight.Offer{
		singleSegmentOffer("r1", "TK", 120, 310),
		singleSegmentOffer("r2", "AF", 180, 290),
	}

	itineraries := NewComposer(20).Compose(outbound, returns)

	if len(itineraries) != len(outbound)*len(returns) {
		t.Fatalf("expected %d itineraries, got %d", len(outbound)*len(returns), len(itineraries))
	}

	seen := make(map[string]bool)
	for _, it := range itineraries {
		if it.Return == nil {
			t.Fatal("round-trip itinerary missing return leg")
		}
		key := it.Outbound.ID + "|" + it.Return.ID
		if seen[key] {
			t.Fatalf("duplicate pair %s", key)
		}
		seen[key] = true
	}
}

func TestCompose_DerivedFields(t *testing.T) {
	outbound := []flight.Offer{singleSegmentOffer("o1", "TK", 100, 300)}
	returns := []flight.Offer{singleSegmentOffer("r1", "TK", 150, 320)}

	itineraries := NewComposer(20).Compose(outbound, returns)

	it := itineraries[0]
	if it.TotalPrice != 250 {
		t.Errorf("expected total price 250, got %d", it.TotalPrice)
	}
	if it.TotalMinutes != 620 {
		t.Errorf("expected total 620 minutes, got %d", it.TotalMinutes)
	}
	if it.TotalDuration != "10h 20m" {
		t.Errorf("expected duration 10h 20m, got %s", it.TotalDuration)
	}
}

func TestCompose_SelfTransferFlags(t *testing.T) {
	tests := []struct {
		name         string
		outbound     flight.Offer
		ret          flight.Offer
		sameAirline  bool
		selfTransfer bool
	}{
		{
			name:         "different carriers",
			outbound:     singleSegmentOffer("o1", "AF", 100, 300),
			ret:          singleSegmentOffer("r1", "TK", 100, 300),
			sameAirline:  false,
			selfTransfer: true,
		},
		{
			name:         "same carrier single segments",
			outbound:     singleSegmentOffer("o1", "TK", 100, 300),
			ret:          singleSegmentOffer("r1", "TK", 100, 300),
			sameAirline:  true,
			selfTransfer: false,
		},
		{
			name:         "same carrier with connection",
			outbound:     twoSegmentOffer("o1", "TK", 100, 300),
			ret:          singleSegmentOffer("r1", "TK", 100, 300),
			sameAirline:  true,
			selfTransfer: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			it := NewComposer(20).Compose([]flight.Offer{tc.outbound}, []flight.Offer{tc.ret})[0]
			if it.SameAirline != tc.sameAirline {
				t.Errorf("sameAirline = %v, want %v", it.SameAirline, tc.sameAirline)
			}
			if it.SelfTransfer != tc.selfTransfer {
				t.Errorf("selfTransfer = %v, want %v", it.SelfTransfer, tc.selfTransfer)
			}
		})
	}
}

func TestCompose_CapsLegInputs(t *testing.T) {
	outbound := make([]flight.Offer, 0, 10)
	for i := 0; i < 10; i++ {
		// Descending price so the cap must keep the cheapest offers.
		outbound = append(outbound, singleSegmentOffer(fmt.Sprintf("o%d", i), "TK", int64(1000-i*10), 300))
	}
	returns := []flight.Offer{singleSegmentOffer("r1", "TK", 100, 300)}

	itineraries := NewComposer(3).Compose(outbound, returns)

	if len(itineraries) != 3 {
		t.Fatalf("expected 3 itineraries after cap, got %d", len(itineraries))
	}
	for _, it := range itineraries {
		if it.Outbound.DisplayPrice > 930 {
			t.Errorf("cap kept expensive offer %s at %d", it.Outbound.ID, it.Outbound.DisplayPrice)
		}
	}
}

func TestComposeOneWay(t *testing.T) {
	offers := []flight.Offer{
		singleSegmentOffer("o1", "TK", 100, 300),
		twoSegmentOffer("o2", "AF", 200, 400),
	}

	itineraries := NewComposer(20).ComposeOneWay(offers)

	if len(itineraries) != 2 {
		t.Fatalf("expected 2 itineraries, got %d", len(itineraries))
	}
	if itineraries[0].Return != nil {
		t.Error("one-way itinerary has a return leg")
	}
	if itineraries[0].SelfTransfer {
		t.Error("single-segment one-way marked self-transfer")
	}
	if !itineraries[1].SelfTransfer {
		t.Error("connecting one-way not marked self-transfer")
	}
}
