package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/da7a90-backup/rihla-travel-agency/internal/domain/flight"
)

// Fetcher is the offer source. The wire client implements it; tests use
// stubs.
type Fetcher interface {
	Search(ctx context.Context, criteria flight.SearchCriteria) ([]flight.Offer, error)
}

type Search struct {
	fetcher  Fetcher
	composer *Composer
}

func NewSearch(fetcher Fetcher, composer *Composer) *Search {
	return &Search{fetcher: fetcher, composer: composer}
}

type SearchOutput struct {
	Criteria     flight.SearchCriteria `json:"criteria"`
	Itineraries  []flight.Itinerary    `json:"itineraries"`
	SearchTimeMs int64                 `json:"search_time_ms"`
}

// Execute runs a one-shot search. Round trips issue one directional fetch
// per leg and compose the pairs; one-way results are wrapped as lone
// itineraries. Both paths end in the ranking stage.
func (s *Search) Execute(ctx context.Context, criteria flight.SearchCriteria) (*SearchOutput, error) {
	start := time.Now()

	outboundCriteria := criteria
	outboundCriteria.ReturnDate = nil
	outbound, err := s.fetcher.Search(ctx, outboundCriteria)
	if err != nil {
		return nil, fmt.Errorf("outbound search: %w", err)
	}

	var itineraries []flight.Itinerary
	if criteria.RoundTrip() {
		returnCriteria := criteria
		returnCriteria.Origin = criteria.Destination
		returnCriteria.Destination = criteria.Origin
		returnCriteria.DepartureDate = *criteria.ReturnDate
		returnCriteria.ReturnDate = nil

		returns, err := s.fetcher.Search(ctx, returnCriteria)
		if err != nil {
			return nil, fmt.Errorf("return search: %w", err)
		}

		itineraries = s.composer.Compose(outbound, returns)
	} else {
		itineraries = s.composer.ComposeOneWay(outbound)
	}

	itineraries = Tag(itineraries)

	return &SearchOutput{
		Criteria:     criteria,
		Itineraries:  itineraries,
		SearchTimeMs: time.Since(start).Milliseconds(),
	}, nil
}
