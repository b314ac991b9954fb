package cache

import (
	"strconv"
	"strings"

	"github.com/da7a90-backup/rihla-travel-agency/internal/domain/flight"
)

// SearchKey builds the canonical cache key for a search. Two logically
// identical requests must land on the same key, so codes are upper-cased
// and dates reduced to calendar days before joining.
func SearchKey(c flight.SearchCriteria, currency string, maxResults int) string {
	parts := []string{
		"offers",
		strings.ToUpper(strings.TrimSpace(c.Origin)),
		strings.ToUpper(strings.TrimSpace(c.Destination)),
		c.DepartureDate.Format("2006-01-02"),
		"",
		strconv.Itoa(c.Adults),
		strings.ToUpper(currency),
		strconv.Itoa(maxResults),
		strings.ToUpper(c.TravelClass),
		strconv.FormatBool(c.NonStop),
	}
	if c.ReturnDate != nil {
		parts[4] = c.ReturnDate.Format("2006-01-02")
	}
	return strings.Join(parts, ":")
}
