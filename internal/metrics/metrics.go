package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rihla_offer_searches_total",
		Help: "Offer searches against the inventory provider, by outcome",
	}, []string{"outcome"})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rihla_response_cache_hits_total",
		Help: "Search responses served from the response cache",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rihla_response_cache_misses_total",
		Help: "Search responses that had to hit the provider",
	})

	TokenRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rihla_token_refreshes_total",
		Help: "Client-credentials token exchanges performed",
	})

	RateLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rihla_rate_limit_hits_total",
		Help: "429 responses received from the provider",
	})

	CalendarDays = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rihla_calendar_days_resolved_total",
		Help: "Calendar days resolved by the scheduler, by status",
	}, []string{"status"})
)
