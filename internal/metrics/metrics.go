package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glovo_http_requests_total",
		Help: "Total number of HTTP requests by method, route and status code.",
	},
		[]string{"method", "route", "code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "glovo_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	},
		[]string{"method", "route"},
	)

	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glovo_auth_logins_total",
		Help: "Login attempts by result (success, failure, error).",
	},
		[]string{"result"},
	)

	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glovo_auth_registrations_total",
		Help: "Total number of accounts registered.",
	})

	RateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glovo_rate_limited_total",
		Help: "Requests rejected by a rate limiter.",
	},
		[]string{"limiter"},
	)

	RefreshTokensSweptTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glovo_refresh_tokens_swept_total",
		Help: "Expired refresh tokens removed from the ledger.",
	})

	OrderEventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glovo_order_events_published_total",
		Help: "Order events handed to the broker by result.",
	},
		[]string{"result"},
	)
)
