package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legacy_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	loginThrottledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "legacy_login_throttled_total",
		Help: "Total number of sign-in attempts rejected by the login limiter.",
	})
)
