// Package observability holds logging and the Prometheus metrics exported by
// the hotspot service. Metric vars register themselves with the default
// registry at init; the router exposes them on /metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hotspot"

// LoginAttemptsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", "throttled"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// VouchersGeneratedTotal counts generated voucher codes.
var VouchersGeneratedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vouchers_generated_total",
		Help:      "Total number of voucher codes generated.",
	},
)

// VouchersRedeemedTotal counts validate calls by outcome.
// Label:
//   - result: "redeemed", "invalid", "expired", "used"
var VouchersRedeemedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vouchers_redeemed_total",
		Help:      "Total number of voucher validation attempts, by result.",
	},
	[]string{"result"},
)

// SessionsTerminatedTotal counts administrative session terminations.
var SessionsTerminatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_terminated_total",
		Help:      "Total number of sessions terminated from the dashboard.",
	},
)

// RequestDuration measures request handling time.
// Labels:
//   - method, path, status
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "path", "status"},
)

// ErrorsTotal counts error responses by code.
var ErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "errors_total",
		Help:      "Total number of error responses, by error code.",
	},
	[]string{"code"},
)
