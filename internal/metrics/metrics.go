package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	SessionsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_sessions_created_total",
			Help: "Number of checkout sessions created",
		},
	)

	SessionsExpired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_sessions_expired_total",
			Help: "Number of checkout sessions lazily marked expired",
		},
	)

	OrdersMaterialized = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_materialized_total",
			Help: "Number of orders created from confirmed sessions",
		},
	)

	GatewayCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_gateway_calls_total",
			Help: "Payment gateway calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	GatewayLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "payment_gateway_call_seconds",
			Help: "Payment gateway call latency",
		},
	)
)

func Register() {
	prometheus.MustRegister(SessionsCreated, SessionsExpired, OrdersMaterialized, GatewayCalls, GatewayLatency)
}
