package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		paymentsInitiatedTotal,
		paymentVerifyTotal,
		gatewayCallsDurationMs,
	)
}

var (
	paymentsInitiatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_initiated_total",
			Help: "Ledger entries opened by subscription purchases.",
		},
	)

	paymentVerifyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_verify_total",
			Help: "Verification attempts by outcome (success/invalid/duplicate/gateway_error).",
		},
		[]string{"result"},
	)

	gatewayCallsDurationMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_gateway_call_duration_ms",
			Help:    "Latency of external gateway calls in milliseconds.",
			Buckets: []float64{25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
		[]string{"call", "success"},
	)
)

func IncPaymentInitiated() {
	paymentsInitiatedTotal.Inc()
}

func IncPaymentVerify(result string) {
	paymentVerifyTotal.WithLabelValues(result).Inc()
}

func ObserveGatewayCall(call string, success bool, ms float64) {
	s := "false"
	if success {
		s = "true"
	}
	gatewayCallsDurationMs.WithLabelValues(call, s).Observe(ms)
}
