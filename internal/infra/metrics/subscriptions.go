package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		subscriptionsExpiredTotal,
		entitlementsReconciledTotal,
	)
}

var (
	subscriptionsExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscriptions_expired_total",
			Help: "Premium entitlements revoked by the expiry sweep.",
		},
	)

	entitlementsReconciledTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "entitlements_reconciled_total",
			Help: "Successful payments whose missing entitlement was repaired by the reconciler.",
		},
	)
)

func IncSubscriptionsExpired(count int) {
	subscriptionsExpiredTotal.Add(float64(count))
}

func IncEntitlementsReconciled(count int) {
	entitlementsReconciledTotal.Add(float64(count))
}
