package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		subscriptionProvisionsTotal,
		subscriptionCancellationsTotal,
		subscriptionsLapsedTotal,
	)
}

var (
	subscriptionProvisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_provisions_total",
			Help: "Subscription period grants by plan and billing cycle.",
		},
		[]string{"plan", "cycle"},
	)

	subscriptionCancellationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_cancellations_total",
			Help: "Cancellations by origin (user/gateway).",
		},
		[]string{"origin"},
	)

	subscriptionsLapsedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscriptions_lapsed_total",
			Help: "Subscriptions closed by the expiry sweep.",
		},
	)
)

func IncSubscriptionProvision(plan, cycle string) {
	subscriptionProvisionsTotal.WithLabelValues(norm(plan), norm(cycle)).Inc()
}

func IncSubscriptionCancellation(origin string) {
	subscriptionCancellationsTotal.WithLabelValues(norm(origin)).Inc()
}

func AddSubscriptionsLapsed(n int64) {
	subscriptionsLapsedTotal.Add(float64(n))
}
