package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	PaymentDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "terminalpay",
			Subsystem: "payment",
			Name:      "duration_seconds",
			Help:      "End-to-end pay flow duration in seconds, including cardholder interaction",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"gateway", "state"},
	)

	PaymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "terminalpay",
			Subsystem: "payment",
			Name:      "transactions_total",
			Help:      "Total number of transactions by terminal state",
		},
		[]string{"gateway", "state"},
	)

	CompensatingCancelsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "terminalpay",
			Subsystem: "payment",
			Name:      "compensating_cancels_total",
			Help:      "Cancel calls issued to undo partially created gateway resources",
		},
		[]string{"gateway", "result"},
	)
)

func init() {
	Registry.MustRegister(PaymentDuration, PaymentsTotal, CompensatingCancelsTotal)
}
