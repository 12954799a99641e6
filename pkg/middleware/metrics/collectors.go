package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	responseTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "response_time",
			Help:    "http response time.",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60},
		},
	)

	totalHttpRequestsFromRole = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests_from_role", Help: "http requests from role"},
		[]string{"role"},
	)

	totalHttpRequestsToUri = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests_to_uri", Help: "http requests to uri"},
		[]string{"code", "uri", "method"},
	)

	totalHttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests", Help: "http requests by code, and method"},
		[]string{"code", "method"},
	)
)

var (
	messagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "factory_messages_total", Help: "routed messages by topic and outcome"},
		[]string{"topic", "outcome"},
	)

	dispatchSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "factory_dispatch_seconds",
			Help:    "time spent in a topic handler.",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		},
		[]string{"topic"},
	)

	ordersProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "factory_orders_processed_total", Help: "accepted dashboard orders by color"},
		[]string{"color"},
	)

	itemsStored = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "factory_items_stored_total", Help: "orders reported as stored, by color"},
		[]string{"color"},
	)

	stockSlotsFilled = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "factory_stock_slots_filled", Help: "occupied high-bay warehouse slots"},
	)

	nfcLogEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "factory_nfc_log_entries", Help: "entries currently held in the NFC log"},
	)
)

func init() {
	prometheus.MustRegister(
		responseTime,
		totalHttpRequestsFromRole,
		totalHttpRequestsToUri,
		totalHttpRequests,
		messagesTotal,
		dispatchSeconds,
		ordersProcessed,
		itemsStored,
		stockSlotsFilled,
		nfcLogEntries,
	)
}
