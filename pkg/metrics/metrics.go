package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Node communication metrics
	NodeRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hacfg_node_requests_total",
			Help: "Total number of node request attempts by outcome",
		},
		[]string{"outcome"},
	)

	NodeRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hacfg_node_request_duration_seconds",
			Help:    "Node request attempt duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)

	NodeRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hacfg_node_retries_total",
			Help: "Total number of requests retried via another node address",
		},
	)

	// CIB metrics
	CIBPushesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hacfg_cib_pushes_total",
			Help: "Total number of CIB commits by target (live/file) and result",
		},
		[]string{"target", "result"},
	)

	// Transaction metrics
	TransactionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hacfg_transaction_duration_seconds",
			Help:    "Command transaction duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)

	ReportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hacfg_reports_total",
			Help: "Total number of error and warning reports by code",
		},
		[]string{"code"},
	)
)

// Outcome labels for NodeRequestsTotal
const (
	OutcomeSuccess     = "success"
	OutcomeHTTPError   = "http_error"
	OutcomeTimeout     = "timeout"
	OutcomeUnreachable = "unreachable"
)

func init() {
	// Register all metrics
	prometheus.MustRegister(NodeRequestsTotal)
	prometheus.MustRegister(NodeRequestDuration)
	prometheus.MustRegister(NodeRetriesTotal)
	prometheus.MustRegister(CIBPushesTotal)
	prometheus.MustRegister(TransactionDuration)
	prometheus.MustRegister(ReportsTotal)
}

// WriteTextfile writes every registered metric to path in the text exposition
// format, for pickup by the node_exporter textfile collector. hacfg is a short
// lived process, so it cannot be scraped directly.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
