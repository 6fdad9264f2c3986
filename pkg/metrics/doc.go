/*
Package metrics provides Prometheus instrumentation for hacfg.

All collectors are package-level variables registered with the default
registry at init, so any package can record a value without wiring. Because
hacfg runs as a short-lived command rather than a daemon, metrics are not
served over HTTP; WriteTextfile dumps the default gatherer to a file that the
node_exporter textfile collector picks up.

# Metrics Catalog

hacfg_node_requests_total{outcome}:
  - Type: Counter
  - One increment per HTTP attempt against a node address
  - outcome: success, http_error, timeout, unreachable

hacfg_node_request_duration_seconds{action}:
  - Type: Histogram
  - Duration of a single attempt, by remote action

hacfg_node_retries_total:
  - Type: Counter
  - Requests moved to the next address of the same node

hacfg_cib_pushes_total{target, result}:
  - Type: Counter
  - target: live or file; result: pushed, unchanged, failed

hacfg_transaction_duration_seconds{command}:
  - Type: Histogram
  - Wall time of one command transaction, middleware included

hacfg_reports_total{code}:
  - Type: Counter
  - Error and warning reports by report code

# Usage

	timer := metrics.NewTimer()
	err := chain.Run(env, command)
	timer.ObserveDurationVec(metrics.TransactionDuration, "node standby")

	if path != "" {
		_ = metrics.WriteTextfile(path)
	}
*/
package metrics
