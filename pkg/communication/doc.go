/*
Package communication sends requests to pcsd on cluster nodes.

A node is a Target with one or more addresses. Run tries them in order: a
failed connection moves the request to the next address, any HTTP answer ends
the request, even an error status, because the node was reached. When every
address fails the request is exhausted.

	PENDING ──attempt──▶ SUCCESS        node answered
	   ▲         │
	   │         ├──────▶ RETRYING ──┐   connection failed, address left
	   └─────────┼───────────────────┘
	             └──────▶ EXHAUSTED     connection failed, no address left

Every step goes through a Logger. ReportingLogger logs with zerolog, turns
steps into reports and publishes events. A failed connection while an
https_proxy or all_proxy variable is set adds a proxy warning.

ResponseToReport classifies a finished response into a report: status 400 is
"command unsuccessful" with the body as reason (pcsd's plain text errors),
401, 403 and 404 map to not authorized, permission denied and unsupported
command, other 4xx and 5xx statuses to a generic error, and failed
connections to timed out or unable to connect.

RunParallel runs one goroutine per request and joins them all. Workers share
only the report processor, metrics, the event broker and the optional
per-response callback.
*/
package communication
