package communication

import (
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/cuemby/hacfg/pkg/events"
	"github.com/cuemby/hacfg/pkg/reports"
)

// Logger receives every step of a request's life
type Logger interface {
	LogRequestStart(req *Request, url string)
	LogResponse(resp *Response)
	LogRetry(resp *Response, req *Request, nextURL string)
	LogNoMoreAddresses(resp *Response)
}

// ReportingLogger logs request steps through zerolog and turns them into
// reports and events
type ReportingLogger struct {
	logger    zerolog.Logger
	processor *reports.Processor
	broker    *events.Broker
	getenv    func(string) string
}

// NewReportingLogger creates a logger. broker may be nil.
func NewReportingLogger(logger zerolog.Logger, processor *reports.Processor, broker *events.Broker) *ReportingLogger {
	return &ReportingLogger{
		logger:    logger,
		processor: processor,
		broker:    broker,
		getenv:    os.Getenv,
	}
}

// WithGetenv replaces the environment lookup used for proxy detection
func (l *ReportingLogger) WithGetenv(getenv func(string) string) *ReportingLogger {
	l.getenv = getenv
	return l
}

// LogRequestStart implements Logger
func (l *ReportingLogger) LogRequestStart(req *Request, url string) {
	l.logger.Debug().
		Str("url", url).
		Str("data", req.Payload()).
		Msg("Sending HTTP request")
	_ = l.processor.Process(reports.NewNodeCommunicationStarted(url, req.Payload()))
	l.broker.Emit(events.EventNodeRequestStarted, url, map[string]string{
		"node":   req.Target.Label,
		"action": req.Action,
	})
}

// LogResponse implements Logger
func (l *ReportingLogger) LogResponse(resp *Response) {
	if resp.WasConnected {
		l.logger.Debug().
			Str("url", resp.URL).
			Int("code", resp.StatusCode).
			Str("response", resp.Data).
			Dur("duration", resp.Duration).
			Msg("Finished calling")
		_ = l.processor.Process(reports.NewNodeCommunicationFinished(resp.URL, resp.StatusCode, resp.Data))
	} else {
		l.logger.Debug().
			Str("node", resp.Host).
			Str("reason", resp.ErrorMsg).
			Msg("Unable to connect")
		_ = l.processor.Process(reports.NewNodeCommunicationNotConnected(resp.Host, resp.ErrorMsg))
		if IsProxySet(l.getenv) {
			l.logger.Warn().Msg("Proxy is set")
			_ = l.processor.Process(reports.NewNodeCommunicationProxyIsSet(resp.Label, resp.Host))
		}
	}
	l.broker.Emit(events.EventNodeResponse, resp.URL, map[string]string{
		"node":      resp.Label,
		"connected": strconv.FormatBool(resp.WasConnected),
		"status":    strconv.Itoa(resp.StatusCode),
	})
}

// LogRetry implements Logger
func (l *ReportingLogger) LogRetry(resp *Response, req *Request, nextURL string) {
	l.logger.Warn().
		Str("node", resp.Label).
		Str("failed_address", resp.Host).
		Str("next_address", req.Host()).
		Str("request", nextURL).
		Msg("Unable to connect, retrying via next address")
	_ = l.processor.Process(reports.NewNodeCommunicationRetrying(resp.Label, resp.Host, req.Host(), nextURL))
	l.broker.Emit(events.EventNodeRetrying, nextURL, map[string]string{
		"node":           resp.Label,
		"failed_address": resp.Host,
		"next_address":   req.Host(),
	})
}

// LogNoMoreAddresses implements Logger
func (l *ReportingLogger) LogNoMoreAddresses(resp *Response) {
	l.logger.Warn().
		Str("node", resp.Label).
		Str("request", resp.URL).
		Msg("No more addresses for node")
	_ = l.processor.Process(reports.NewNodeCommunicationNoMoreAddresses(resp.Label, resp.URL))
	l.broker.Emit(events.EventNodeNoMoreAddresses, resp.URL, map[string]string{"node": resp.Label})
}

// IsProxySet reports whether https_proxy or all_proxy, in either case, is set
// to a non-empty value
func IsProxySet(getenv func(string) string) bool {
	for _, name := range []string{"https_proxy", "all_proxy", "HTTPS_PROXY", "ALL_PROXY"} {
		if getenv(name) != "" {
			return true
		}
	}
	return false
}
