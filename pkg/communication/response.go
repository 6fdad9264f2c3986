package communication

import (
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/cuemby/hacfg/pkg/reports"
)

// Response is the outcome of one attempt. It is never modified after the
// attempt finished.
type Response struct {
	Label        string
	Host         string
	Action       string
	URL          string
	Payload      string
	WasConnected bool
	StatusCode   int
	Data         string
	ErrorMsg     string
	TimedOut     bool
	Duration     time.Duration
}

// OK reports whether the node was reached and accepted the request
func (r *Response) OK() bool {
	return r.WasConnected && r.StatusCode < http.StatusBadRequest
}

// ResponseToReport classifies an unsuccessful response. It returns nil for a
// response that needs no report.
func ResponseToReport(resp *Response, severity reports.Severity, force reports.ForceCode) *reports.Item {
	var code reports.Code
	var reason string

	httpError := fmt.Sprintf("HTTP error: %d", resp.StatusCode)
	switch {
	case !resp.WasConnected && resp.TimedOut:
		code, reason = reports.NodeCommunicationErrorTimedOut, resp.ErrorMsg
	case !resp.WasConnected:
		code, reason = reports.NodeCommunicationErrorUnableToConnect, resp.ErrorMsg
	case resp.StatusCode == http.StatusBadRequest:
		// pcsd sends plain text errors with status 400
		code, reason = reports.NodeCommunicationCommandUnsuccessful, strings.TrimRightFunc(resp.Data, unicode.IsSpace)
	case resp.StatusCode == http.StatusUnauthorized:
		code, reason = reports.NodeCommunicationErrorNotAuthorized, httpError
	case resp.StatusCode == http.StatusForbidden:
		code, reason = reports.NodeCommunicationErrorPermissionDenied, httpError
	case resp.StatusCode == http.StatusNotFound:
		code, reason = reports.NodeCommunicationErrorUnsupported, httpError
	case resp.StatusCode >= http.StatusBadRequest:
		code, reason = reports.NodeCommunicationErrorOther, httpError
	default:
		return nil
	}

	item := reports.NewNodeCommunicationError(
		code, resp.Host, resp.Action, reason, severity, force != "", force,
	)
	return &item
}
