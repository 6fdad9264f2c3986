package reports

import "fmt"

// RequestPayload describes a request sent to a node
type RequestPayload struct {
	Target string
	Data   string
}

func (p RequestPayload) message() string {
	if p.Data == "" {
		return fmt.Sprintf("sending HTTP request to: %s", p.Target)
	}
	return fmt.Sprintf("sending HTTP request to: %s\n--Debug Input Start--\n%s\n--Debug Input End--", p.Target, p.Data)
}

// NewNodeCommunicationStarted records a request about to be sent
func NewNodeCommunicationStarted(target, data string) Item {
	return newItem(KindTransport, NodeCommunicationStarted, SeverityDebug, RequestPayload{Target: target, Data: data})
}

// FinishedPayload describes a response received from a node
type FinishedPayload struct {
	Target       string
	ResponseCode int
	ResponseData string
}

func (p FinishedPayload) message() string {
	return fmt.Sprintf("finished calling: %s\nResponse Code: %d\n--Debug Response Start--\n%s\n--Debug Response End--",
		p.Target, p.ResponseCode, p.ResponseData)
}

// NewNodeCommunicationFinished records a response received from a node
func NewNodeCommunicationFinished(target string, code int, data string) Item {
	p := FinishedPayload{Target: target, ResponseCode: code, ResponseData: data}
	return newItem(KindTransport, NodeCommunicationFinished, SeverityDebug, p)
}

// NotConnectedPayload describes a connection that could not be established
type NotConnectedPayload struct {
	Node   string
	Reason string
}

func (p NotConnectedPayload) message() string {
	return fmt.Sprintf("unable to connect to %s (%s)", p.Node, p.Reason)
}

// NewNodeCommunicationNotConnected records a failed connection attempt
func NewNodeCommunicationNotConnected(node, why string) Item {
	p := NotConnectedPayload{Node: node, Reason: why}
	return newItem(KindTransport, NodeCommunicationNotConnected, SeverityDebug, p)
}

// RetryPayload describes a request retried via another address of a node
type RetryPayload struct {
	Node          string
	FailedAddress string
	NextAddress   string
	Request       string
}

func (p RetryPayload) message() string {
	return fmt.Sprintf("unable to connect to '%s' via address '%s', retrying request '%s' via address '%s'",
		p.Node, p.FailedAddress, p.Request, p.NextAddress)
}

// NewNodeCommunicationRetrying reports a retry via the next node address
func NewNodeCommunicationRetrying(node, failed, next, request string) Item {
	p := RetryPayload{Node: node, FailedAddress: failed, NextAddress: next, Request: request}
	return newItem(KindTransport, NodeCommunicationRetrying, SeverityWarning, p)
}

// NoMoreAddressesPayload describes a request with every address exhausted
type NoMoreAddressesPayload struct {
	Node    string
	Request string
}

func (p NoMoreAddressesPayload) message() string {
	return fmt.Sprintf("unable to connect to '%s' via any of its addresses, request '%s' failed", p.Node, p.Request)
}

// NewNodeCommunicationNoMoreAddresses reports a node with no address left to try
func NewNodeCommunicationNoMoreAddresses(node, request string) Item {
	p := NoMoreAddressesPayload{Node: node, Request: request}
	return newItem(KindTransport, NodeCommunicationNoMoreAddresses, SeverityWarning, p)
}

// ProxyPayload names the node reached while a proxy was configured
type ProxyPayload struct {
	Node    string
	Address string
}

func (p ProxyPayload) message() string {
	return "proxy is set in environment variables, try disabling it"
}

// NewNodeCommunicationProxyIsSet advises that a proxy may have caused a failure
func NewNodeCommunicationProxyIsSet(node, address string) Item {
	p := ProxyPayload{Node: node, Address: address}
	return newItem(KindTransport, NodeCommunicationProxyIsSet, SeverityWarning, p)
}

// NodeErrorPayload describes an unsuccessful node request
type NodeErrorPayload struct {
	Node        string
	Command     string
	Reason      string
	Description string
}

func (p NodeErrorPayload) message() string {
	return fmt.Sprintf("%s: %s when running '%s': %s", p.Node, p.Description, p.Command, p.Reason)
}

var nodeErrorDescriptions = map[Code]string{
	NodeCommunicationCommandUnsuccessful:   "command unsuccessful",
	NodeCommunicationErrorNotAuthorized:    "not authorized",
	NodeCommunicationErrorPermissionDenied: "permission denied",
	NodeCommunicationErrorUnsupported:      "unsupported command",
	NodeCommunicationErrorOther:            "error",
	NodeCommunicationErrorTimedOut:         "connection timed out",
	NodeCommunicationErrorUnableToConnect:  "unable to connect",
}

// NewNodeCommunicationError builds one of the node communication error reports.
// The code must be one of the NodeCommunicationError* codes or
// NodeCommunicationCommandUnsuccessful.
func NewNodeCommunicationError(code Code, node, command, why string, severity Severity, forceable bool, force ForceCode) Item {
	p := NodeErrorPayload{Node: node, Command: command, Reason: why, Description: nodeErrorDescriptions[code]}
	return withForce(newItem(KindTransport, code, severity, p), forceable, force)
}
