package communication

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cuemby/hacfg/pkg/metrics"
)

// State of a request
type State int

const (
	// StatePending means an attempt is about to be made
	StatePending State = iota
	// StateSuccess means a node address was reached, whatever it answered
	StateSuccess
	// StateRetrying means the attempt failed to connect and another address
	// is left
	StateRetrying
	// StateExhausted means no address of the node could be reached
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSuccess:
		return "success"
	case StateRetrying:
		return "retrying"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Config configures a Communicator
type Config struct {
	// Scheme is http or https
	Scheme string
	// Timeout bounds one attempt
	Timeout time.Duration
	// InsecureSkipVerify disables TLS certificate checks; pcsd runs with
	// self-signed certificates by default
	InsecureSkipVerify bool
	// Transport overrides the HTTP transport
	Transport http.RoundTripper
}

// Communicator runs requests against cluster nodes, falling back to the next
// address of a node when a connection attempt fails
type Communicator struct {
	client *http.Client
	scheme string
	logger Logger
}

// New creates a communicator reporting through logger
func New(cfg Config, logger Logger) *Communicator {
	transport := cfg.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify}, //nolint:gosec
		}
	}
	scheme := cfg.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return &Communicator{
		client: &http.Client{Transport: transport, Timeout: cfg.Timeout},
		scheme: scheme,
		logger: logger,
	}
}

// Run drives req until a node address answers or no address is left
func (c *Communicator) Run(ctx context.Context, req *Request) (*Response, State) {
	for {
		resp, state := c.step(ctx, req)
		if state != StateRetrying {
			return resp, state
		}
	}
}

// step makes one attempt of req
func (c *Communicator) step(ctx context.Context, req *Request) (*Response, State) {
	url := req.URL(c.scheme)
	c.logger.LogRequestStart(req, url)
	resp := c.attempt(ctx, req, url)
	c.logger.LogResponse(resp)

	if resp.WasConnected {
		return resp, StateSuccess
	}
	if ctx.Err() == nil && req.next() {
		metrics.NodeRetriesTotal.Inc()
		c.logger.LogRetry(resp, req, req.URL(c.scheme))
		return resp, StateRetrying
	}
	c.logger.LogNoMoreAddresses(resp)
	return resp, StateExhausted
}

func (c *Communicator) attempt(ctx context.Context, req *Request, url string) *Response {
	resp := &Response{
		Label:   req.Target.Label,
		Host:    req.Host(),
		Action:  req.Action,
		URL:     url,
		Payload: req.Payload(),
	}
	start := time.Now()
	defer func() {
		resp.Duration = time.Since(start)
		metrics.NodeRequestDuration.WithLabelValues(req.Action).Observe(resp.Duration.Seconds())
		metrics.NodeRequestsTotal.WithLabelValues(outcome(resp)).Inc()
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(resp.Payload))
	if err != nil {
		resp.ErrorMsg = err.Error()
		return resp
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if req.Target.Token != "" {
		httpReq.AddCookie(&http.Cookie{Name: "token", Value: req.Target.Token})
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		resp.ErrorMsg = err.Error()
		resp.TimedOut = isTimeout(err)
		return resp
	}
	defer httpResp.Body.Close()

	resp.WasConnected = true
	resp.StatusCode = httpResp.StatusCode
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		resp.ErrorMsg = err.Error()
	}
	resp.Data = string(body)
	return resp
}

// RunParallel runs every request concurrently and waits for all of them.
// Responses come back in the order of reqs. A non-nil onResponse is called
// from the worker as soon as its response is complete, so it must be safe for
// concurrent use.
func (c *Communicator) RunParallel(ctx context.Context, reqs []*Request, onResponse func(*Response)) []*Response {
	responses := make([]*Response, len(reqs))
	var g errgroup.Group
	for i, req := range reqs {
		g.Go(func() error {
			resp, _ := c.Run(ctx, req)
			responses[i] = resp
			if onResponse != nil {
				onResponse(resp)
			}
			return nil
		})
	}
	_ = g.Wait()
	return responses
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func outcome(resp *Response) string {
	switch {
	case resp.OK():
		return metrics.OutcomeSuccess
	case resp.WasConnected:
		return metrics.OutcomeHTTPError
	case resp.TimedOut:
		return metrics.OutcomeTimeout
	default:
		return metrics.OutcomeUnreachable
	}
}
