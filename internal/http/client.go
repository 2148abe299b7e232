package http

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"time"
)

// Transport sends a single request. Implementations must be safe for
// concurrent use; the batch coordinator shares one across all requests.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// StatusPolicy decides whether a received response is reported as an error.
type StatusPolicy int

const (
	// StatusPassThrough returns every response, whatever its status code.
	StatusPassThrough StatusPolicy = iota
	// StatusFailNon2xx turns responses outside 2xx into a *TransportError.
	StatusFailNon2xx
)

// Client is the net/http backed Transport.
type Client struct {
	httpClient   *http.Client
	statusPolicy StatusPolicy
}

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// NewClient creates a new HTTP client with the given options
func NewClient(options ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		},
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithStatusPolicy selects how non-2xx responses are reported
func WithStatusPolicy(policy StatusPolicy) ClientOption {
	return func(c *Client) {
		c.statusPolicy = policy
	}
}

// WithInsecureSkipVerify disables TLS certificate verification
func WithInsecureSkipVerify(skip bool) ClientOption {
	return func(c *Client) {
		t, ok := c.httpClient.Transport.(*http.Transport)
		if !ok {
			return
		}
		if t.TLSClientConfig == nil {
			t.TLSClientConfig = &tls.Config{}
		}
		t.TLSClientConfig.InsecureSkipVerify = skip
	}
}

// Send executes the request, reads the whole body and records phase timings.
func (c *Client) Send(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := req.Build(ctx)
	if err != nil {
		return nil, &TransportError{Message: fmt.Sprintf("invalid request: %v", err), Err: err}
	}

	timing := TimingInfo{
		StartTime: time.Now(),
	}

	var dnsStart, connectStart, tlsHandshakeStart time.Time
	// lastPhaseEnd tracks the end of the last completed phase so TTFB
	// only covers waiting for the server.
	lastPhaseEnd := timing.StartTime

	trace := &httptrace.ClientTrace{
		DNSStart: func(info httptrace.DNSStartInfo) {
			dnsStart = time.Now()
		},
		DNSDone: func(info httptrace.DNSDoneInfo) {
			end := time.Now()
			timing.DNSLookupTime = end.Sub(dnsStart)
			lastPhaseEnd = end
		},
		ConnectStart: func(network, addr string) {
			connectStart = time.Now()
		},
		ConnectDone: func(network, addr string, err error) {
			if err == nil {
				end := time.Now()
				timing.TCPConnectTime = end.Sub(connectStart)
				lastPhaseEnd = end
			}
		},
		TLSHandshakeStart: func() {
			tlsHandshakeStart = time.Now()
		},
		TLSHandshakeDone: func(state tls.ConnectionState, err error) {
			if err == nil {
				end := time.Now()
				timing.TLSHandshakeTime = end.Sub(tlsHandshakeStart)
				lastPhaseEnd = end
			}
		},
		GotFirstResponseByte: func() {
			timing.TimeToFirstByte = time.Since(lastPhaseEnd)
		},
	}

	httpReq = httpReq.WithContext(httptrace.WithClientTrace(httpReq.Context(), trace))

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Message: err.Error(), Err: err}
	}
	defer httpResp.Body.Close()

	contentTransferStart := time.Now()
	body, err := io.ReadAll(httpResp.Body)
	timing.ContentTransferTime = time.Since(contentTransferStart)
	timing.TotalTime = time.Since(timing.StartTime)
	if err != nil {
		return nil, &TransportError{
			Message:    fmt.Sprintf("reading response body: %v", err),
			StatusCode: httpResp.StatusCode,
			Err:        err,
		}
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    httpResp.Header,
		Body:       body,
		Timing:     timing,
	}

	if c.statusPolicy == StatusFailNon2xx && !resp.IsSuccess() {
		return resp, &TransportError{
			Message:    fmt.Sprintf("request failed with status %s", httpResp.Status),
			StatusCode: httpResp.StatusCode,
			Body:       string(body),
		}
	}

	return resp, nil
}
