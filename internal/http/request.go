package http

import (
	"context"
	"net/http"
	"strings"
)

// Request is a fully assembled request ready to be sent.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	// Body is nil when the request carries no payload.
	Body *string
}

// Build constructs an http.Request bound to ctx.
//
// Header keys are set without canonicalization so the server receives them
// as the collection spelled them.
func (r *Request) Build(ctx context.Context) (*http.Request, error) {
	method := strings.ToUpper(strings.TrimSpace(r.Method))
	if method == "" {
		method = http.MethodGet
	}

	var req *http.Request
	var err error
	if r.Body != nil {
		req, err = http.NewRequestWithContext(ctx, method, r.URL, strings.NewReader(*r.Body))
	} else {
		req, err = http.NewRequestWithContext(ctx, method, r.URL, nil)
	}
	if err != nil {
		return nil, err
	}

	for key, value := range r.Headers {
		if strings.EqualFold(key, "Host") {
			req.Host = value
			continue
		}
		req.Header[key] = []string{value}
	}

	return req, nil
}
