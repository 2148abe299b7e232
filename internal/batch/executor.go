package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wesleyorama2/volley/internal/auth"
	volleyhttp "github.com/wesleyorama2/volley/internal/http"
)

// Executor runs one descriptor end to end and never fails outward.
type Executor struct {
	transport volleyhttp.Transport
	baseline  map[string]string
	now       func() time.Time
	log       logrus.FieldLogger
}

// ExecutorOption is a function that configures an Executor
type ExecutorOption func(*Executor)

// NewExecutor creates an executor sending through transport
func NewExecutor(transport volleyhttp.Transport, options ...ExecutorOption) *Executor {
	e := &Executor{
		transport: transport,
		baseline:  map[string]string{},
		now:       time.Now,
		log:       discardLogger(),
	}

	for _, option := range options {
		option(e)
	}

	return e
}

// WithBaselineHeaders sets the headers every request starts from
func WithBaselineHeaders(headers map[string]string) ExecutorOption {
	return func(e *Executor) {
		e.baseline = make(map[string]string, len(headers))
		for k, v := range headers {
			e.baseline[k] = v
		}
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) ExecutorOption {
	return func(e *Executor) {
		e.now = now
	}
}

// WithLogger sets the logger that receives auth diagnostics
func WithLogger(log logrus.FieldLogger) ExecutorOption {
	return func(e *Executor) {
		e.log = log
	}
}

// Headers returns the final header set for d, without sending anything.
func (e *Executor) Headers(d Descriptor, global auth.Descriptor) (map[string]string, []auth.Diagnostic, error) {
	authLayer, diags, err := auth.Resolve(nil, d.Auth, global)
	if err != nil {
		return nil, diags, err
	}
	return Assemble(e.baseline, d.Headers, authLayer), diags, nil
}

// Execute sends d and classifies what happened. A panic raised while
// executing is recovered into a Failure.
func (e *Executor) Execute(ctx context.Context, d Descriptor, global auth.Descriptor) (res Result) {
	res = Result{
		Name:   d.Name,
		Folder: d.Folder,
		Method: d.Method,
		URL:    d.URL,
	}

	var start time.Time

	defer func() {
		if r := recover(); r != nil {
			e.log.WithField("request", d.Name).Errorf("recovered from panic: %v", r)
			res.Outcome = Failure{Message: fmt.Sprintf("panic: %v", r)}
			if !start.IsZero() && res.Elapsed == 0 {
				res.Elapsed = e.now().Sub(start)
			}
		}
	}()

	headers, diags, err := e.Headers(d, global)
	if _, ok := auth.Effective(d.Auth, global).(auth.None); ok {
		e.log.WithField("request", d.Name).Debug("auth disabled for request")
	}
	for _, diag := range diags {
		e.log.WithField("request", d.Name).Warn(diag.String())
		res.Diagnostics = append(res.Diagnostics, diag.String())
	}
	if err != nil {
		res.Outcome = Failure{Message: fmt.Sprintf("resolving auth: %v", err)}
		return res
	}

	req := &volleyhttp.Request{
		Method:  d.Method,
		URL:     d.URL,
		Headers: headers,
		Body:    d.Body,
	}

	start = e.now()
	resp, err := e.transport.Send(ctx, req)
	res.Elapsed = e.now().Sub(start)

	if resp != nil {
		res.Timing = resp.Timing
	}
	res.Outcome = classify(resp, err)
	return res
}

func classify(resp *volleyhttp.Response, err error) Outcome {
	if err != nil {
		var terr *volleyhttp.TransportError
		if errors.As(err, &terr) {
			return Failure{StatusCode: terr.StatusCode, Message: terr.Error(), Body: terr.Body}
		}
		return Failure{Message: err.Error()}
	}
	if resp == nil {
		return Failure{Message: "transport returned no response"}
	}
	return Success{StatusCode: resp.StatusCode, Body: string(resp.Body)}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
