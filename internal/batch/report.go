package batch

import (
	"time"

	"github.com/wesleyorama2/volley/internal/auth"
	volleyhttp "github.com/wesleyorama2/volley/internal/http"
)

// Descriptor is one request of a batch, fully resolved by the collection parser.
type Descriptor struct {
	Name string
	// Folder is the slash-joined folder path, empty at the top level.
	Folder  string
	Method  string
	URL     string
	Headers Headers
	// Body is nil when the request has no payload.
	Body *string
	// Auth is nil when the request inherits the batch-wide auth.
	Auth auth.Descriptor
}

// Outcome is either Success or Failure.
type Outcome interface {
	outcome()
}

// Success carries the response the transport returned, whatever its status.
type Success struct {
	StatusCode int
	Body       string
}

// Failure carries a request that never produced a usable response.
type Failure struct {
	// StatusCode is 0 when the transport did not expose one.
	StatusCode int
	Message    string
	// Body is empty when no response body was received.
	Body string
}

func (Success) outcome() {}
func (Failure) outcome() {}

// Result is the settled state of one descriptor.
type Result struct {
	Name    string
	Folder  string
	Method  string
	URL     string
	Outcome Outcome
	// Elapsed covers the transport call only.
	Elapsed time.Duration
	// Timing is the phase breakdown of the response, zero when none arrived.
	Timing      volleyhttp.TimingInfo
	Diagnostics []string
}

// Succeeded reports whether the outcome is a Success.
func (r Result) Succeeded() bool {
	_, ok := r.Outcome.(Success)
	return ok
}

// StatusCode returns the status code of either outcome, 0 when there is none.
func (r Result) StatusCode() int {
	switch o := r.Outcome.(type) {
	case Success:
		return o.StatusCode
	case Failure:
		return o.StatusCode
	}
	return 0
}

// Body returns the response body of either outcome.
func (r Result) Body() string {
	switch o := r.Outcome.(type) {
	case Success:
		return o.Body
	case Failure:
		return o.Body
	}
	return ""
}

// Error returns the failure message, empty for a success.
func (r Result) Error() string {
	if f, ok := r.Outcome.(Failure); ok {
		return f.Message
	}
	return ""
}

// ElapsedMillis returns Elapsed in whole milliseconds.
func (r Result) ElapsedMillis() int64 {
	return r.Elapsed.Milliseconds()
}

// LatencyStats are computed over successful results only.
type LatencyStats struct {
	Min time.Duration
	Max time.Duration
	P50 time.Duration
	P90 time.Duration
	P99 time.Duration
}

// Summary aggregates a settled batch.
type Summary struct {
	RunID         string
	StartedAt     time.Time
	TotalRequests int
	SuccessCount  int
	FailureCount  int
	// TotalElapsed is the wall-clock span of the whole batch.
	TotalElapsed time.Duration
	// AverageSuccessMillis is 0 when nothing succeeded.
	AverageSuccessMillis float64
	Latency              LatencyStats
}

// TotalElapsedMillis returns TotalElapsed in whole milliseconds.
func (s Summary) TotalElapsedMillis() int64 {
	return s.TotalElapsed.Milliseconds()
}

// Report is what a batch run hands to the presentation layer.
// Results are in descriptor order.
type Report struct {
	Results []Result
	Summary Summary
}
