package batch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	results := []Result{
		{Name: "a", Outcome: Success{StatusCode: 200}, Elapsed: 10 * time.Millisecond},
		{Name: "b", Outcome: Failure{Message: "x"}, Elapsed: 500 * time.Millisecond},
		{Name: "c", Outcome: Success{StatusCode: 500}, Elapsed: 30 * time.Millisecond},
		{Name: "d", Outcome: Success{StatusCode: 201}, Elapsed: 20 * time.Millisecond},
	}

	s := Summarize(results, 35*time.Millisecond)

	assert.Equal(t, 4, s.TotalRequests)
	assert.Equal(t, 3, s.SuccessCount)
	assert.Equal(t, 1, s.FailureCount)
	assert.Equal(t, 35*time.Millisecond, s.TotalElapsed)
	assert.Equal(t, int64(35), s.TotalElapsedMillis())
	assert.Equal(t, 20.0, s.AverageSuccessMillis)

	assert.Equal(t, 10*time.Millisecond, s.Latency.Min)
	assert.Equal(t, 30*time.Millisecond, s.Latency.Max)
	assert.InDelta(t, float64(20*time.Millisecond), float64(s.Latency.P50), float64(100*time.Microsecond))
	assert.InDelta(t, float64(30*time.Millisecond), float64(s.Latency.P99), float64(100*time.Microsecond))
	assert.LessOrEqual(t, s.Latency.P50, s.Latency.P90)
	assert.LessOrEqual(t, s.Latency.P90, s.Latency.P99)
}

func TestSummarize_AverageKeepsSubMillisecond(t *testing.T) {
	results := []Result{
		{Outcome: Success{StatusCode: 200}, Elapsed: 1900 * time.Microsecond},
		{Outcome: Success{StatusCode: 200}, Elapsed: 1900 * time.Microsecond},
		{Outcome: Success{StatusCode: 200}, Elapsed: 1900 * time.Microsecond},
	}

	s := Summarize(results, 2*time.Millisecond)

	assert.InDelta(t, 1.9, s.AverageSuccessMillis, 1e-9)
	assert.Equal(t, int64(1), results[0].ElapsedMillis())
}

func TestSummarize_NoSuccess(t *testing.T) {
	s := Summarize([]Result{{Outcome: Failure{Message: "x"}, Elapsed: time.Second}}, time.Second)

	assert.Equal(t, 1, s.FailureCount)
	assert.Zero(t, s.SuccessCount)
	assert.Zero(t, s.AverageSuccessMillis)
	assert.Equal(t, LatencyStats{}, s.Latency)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, 0)

	assert.Equal(t, Summary{}, s)
}

func TestResult_Accessors(t *testing.T) {
	ok := Result{Outcome: Success{StatusCode: 204, Body: "fine"}}
	bad := Result{Outcome: Failure{StatusCode: 502, Message: "bad gateway", Body: "upstream"}}

	assert.True(t, ok.Succeeded())
	assert.Equal(t, 204, ok.StatusCode())
	assert.Equal(t, "fine", ok.Body())
	assert.Empty(t, ok.Error())

	assert.False(t, bad.Succeeded())
	assert.Equal(t, 502, bad.StatusCode())
	assert.Equal(t, "upstream", bad.Body())
	assert.Equal(t, "bad gateway", bad.Error())
}
