package batch

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	// Histogram range in microseconds: 1µs to 1h, 3 significant figures.
	histogramMin     = 1
	histogramMax     = int64(time.Hour / time.Microsecond)
	histogramSigFigs = 3
)

// Summarize computes the aggregate view of settled results. total is the
// wall-clock span of the batch and is reported as is.
func Summarize(results []Result, total time.Duration) Summary {
	s := Summary{
		TotalRequests: len(results),
		TotalElapsed:  total,
	}

	hist := hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs)
	var sum time.Duration

	for _, r := range results {
		if !r.Succeeded() {
			s.FailureCount++
			continue
		}
		s.SuccessCount++
		sum += r.Elapsed

		if s.SuccessCount == 1 || r.Elapsed < s.Latency.Min {
			s.Latency.Min = r.Elapsed
		}
		if r.Elapsed > s.Latency.Max {
			s.Latency.Max = r.Elapsed
		}

		us := r.Elapsed.Microseconds()
		if us > histogramMax {
			us = histogramMax
		}
		// The value is clamped into range, so RecordValue cannot fail.
		_ = hist.RecordValue(us)
	}

	if s.SuccessCount == 0 {
		return s
	}

	s.AverageSuccessMillis = float64(sum) / float64(s.SuccessCount) / float64(time.Millisecond)
	s.Latency.P50 = quantile(hist, 50)
	s.Latency.P90 = quantile(hist, 90)
	s.Latency.P99 = quantile(hist, 99)

	return s
}

func quantile(h *hdrhistogram.Histogram, q float64) time.Duration {
	return time.Duration(h.ValueAtQuantile(q)) * time.Microsecond
}
