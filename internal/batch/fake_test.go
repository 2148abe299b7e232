package batch

import (
	"context"
	"sync"
	"time"

	volleyhttp "github.com/wesleyorama2/volley/internal/http"
)

// fakeTransport answers from a per-URL table and records what it was sent.
type fakeTransport struct {
	mu       sync.Mutex
	requests []*volleyhttp.Request

	delay     map[string]time.Duration
	fail      map[string]error
	status    map[string]int
	timing    map[string]volleyhttp.TimingInfo
	panicOn   string
	onRequest func(url string)
}

func (f *fakeTransport) Send(ctx context.Context, req *volleyhttp.Request) (*volleyhttp.Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.onRequest != nil {
		f.onRequest(req.URL)
	}
	if d := f.delay[req.URL]; d > 0 {
		time.Sleep(d)
	}
	if req.URL == f.panicOn {
		panic("transport exploded")
	}
	if err := f.fail[req.URL]; err != nil {
		return nil, err
	}

	status := 200
	if s, ok := f.status[req.URL]; ok {
		status = s
	}
	return &volleyhttp.Response{StatusCode: status, Body: []byte("body of " + req.URL), Timing: f.timing[req.URL]}, nil
}

func (f *fakeTransport) sent() []*volleyhttp.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*volleyhttp.Request(nil), f.requests...)
}

// stepClock returns a clock advancing by step on every call.
func stepClock(step time.Duration) func() time.Time {
	var mu sync.Mutex
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(step)
		return now
	}
}
