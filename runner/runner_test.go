package runner

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	volleyhttp "github.com/wesleyorama2/volley/internal/http"
)

type stubTransport struct {
	mu   sync.Mutex
	seen map[string]map[string]string
}

func (s *stubTransport) Send(_ context.Context, req *volleyhttp.Request) (*volleyhttp.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen == nil {
		s.seen = make(map[string]map[string]string)
	}
	s.seen[req.URL] = req.Headers

	if req.URL == "http://stub/fail" {
		return nil, &volleyhttp.TransportError{Message: "connection reset", Err: errors.New("reset")}
	}
	return &volleyhttp.Response{StatusCode: 200, Status: "200 OK", Body: []byte("ok")}, nil
}

func TestRunWithTransport(t *testing.T) {
	stub := &stubTransport{}
	r := NewRunner(Config{
		Env:       map[string]string{"host": "http://stub"},
		Headers:   map[string]string{"User-Agent": "test"},
		Transport: stub,
	})

	raw := `{
	  "info": {"name": "Stubbed"},
	  "auth": {"type": "basic", "basic": {"username": "u", "password": "p"}},
	  "item": [
	    {"name": "ok", "request": "{{host}}/ok"},
	    {"name": "fail", "request": "{{host}}/fail"}
	  ]
	}`

	result, err := r.Run(context.Background(), []byte(raw), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "Stubbed", result.Name)
	require.Len(t, result.Report.Results, 2)
	assert.True(t, result.Report.Results[0].Succeeded())
	assert.Equal(t, "connection reset", result.Report.Results[1].Error())
	assert.Equal(t, 1, result.Report.Summary.SuccessCount)
	assert.Equal(t, 1, result.Report.Summary.FailureCount)

	assert.Equal(t, "Basic dTpw", stub.seen["http://stub/ok"]["Authorization"])
	assert.Equal(t, "test", stub.seen["http://stub/ok"]["User-Agent"])
}

func TestRunFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "c.yaml")
	content := "item:\n" +
		"  - name: ok\n    request: " + srv.URL + "/ok\n" +
		"  - name: missing\n    request: " + srv.URL + "/missing\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Run("Pass through", func(t *testing.T) {
		result, err := NewRunner(Config{}).RunFile(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Report.Summary.SuccessCount)
		assert.Equal(t, 404, result.Report.Results[1].StatusCode())
	})

	t.Run("Fail on status", func(t *testing.T) {
		result, err := NewRunner(Config{FailOnStatus: true}).RunFile(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Report.Summary.FailureCount)
		assert.False(t, result.Report.Results[1].Succeeded())
		assert.Equal(t, 404, result.Report.Results[1].StatusCode())
	})
}

func TestRunInvalidCollection(t *testing.T) {
	_, err := NewRunner(Config{}).Run(context.Background(), []byte(`{"item": "nope"}`), FormatJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid collection")

	_, err = NewRunner(Config{}).RunFile(context.Background(), filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
