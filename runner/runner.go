package runner

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wesleyorama2/volley/internal/batch"
	"github.com/wesleyorama2/volley/internal/collection"
	volleyhttp "github.com/wesleyorama2/volley/internal/http"
)

type (
	// Report is a settled batch: results in collection order plus the summary.
	Report = batch.Report
	// Result is the outcome of one request.
	Result = batch.Result
	// Summary aggregates a batch.
	Summary = batch.Summary
	// Transport sends a single request.
	Transport = volleyhttp.Transport
	// Format is the syntax of a collection.
	Format = collection.Format
)

const (
	FormatJSON = collection.FormatJSON
	FormatYAML = collection.FormatYAML
)

// Config configures a Runner. The zero value runs with a 30s timeout, no
// baseline headers and an empty environment.
type Config struct {
	// Env supplies placeholder values. It overrides collection variables.
	Env map[string]string

	// Headers are sent with every request, below declared headers and auth.
	Headers map[string]string

	// Timeout bounds each request. Zero keeps the client default.
	Timeout time.Duration

	// FailOnStatus turns responses outside 2xx into failures.
	FailOnStatus bool

	// Insecure skips TLS certificate verification.
	Insecure bool

	// Logger receives configuration diagnostics. Nil discards them.
	Logger logrus.FieldLogger

	// Transport replaces the HTTP client built from the fields above.
	Transport Transport
}

// RunResult is what running one collection produced.
type RunResult struct {
	// Name is the collection name, empty when the collection has none.
	Name   string
	Report Report
}

// Runner loads collections and runs them as one concurrent batch each.
type Runner struct {
	env         map[string]string
	log         logrus.FieldLogger
	coordinator *batch.Coordinator
}

// NewRunner creates a new runner with the given configuration.
func NewRunner(cfg Config) *Runner {
	log := cfg.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	transport := cfg.Transport
	if transport == nil {
		transport = newClient(cfg)
	}

	executor := batch.NewExecutor(transport,
		batch.WithBaselineHeaders(cfg.Headers),
		batch.WithLogger(log),
	)

	return &Runner{
		env:         cfg.Env,
		log:         log,
		coordinator: batch.NewCoordinator(executor),
	}
}

func newClient(cfg Config) *volleyhttp.Client {
	options := []volleyhttp.ClientOption{
		volleyhttp.WithInsecureSkipVerify(cfg.Insecure),
	}
	if cfg.Timeout > 0 {
		options = append(options, volleyhttp.WithTimeout(cfg.Timeout))
	}
	if cfg.FailOnStatus {
		options = append(options, volleyhttp.WithStatusPolicy(volleyhttp.StatusFailNon2xx))
	}
	return volleyhttp.NewClient(options...)
}

// RunFile loads the collection at path and runs every request in it. The
// format is picked from the file extension.
func (r *Runner) RunFile(ctx context.Context, path string) (*RunResult, error) {
	c, err := collection.NewLoader(r.env, r.log.WithField("path", path)).Load(path)
	if err != nil {
		return nil, err
	}
	return r.run(ctx, c), nil
}

// Run parses raw as a collection in the given format and runs it.
func (r *Runner) Run(ctx context.Context, raw []byte, format Format) (*RunResult, error) {
	c, err := collection.NewLoader(r.env, r.log).Parse(raw, format)
	if err != nil {
		return nil, err
	}
	return r.run(ctx, c), nil
}

func (r *Runner) run(ctx context.Context, c *collection.Collection) *RunResult {
	return &RunResult{
		Name:   c.Name,
		Report: r.coordinator.Run(ctx, c.Requests, c.Auth),
	}
}
