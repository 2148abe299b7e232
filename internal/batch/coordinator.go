package batch

import (
	"context"
	"time"

	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/wesleyorama2/volley/internal/auth"
)

// Coordinator fans a batch out over an Executor and joins every result.
type Coordinator struct {
	executor *Executor
	now      func() time.Time
	log      logrus.FieldLogger
}

// NewCoordinator creates a coordinator. It shares the executor's clock and logger.
func NewCoordinator(executor *Executor) *Coordinator {
	return &Coordinator{
		executor: executor,
		now:      executor.now,
		log:      executor.log,
	}
}

// Run dispatches every descriptor at once and waits for all of them to
// settle. Results[i] always belongs to descriptors[i]. A failing request
// never cancels its siblings; ctx only reaches the transport.
func (c *Coordinator) Run(ctx context.Context, descriptors []Descriptor, global auth.Descriptor) Report {
	runID := uuid.NewV4().String()
	log := c.log.WithField("run_id", runID)

	start := c.now()
	log.WithField("requests", len(descriptors)).Debug("batch started")

	results := make([]Result, len(descriptors))

	// Tasks never return an error, so the group never cancels anything.
	var g errgroup.Group
	for i, d := range descriptors {
		i, d := i, d
		g.Go(func() error {
			results[i] = c.executor.Execute(ctx, d, global)
			return nil
		})
	}
	_ = g.Wait()

	total := c.now().Sub(start)

	summary := Summarize(results, total)
	summary.RunID = runID
	summary.StartedAt = start

	log.WithFields(logrus.Fields{
		"success":  summary.SuccessCount,
		"failure":  summary.FailureCount,
		"duration": total,
	}).Debug("batch complete")

	return Report{Results: results, Summary: summary}
}
