// Package batch executes a collection of HTTP requests concurrently and
// aggregates the outcome.
//
// The pipeline for a single request is:
//
//	baseline headers < declared headers < auth headers  ->  Transport.Send
//
// Executor runs one Descriptor and always produces a Result; transport
// errors, missing credentials and panics all become a Failure outcome.
// Coordinator starts every descriptor at once, waits for all of them and
// returns a Report whose Results follow the input order.
//
// Basic Usage:
//
//	client := http.NewClient(http.WithTimeout(30 * time.Second))
//	exec := batch.NewExecutor(client,
//	    batch.WithBaselineHeaders(map[string]string{"Content-Type": "application/json"}),
//	)
//
//	report := batch.NewCoordinator(exec).Run(ctx, descriptors, auth.Bearer{Token: token})
//	fmt.Printf("%d/%d succeeded\n", report.Summary.SuccessCount, report.Summary.TotalRequests)
//
// Thread Safety:
//
// Executor and Coordinator hold no mutable state and may be shared. The
// Transport passed to NewExecutor must be safe for concurrent use.
package batch
