// Package runner provides a high-level API for running a collection
// programmatically, the same way `volley run` does.
//
// # Quick Start
//
//	r := runner.NewRunner(runner.Config{
//	    Env:     map[string]string{"baseUrl": "https://api.example.com"},
//	    Timeout: 10 * time.Second,
//	})
//
//	result, err := r.RunFile(context.Background(), "api.postman_collection.json")
//	if err != nil {
//	    log.Fatal(err) // the collection could not be read or is invalid
//	}
//
//	fmt.Printf("%d/%d succeeded\n", result.Report.Summary.SuccessCount, result.Report.Summary.TotalRequests)
//
// # Failures
//
// RunFile and Run only return an error when the collection itself cannot be
// used. Every request settles into a Result, failed ones included; nothing a
// single request does can stop the others.
//
// # Custom transports
//
// Config.Transport replaces the HTTP client, which is how tests drive a
// runner without a network:
//
//	r := runner.NewRunner(runner.Config{Transport: myTransport})
//
// Thread Safety:
//
// A Runner is safe for concurrent use once created.
package runner
