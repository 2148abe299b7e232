package http

// TransportError is returned by Send when the request could not be completed
// or, under StatusFailNon2xx, when the server answered with a non-2xx status.
type TransportError struct {
	Message string
	// StatusCode is 0 when no response was received.
	StatusCode int
	// Body is the response body, empty when no response was received.
	Body string
	Err  error
}

func (e *TransportError) Error() string {
	return e.Message
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
