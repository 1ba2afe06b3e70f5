package sender

import (
	"context"
	"net/http"
)

// Request is a single exchange with the push service.
type Request struct {
	Method string

	// Path is appended to the transport's base URL and may carry a query.
	Path   string
	Header http.Header
	Body   []byte
}

// Response is the service's answer. Body is already decompressed.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Success reports whether the status code is 2xx.
func (r Response) Success() bool { return r.StatusCode/100 == 2 }

// Transport performs one request/response exchange. It returns an error only
// when no response was obtained; non-2xx responses are returned as values.
// Cancellation and timeouts come from ctx and the underlying client.
type Transport interface {
	RoundTrip(ctx context.Context, req Request) (Response, error)
}
