// Package sender turns push requests into bytes on the wire and back.
//
// It has two halves. The Encoder serialises a request body to JSON and
// gzips it once it grows past a threshold. The Transport performs one
// request/response exchange; HTTPTransport is the default implementation and
// runs over any HTTPClient, so tests and applications can substitute their
// own round-tripper.
//
// # Usage
//
//	enc := sender.NewEncoder(sender.DefaultGzipThreshold)
//	payload, err := enc.Encode(messages)
//	if err != nil {
//	    return err
//	}
//
//	tr := sender.NewHTTPTransport(sender.DefaultBaseURL, http.DefaultClient)
//	resp, err := tr.RoundTrip(ctx, sender.Request{
//	    Method: http.MethodPost,
//	    Path:   "/--/api/v2/push/send",
//	    Header: payload.Header(),
//	    Body:   payload.Body,
//	})
//
// # Custom Transports
//
// Implement the Transport interface to send through something other than
// net/http, for example a recorded fixture in tests.
//
// # Version
//
// Current version: 2.0.0
// Minimum compatible version: 2.0.0
//
// See version.go for version constants that can be used programmatically.
package sender
