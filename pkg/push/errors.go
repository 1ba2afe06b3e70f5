package push

import (
	"errors"
	"fmt"
)

// Pipeline errors. Every error returned while building, encoding, sending or
// decoding wraps exactly one of these and can be checked with errors.Is.
var (
	// ErrInvalidArgument is returned for local validation failures. Nothing
	// has been sent when this error is returned.
	ErrInvalidArgument = errors.New("expopush: invalid argument")

	// ErrSerialize is returned when a request body cannot be encoded.
	ErrSerialize = errors.New("expopush: serialize error")

	// ErrGzip is returned when a request body cannot be compressed.
	ErrGzip = errors.New("expopush: gzip error")

	// ErrDeserialize is returned when a response cannot be decoded into the
	// expected shape or carries an unknown status.
	ErrDeserialize = errors.New("expopush: deserialize error")

	// ErrServer is returned for transport failures and non-2xx responses.
	ErrServer = errors.New("expopush: server error")
)

// Validation errors returned by Builder.Build. All of them wrap ErrInvalidArgument.
var (
	ErrInvalidToken    = fmt.Errorf("%w: invalid token", ErrInvalidArgument)
	ErrInvalidPriority = fmt.Errorf("%w: invalid priority", ErrInvalidArgument)
	ErrInvalidSound    = fmt.Errorf("%w: invalid sound", ErrInvalidArgument)
	ErrInvalidData     = fmt.Errorf("%w: invalid data", ErrInvalidArgument)
)

// ServerError describes a failed exchange with the push service: either the
// transport failed (Err is set) or the service answered with a non-2xx status.
type ServerError struct {
	// StatusCode is the HTTP status, or 0 when the transport failed.
	StatusCode int

	// Body holds the raw response body of a non-2xx response.
	Body []byte

	// Err is the underlying transport error, if any.
	Err error
}

func (e *ServerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: request failed: %v", ErrServer, e.Err)
	}
	if len(e.Body) > 0 {
		return fmt.Sprintf("%s: status %d: %s", ErrServer, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: status %d", ErrServer, e.StatusCode)
}

// Unwrap exposes both ErrServer and the transport error.
func (e *ServerError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrServer, e.Err}
	}
	return []error{ErrServer}
}

// Kind is the closed error taxonomy of the push pipeline.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindSerialize
	KindGzip
	KindDeserialize
	KindServer
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindSerialize:
		return "SerializeErr"
	case KindGzip:
		return "GzipErr"
	case KindDeserialize:
		return "DeserializeErr"
	case KindServer:
		return "ServerErr"
	default:
		return "Unknown"
	}
}

// Classify maps err onto the error taxonomy. Errors that did not originate in
// the push pipeline (including nil) are KindUnknown.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrSerialize):
		return KindSerialize
	case errors.Is(err, ErrGzip):
		return KindGzip
	case errors.Is(err, ErrDeserialize):
		return KindDeserialize
	case errors.Is(err, ErrServer):
		return KindServer
	default:
		return KindUnknown
	}
}
