package sender

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/klauspost/compress/gzip"

	"github.com/bft-labs/expopush/pkg/push"
)

// DefaultGzipThreshold is the body size, in bytes, above which request bodies
// are compressed.
const DefaultGzipThreshold = 1024

const (
	contentTypeJSON = "application/json"
	encodingGzip    = "gzip"
)

// Payload is an encoded request body.
type Payload struct {
	Body []byte

	// ContentEncoding is "gzip" when Body is compressed and "" otherwise.
	ContentEncoding string
}

// Compressed reports whether the body is gzipped.
func (p Payload) Compressed() bool { return p.ContentEncoding == encodingGzip }

// Header returns the content negotiation headers for sending p.
func (p Payload) Header() http.Header {
	h := make(http.Header, 4)
	h.Set("Content-Type", contentTypeJSON)
	h.Set("Accept", contentTypeJSON)
	h.Set("Accept-Encoding", encodingGzip)
	if p.ContentEncoding != "" {
		h.Set("Content-Encoding", p.ContentEncoding)
	}
	return h
}

// Encoder serialises request bodies to JSON and compresses large ones.
type Encoder struct {
	threshold int
}

// NewEncoder returns an encoder that gzips bodies strictly longer than
// threshold bytes. A negative threshold disables compression.
func NewEncoder(threshold int) *Encoder {
	return &Encoder{threshold: threshold}
}

// Threshold returns the compression threshold.
func (e *Encoder) Threshold() int { return e.threshold }

// Encode serialises v. A body of exactly threshold bytes is sent as is.
func (e *Encoder) Encode(v any) (Payload, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", push.ErrSerialize, err)
	}
	if e.threshold < 0 || len(raw) <= e.threshold {
		return Payload{Body: raw}, nil
	}

	var buf bytes.Buffer
	buf.Grow(len(raw) / 2)
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", push.ErrGzip, err)
	}
	if err := zw.Close(); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", push.ErrGzip, err)
	}
	return Payload{Body: buf.Bytes(), ContentEncoding: encodingGzip}, nil
}
