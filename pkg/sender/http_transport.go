package sender

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/bft-labs/expopush/pkg/push"
)

// DefaultBaseURL is the production push service.
const DefaultBaseURL = "https://exp.host"

// HTTPTransport implements Transport over an HTTPClient.
type HTTPTransport struct {
	baseURL string
	client  HTTPClient
}

// NewHTTPTransport creates a transport that resolves request paths against
// baseURL. A nil client means http.DefaultClient.
func NewHTTPTransport(baseURL string, client HTTPClient) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// BaseURL returns the URL request paths are resolved against.
func (t *HTTPTransport) BaseURL() string { return t.baseURL }

// RoundTrip sends req and reads the full response body, gunzipping it when
// the service answered with Content-Encoding: gzip. An undecodable gzip body
// is ErrDeserialize only on a 2xx response; error responses keep the raw
// bytes so the caller still sees the status code.
func (t *HTTPTransport) RoundTrip(ctx context.Context, req Request) (Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodPost
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, t.baseURL+req.Path, bytes.NewReader(req.Body))
	if err != nil {
		return Response{}, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("read response: %w", err)
	}
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), encodingGzip) && len(body) > 0 {
		plain, err := gunzip(body)
		switch {
		case err == nil:
			body = plain
		case resp.StatusCode/100 == 2:
			return Response{}, fmt.Errorf("%w: gzip response: %v", push.ErrDeserialize, err)
		}
	}

	return Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func gunzip(b []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
