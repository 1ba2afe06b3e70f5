package sender

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/expopush/pkg/push"
)

func gzipBytes(t *testing.T, b []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(b)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestHTTPTransport_RoundTrip(t *testing.T) {
	var gotPath, gotQuery, gotAuth, gotEncoding string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotEncoding = r.Header.Get("Content-Encoding")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	header := Payload{ContentEncoding: "gzip"}.Header()
	header.Set("Authorization", "Bearer secret")

	tr := NewHTTPTransport(srv.URL+"/", srv.Client())
	resp, err := tr.RoundTrip(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/--/api/v2/push/send?useFcmV1=true",
		Header: header,
		Body:   []byte("payload"),
	})
	require.NoError(t, err)

	assert.True(t, resp.Success())
	assert.Equal(t, `{"data":[]}`, string(resp.Body))
	assert.Equal(t, "/--/api/v2/push/send", gotPath)
	assert.Equal(t, "useFcmV1=true", gotQuery)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "gzip", gotEncoding)
	assert.Equal(t, "payload", string(gotBody))
}

func TestHTTPTransport_GzipResponse(t *testing.T) {
	body := []byte(`{"data":{"a":{"status":"ok"}}}`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(gzipBytes(t, body))
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL, srv.Client())
	resp, err := tr.RoundTrip(context.Background(), Request{
		Path:   "/--/api/v2/push/getReceipts",
		Header: Payload{}.Header(),
	})
	require.NoError(t, err)
	assert.Equal(t, body, resp.Body)
}

func TestHTTPTransport_CorruptGzipResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write([]byte("definitely not gzip"))
	}))
	defer srv.Close()

	_, err := NewHTTPTransport(srv.URL, srv.Client()).RoundTrip(context.Background(), Request{
		Header: Payload{}.Header(),
	})
	assert.ErrorIs(t, err, push.ErrDeserialize)
}

func TestHTTPTransport_Non2xxWithCorruptGzipKeepsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	resp, err := NewHTTPTransport(srv.URL, srv.Client()).RoundTrip(context.Background(), Request{
		Header: Payload{}.Header(),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "<html>bad gateway</html>", string(resp.Body))
}

func TestHTTPTransport_Non2xxIsAResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"errors":[{"code":"RATE_LIMIT","message":"slow down"}]}`))
	}))
	defer srv.Close()

	resp, err := NewHTTPTransport(srv.URL, srv.Client()).RoundTrip(context.Background(), Request{})
	require.NoError(t, err)
	assert.False(t, resp.Success())
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, string(resp.Body), "RATE_LIMIT")
}

func TestHTTPTransport_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewHTTPTransport(srv.URL, srv.Client()).RoundTrip(ctx, Request{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

type failingClient struct{ err error }

func (c failingClient) Do(*http.Request) (*http.Response, error) { return nil, c.err }

func TestHTTPTransport_ClientError(t *testing.T) {
	boom := errors.New("connection refused")
	_, err := NewHTTPTransport(DefaultBaseURL, failingClient{err: boom}).RoundTrip(context.Background(), Request{})
	assert.ErrorIs(t, err, boom)
}
