package client

import (
	"github.com/bft-labs/expopush/pkg/credential"
	"github.com/bft-labs/expopush/pkg/log"
	"github.com/bft-labs/expopush/pkg/push"
	"github.com/bft-labs/expopush/pkg/sender"
)

// Option configures a Client.
type Option func(*options)

type options struct {
	baseURL       string
	httpClient    sender.HTTPClient
	transport     sender.Transport
	credentials   credential.Source
	logger        log.Logger
	observers     []Observer
	useFCMv1      *bool
	gzipThreshold int
	chunkSize     int
	concurrency   int
}

func defaultOptions() options {
	return options{
		baseURL:       sender.DefaultBaseURL,
		gzipThreshold: sender.DefaultGzipThreshold,
		chunkSize:     push.MaxMessagesPerRequest,
		concurrency:   1,
	}
}

// WithBaseURL points the client at another deployment of the push service,
// for example a test server. Ignored when WithTransport is used.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// WithAccessToken sends token as a Bearer credential on every request.
func WithAccessToken(token string) Option {
	return func(o *options) {
		o.credentials = credential.Static(token)
	}
}

// WithCredentialSource consults src for the access token before every
// request. It replaces any WithAccessToken setting.
func WithCredentialSource(src credential.Source) Option {
	return func(o *options) {
		o.credentials = src
	}
}

// WithTransport replaces the HTTP transport entirely.
func WithTransport(t sender.Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithHTTPClient sets the HTTP client used by the default transport.
// If not provided, http.DefaultClient is used; timeouts come from the
// request context in that case.
func WithHTTPClient(c sender.HTTPClient) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithLogger sets a logger. If not provided, nothing is logged.
func WithLogger(l log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithObserver registers an observer. It may be given more than once.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observers = append(o.observers, obs)
	}
}

// WithUseFCMv1 adds the useFcmV1 query parameter to send requests, selecting
// the FCM API version used for Android delivery. Without this option the
// parameter is omitted and the service default applies.
func WithUseFCMv1(v bool) Option {
	return func(o *options) {
		o.useFCMv1 = &v
	}
}

// WithGzipThreshold sets the body size above which requests are gzipped.
// A negative value disables compression.
func WithGzipThreshold(n int) Option {
	return func(o *options) {
		o.gzipThreshold = n
	}
}

// WithChunkSize sets the number of messages per send request, between 1 and
// push.MaxMessagesPerRequest.
func WithChunkSize(n int) Option {
	return func(o *options) {
		o.chunkSize = n
	}
}

// WithConcurrency sets how many chunks SendChunked dispatches at once.
// Default: 1, which sends chunks one after another.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}
