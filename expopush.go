// Package expopush is a client for the Expo push notification service.
//
// Example usage:
//
//	c, err := expopush.New(expopush.WithAccessToken(os.Getenv("EXPO_ACCESS_TOKEN")))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	msg, err := expopush.NewMessage("ExponentPushToken[xxxxxxxxxxxxxxxxxxxxxx]").
//	    Title("Hello").
//	    Body("World").
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tickets, err := c.Send(context.Background(), msg)
//
// The packages under pkg/ expose the full API; this package re-exports the
// parts most programs need.
package expopush

import (
	"github.com/bft-labs/expopush/pkg/client"
	"github.com/bft-labs/expopush/pkg/push"
)

// Client sends messages and fetches receipts. See client.Client.
type Client = client.Client

// Option configures a Client.
type Option = client.Option

// Message is a validated push message. Create one with NewMessage.
type Message = push.Message

// Ticket is the per-message result of a send.
type Ticket = push.Ticket

// Receipt is the delivery outcome reported for a ticket id.
type Receipt = push.Receipt

// ReceiptID identifies a ticket whose receipt can be fetched.
type ReceiptID = push.ReceiptID

// ServerError reports a request the service did not accept or that never
// reached it.
type ServerError = push.ServerError

// New creates a Client.
func New(opts ...Option) (*Client, error) {
	return client.New(opts...)
}

// NewMessage starts building a message for the given recipient tokens.
func NewMessage(to ...string) *push.Builder {
	return push.NewMessage(to...)
}

// IsValidToken reports whether token looks like an Expo push token.
func IsValidToken(token string) bool {
	return push.IsValidToken(token)
}

// Classify maps an error returned by this module to its Kind.
func Classify(err error) push.Kind {
	return push.Classify(err)
}

// Client options.
var (
	WithAccessToken   = client.WithAccessToken
	WithBaseURL       = client.WithBaseURL
	WithHTTPClient    = client.WithHTTPClient
	WithLogger        = client.WithLogger
	WithObserver      = client.WithObserver
	WithUseFCMv1      = client.WithUseFCMv1
	WithGzipThreshold = client.WithGzipThreshold
	WithChunkSize     = client.WithChunkSize
	WithConcurrency   = client.WithConcurrency
)

// Errors. Use errors.Is to test for them.
var (
	ErrInvalidArgument = push.ErrInvalidArgument
	ErrInvalidToken    = push.ErrInvalidToken
	ErrInvalidPriority = push.ErrInvalidPriority
	ErrInvalidSound    = push.ErrInvalidSound
	ErrInvalidData     = push.ErrInvalidData
	ErrSerialize       = push.ErrSerialize
	ErrGzip            = push.ErrGzip
	ErrDeserialize     = push.ErrDeserialize
	ErrServer          = push.ErrServer
)
