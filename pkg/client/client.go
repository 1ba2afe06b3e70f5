package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bft-labs/expopush/pkg/credential"
	"github.com/bft-labs/expopush/pkg/log"
	"github.com/bft-labs/expopush/pkg/push"
	"github.com/bft-labs/expopush/pkg/sender"
)

// Service endpoints, relative to the base URL.
const (
	SendPath     = "/--/api/v2/push/send"
	ReceiptsPath = "/--/api/v2/push/getReceipts"
)

// Client sends push messages and queries their receipts. It holds no mutable
// state after New and is safe for concurrent use.
type Client struct {
	transport   sender.Transport
	encoder     *sender.Encoder
	credentials credential.Source
	logger      log.Logger
	observer    Observer
	sendPath    string
	chunkSize   int
	concurrency int
}

// ChunkResult is the outcome of one chunk dispatched by SendChunked.
type ChunkResult struct {
	// Index is the position of the chunk among all chunks.
	Index int

	// Offset is the index in the input of the chunk's first message, so
	// Tickets[i] belongs to messages[Offset+i].
	Offset int

	// Tickets holds one ticket per message of the chunk when Err is nil.
	Tickets []push.Ticket

	Err error
}

// New creates a client. Without options it talks to the production service
// over http.DefaultClient, unauthenticated, one chunk at a time.
func New(opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.chunkSize < 1 || o.chunkSize > push.MaxMessagesPerRequest {
		return nil, fmt.Errorf("chunk size %d out of range [1, %d]", o.chunkSize, push.MaxMessagesPerRequest)
	}
	if o.concurrency < 1 {
		return nil, fmt.Errorf("concurrency must be positive, got %d", o.concurrency)
	}

	transport := o.transport
	if transport == nil {
		u, err := url.Parse(o.baseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid base url %q", o.baseURL)
		}
		transport = sender.NewHTTPTransport(o.baseURL, o.httpClient)
	}

	logger := o.logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	var observer Observer = BaseObserver{}
	if len(o.observers) > 0 {
		observer = multiObserver(o.observers)
	}

	credentials := o.credentials
	if credentials == nil {
		credentials = credential.Static("")
	}

	sendPath := SendPath
	if o.useFCMv1 != nil {
		sendPath += "?useFcmV1=" + strconv.FormatBool(*o.useFCMv1)
	}

	return &Client{
		transport:   transport,
		encoder:     sender.NewEncoder(o.gzipThreshold),
		credentials: credentials,
		logger:      logger,
		observer:    observer,
		sendPath:    sendPath,
		chunkSize:   o.chunkSize,
		concurrency: o.concurrency,
	}, nil
}

// ChunkSize returns the maximum number of messages per send request.
func (c *Client) ChunkSize() int { return c.chunkSize }

// Send delivers msgs in a single request and returns one ticket per message,
// in input order. Per-message failures are reported as error tickets, not as
// an error. Send rejects an empty list and a list longer than the chunk size
// with ErrInvalidArgument before anything is sent.
func (c *Client) Send(ctx context.Context, msgs ...push.Message) ([]push.Ticket, error) {
	if len(msgs) == 0 {
		return nil, fmt.Errorf("%w: no messages", push.ErrInvalidArgument)
	}
	if len(msgs) > c.chunkSize {
		return nil, fmt.Errorf("%w: %d messages exceed the per-request limit of %d",
			push.ErrInvalidArgument, len(msgs), c.chunkSize)
	}
	if err := validateAll(msgs); err != nil {
		return nil, err
	}
	return c.send(ctx, msgs)
}

// SendChunked splits msgs into chunks of the configured size and sends every
// chunk, up to WithConcurrency at a time. Each chunk reports its own outcome,
// so a failed chunk never hides the tickets of the others. The returned error
// is non-nil only when msgs is empty or contains an invalid message, in which
// case nothing is sent.
func (c *Client) SendChunked(ctx context.Context, msgs []push.Message) ([]ChunkResult, error) {
	if len(msgs) == 0 {
		return nil, fmt.Errorf("%w: no messages", push.ErrInvalidArgument)
	}
	if err := validateAll(msgs); err != nil {
		return nil, err
	}

	chunks := push.Chunk(msgs, c.chunkSize)
	results := make([]ChunkResult, len(chunks))

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			tickets, err := c.send(ctx, chunk)
			results[i] = ChunkResult{
				Index:   i,
				Offset:  i * c.chunkSize,
				Tickets: tickets,
				Err:     err,
			}
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

// GetReceipts fetches the receipts for ids in a single request. Ids whose
// receipt is not available yet are absent from the returned map. At most
// push.MaxReceiptIDsPerRequest ids may be queried at once.
func (c *Client) GetReceipts(ctx context.Context, ids ...push.ReceiptID) (map[push.ReceiptID]push.Receipt, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no receipt ids", push.ErrInvalidArgument)
	}
	if len(ids) > push.MaxReceiptIDsPerRequest {
		return nil, fmt.Errorf("%w: %d receipt ids exceed the per-request limit of %d",
			push.ErrInvalidArgument, len(ids), push.MaxReceiptIDsPerRequest)
	}

	body := struct {
		IDs []push.ReceiptID `json:"ids"`
	}{IDs: ids}

	resp, err := c.exchange(ctx, OperationReceipts, ReceiptsPath, len(ids), body)
	if err != nil {
		return nil, err
	}
	receipts, err := push.DecodeReceipts(resp.Body)
	if err != nil {
		c.logger.Warn("undecodable receipts response", log.Err(err), log.Int("ids", len(ids)))
		return nil, err
	}

	for id, r := range receipts {
		if !r.OK() {
			c.logger.Warn("receipt error",
				log.String("id", id.String()),
				log.String("kind", string(kindOf(r.Details))),
				log.String("message", r.Message))
		}
	}
	c.observer.OnReceipts(receipts)
	return receipts, nil
}

func (c *Client) send(ctx context.Context, msgs []push.Message) ([]push.Ticket, error) {
	var body any = msgs
	if len(msgs) == 1 {
		body = msgs[0]
	}

	resp, err := c.exchange(ctx, OperationSend, c.sendPath, len(msgs), body)
	if err != nil {
		return nil, err
	}
	tickets, err := push.DecodeTickets(resp.Body)
	if err == nil && len(tickets) != len(msgs) {
		err = fmt.Errorf("%w: got %d tickets for %d messages", push.ErrDeserialize, len(tickets), len(msgs))
	}
	if err != nil {
		c.logger.Warn("undecodable send response", log.Err(err), log.Int("messages", len(msgs)))
		return nil, err
	}

	for i, t := range tickets {
		if !t.OK() {
			c.logger.Warn("ticket error",
				log.Int("index", i),
				log.String("kind", string(kindOf(t.Details))),
				log.String("message", t.Message))
		}
	}
	c.observer.OnTickets(tickets)
	return tickets, nil
}

// exchange encodes body, performs one round trip and turns transport
// failures and non-2xx answers into *push.ServerError.
func (c *Client) exchange(ctx context.Context, op Operation, path string, items int, body any) (sender.Response, error) {
	payload, err := c.encoder.Encode(body)
	if err != nil {
		return sender.Response{}, err
	}

	header := payload.Header()
	token, err := c.credentials.Token(ctx)
	if err != nil {
		return sender.Response{}, fmt.Errorf("access token: %w", err)
	}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	event := RequestEvent{
		Operation:  op,
		Path:       path,
		Items:      items,
		BodyBytes:  len(payload.Body),
		Compressed: payload.Compressed(),
	}

	start := time.Now()
	resp, err := c.transport.RoundTrip(ctx, sender.Request{
		Method: http.MethodPost,
		Path:   path,
		Header: header,
		Body:   payload.Body,
	})
	event.Duration = time.Since(start)
	event.StatusCode = resp.StatusCode

	switch {
	case err != nil:
		var se *push.ServerError
		if !errors.Is(err, push.ErrDeserialize) && !errors.As(err, &se) {
			err = &push.ServerError{Err: err}
		}
	case !resp.Success():
		err = &push.ServerError{StatusCode: resp.StatusCode, Body: resp.Body}
	}
	event.Err = err
	c.observer.OnRequest(event)

	fields := []log.Field{
		log.String("path", path),
		log.Int("items", items),
		log.Int("body_bytes", event.BodyBytes),
		log.Bool("gzip", event.Compressed),
		log.Int("status", event.StatusCode),
		log.Duration("took", event.Duration),
	}
	if err != nil {
		c.logger.Warn("push request failed", append(fields, log.Err(err))...)
		return sender.Response{}, err
	}
	c.logger.Debug("push request", fields...)
	return resp, nil
}

func validateAll(msgs []push.Message) error {
	for i, m := range msgs {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}
	}
	return nil
}

func kindOf(d *push.Details) push.ErrorKind {
	if d == nil {
		return ""
	}
	return d.Error
}
