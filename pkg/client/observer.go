package client

import (
	"time"

	"github.com/bft-labs/expopush/pkg/push"
)

// Operation names the kind of exchange a RequestEvent describes.
type Operation string

const (
	OperationSend     Operation = "send"
	OperationReceipts Operation = "receipts"
)

// RequestEvent describes one finished exchange with the push service.
type RequestEvent struct {
	Operation Operation
	Path      string

	// Items is the number of messages or receipt ids in the request.
	Items int

	// BodyBytes is the size of the request body as sent.
	BodyBytes  int
	Compressed bool

	// StatusCode is 0 when no response was received.
	StatusCode int
	Duration   time.Duration

	// Err is the classified failure of the exchange, if any. A response with
	// error tickets is not a failed exchange.
	Err error
}

// Observer receives notifications about client activity. Hooks are called
// synchronously on the calling goroutine; with WithConcurrency above 1 they
// may run concurrently and must be safe for that.
type Observer interface {
	OnRequest(RequestEvent)
	OnTickets([]push.Ticket)
	OnReceipts(map[push.ReceiptID]push.Receipt)
}

// BaseObserver implements Observer with no-ops. Embed it to implement only
// the hooks you need.
type BaseObserver struct{}

func (BaseObserver) OnRequest(RequestEvent)                     {}
func (BaseObserver) OnTickets([]push.Ticket)                    {}
func (BaseObserver) OnReceipts(map[push.ReceiptID]push.Receipt) {}

// multiObserver fans hooks out in registration order.
type multiObserver []Observer

func (m multiObserver) OnRequest(e RequestEvent) {
	for _, o := range m {
		o.OnRequest(e)
	}
}

func (m multiObserver) OnTickets(t []push.Ticket) {
	for _, o := range m {
		o.OnTickets(t)
	}
}

func (m multiObserver) OnReceipts(r map[push.ReceiptID]push.Receipt) {
	for _, o := range m {
		o.OnReceipts(r)
	}
}
