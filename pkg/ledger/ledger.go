package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/bft-labs/expopush/pkg/push"
)

// Entry is a ticket whose receipt has not been collected yet.
type Entry struct {
	ID     push.ReceiptID `json:"id"`
	To     []string       `json:"to,omitempty"`
	SentAt time.Time      `json:"sent_at"`
}

// Ledger stores pending tickets. Implementations must be safe for concurrent
// use within one process.
type Ledger interface {
	// Record adds entries. Recording an id twice keeps the later entry.
	Record(ctx context.Context, entries ...Entry) error

	// Pending returns every unresolved entry, oldest first.
	Pending(ctx context.Context) ([]Entry, error)

	// Resolve removes ids. Unknown ids are ignored.
	Resolve(ctx context.Context, ids ...push.ReceiptID) error
}

// FromTickets builds entries for the ok tickets of a send. tickets[i] must
// belong to msgs[i].
func FromTickets(msgs []push.Message, tickets []push.Ticket, sentAt time.Time) []Entry {
	var out []Entry
	for i, t := range tickets {
		if !t.OK() || i >= len(msgs) {
			continue
		}
		out = append(out, Entry{ID: t.ID, To: msgs[i].To(), SentAt: sentAt.UTC()})
	}
	return out
}

// IDs returns the receipt ids of entries.
func IDs(entries []Entry) []push.ReceiptID {
	ids := make([]push.ReceiptID, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].SentAt.Equal(entries[j].SentAt) {
			return entries[i].SentAt.Before(entries[j].SentAt)
		}
		return entries[i].ID < entries[j].ID
	})
}

// Discard is a Ledger that stores nothing.
type Discard struct{}

func (Discard) Record(context.Context, ...Entry) error           { return nil }
func (Discard) Pending(context.Context) ([]Entry, error)         { return nil, nil }
func (Discard) Resolve(context.Context, ...push.ReceiptID) error { return nil }
