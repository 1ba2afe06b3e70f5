// Package ledger remembers which push tickets still await a receipt.
//
// After a send, the ids of ok tickets are recorded. A later receipt query
// reads the pending entries and resolves the ids whose receipts arrived, so
// receipts can be collected across process restarts. Two backends are
// provided: FileLedger keeps a JSON file in a directory, RedisLedger keeps a
// hash in Redis and can be shared between hosts.
//
// # Usage
//
//	l := ledger.NewFileLedger("/var/lib/expopush")
//
//	if err := l.Record(ctx, ledger.FromTickets(msgs, tickets, time.Now())...); err != nil {
//	    return err
//	}
//
//	pending, err := l.Pending(ctx)
//	// ... query receipts ...
//	err = l.Resolve(ctx, delivered...)
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package ledger
