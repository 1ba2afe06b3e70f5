// Package client sends push notifications through the Expo push service and
// fetches their delivery receipts.
//
// A Client wires together the pieces of the push pipeline: messages built
// with package push are encoded (and gzipped when large) by package sender,
// carried by a Transport, and the per-message tickets or per-id receipts are
// decoded back into typed results.
//
// # Usage
//
//	c, err := client.New(client.WithAccessToken(os.Getenv("EXPO_ACCESS_TOKEN")))
//	if err != nil {
//	    return err
//	}
//
//	msg := push.NewMessage(token).Title("Hi").Body("Hello").MustBuild()
//	tickets, err := c.Send(ctx, msg)
//	if err != nil {
//	    return err // the whole request failed
//	}
//	for _, t := range tickets {
//	    if err := t.Err(); err != nil {
//	        // this message failed; other tickets are unaffected
//	    }
//	}
//
// Send carries at most one chunk. For longer lists use SendChunked, which
// splits the list and reports an outcome per chunk:
//
//	results, err := c.SendChunked(ctx, msgs)
//
// Receipts become available some time after sending:
//
//	receipts, err := c.GetReceipts(ctx, tickets[0].ID)
//
// # Observing
//
// Pass an Observer via WithObserver to receive an event per exchange and the
// decoded tickets and receipts. Embed BaseObserver to implement only some
// hooks. Package metrics provides a Prometheus observer.
//
// # Retries
//
// The client never retries. Use push.Classify on the returned error and the
// ticket error kinds to decide what to resend.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package client
