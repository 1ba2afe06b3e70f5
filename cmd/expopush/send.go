package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bft-labs/expopush/pkg/ledger"
	"github.com/bft-labs/expopush/pkg/push"
)

type sendFlags struct {
	to                []string
	title             string
	body              string
	subtitle          string
	data              string
	priority          string
	sound             string
	badge             uint64
	ttl               uint64
	expiration        uint64
	channelID         string
	categoryID        string
	interruptionLevel string
	mutableContent    bool
	contentAvailable  bool

	file   string
	dryRun bool
}

// ticketLine is one line of send output.
type ticketLine struct {
	Index  int          `json:"index"`
	To     []string     `json:"to"`
	Ticket *push.Ticket `json:"ticket,omitempty"`
	Error  string       `json:"error,omitempty"`
}

func newSendCmd(a *app) *cobra.Command {
	var f sendFlags

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send push messages and print one ticket per message",
		Long: `Send builds a single message from flags, or reads a JSON array of messages
in the service's request format from --file ("-" for stdin). Messages are
validated, split into chunks and sent. Each ticket is printed as a JSON line
and the ids of ok tickets are recorded in the ledger for "expopush receipts".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs, err := f.messages(cmd, a.stdin)
			if err != nil {
				return err
			}
			if f.dryRun {
				for _, m := range msgs {
					if err := a.printJSON(m); err != nil {
						return err
					}
				}
				return nil
			}
			return a.send(cmd, msgs)
		},
	}

	fl := cmd.Flags()
	fl.StringSliceVar(&f.to, "to", nil, "recipient push token; repeat or comma separate for several")
	fl.StringVar(&f.title, "title", "", "notification title")
	fl.StringVar(&f.body, "body", "", "notification body")
	fl.StringVar(&f.subtitle, "subtitle", "", "iOS subtitle")
	fl.StringVar(&f.data, "data", "", "JSON data payload delivered to the app")
	fl.StringVar(&f.priority, "priority", "", "delivery priority (default, normal, high)")
	fl.StringVar(&f.sound, "sound", "", `sound to play ("default" or a bundled file name)`)
	fl.Uint64Var(&f.badge, "badge", 0, "iOS badge count")
	fl.Uint64Var(&f.ttl, "ttl", 0, "seconds the message may be kept for redelivery")
	fl.Uint64Var(&f.expiration, "expiration", 0, "unix time after which the message is dropped")
	fl.StringVar(&f.channelID, "channel-id", "", "Android notification channel")
	fl.StringVar(&f.categoryID, "category-id", "", "notification category")
	fl.StringVar(&f.interruptionLevel, "interruption-level", "", "iOS interruption level (active, critical, passive, time-sensitive)")
	fl.BoolVar(&f.mutableContent, "mutable-content", false, "let an iOS notification service extension modify the content")
	fl.BoolVar(&f.contentAvailable, "content-available", false, "wake the iOS app in the background")
	fl.StringVar(&f.file, "file", "", `read a JSON array of messages from this file ("-" for stdin)`)
	fl.BoolVar(&f.dryRun, "dry-run", false, "validate and print the messages without sending")

	cmd.MarkFlagsMutuallyExclusive("file", "to")
	cmd.MarkFlagsOneRequired("file", "to")

	return cmd
}

// messages returns the messages to send, from --file or from the flags.
func (f *sendFlags) messages(cmd *cobra.Command, stdin io.Reader) ([]push.Message, error) {
	if f.file != "" {
		return readMessages(f.file, stdin)
	}

	b := push.NewMessage(f.to...)
	set := cmd.Flags().Changed

	if set("title") {
		b.Title(f.title)
	}
	if set("body") {
		b.Body(f.body)
	}
	if set("subtitle") {
		b.Subtitle(f.subtitle)
	}
	if set("data") {
		b.RawData(json.RawMessage(f.data))
	}
	if set("priority") {
		p, err := push.ParsePriority(f.priority)
		if err != nil {
			return nil, err
		}
		b.Priority(p)
	}
	if set("sound") {
		s, err := push.ParseSound(f.sound)
		if err != nil {
			return nil, err
		}
		b.Sound(s)
	}
	if set("badge") {
		b.Badge(f.badge)
	}
	if set("ttl") {
		b.TTL(f.ttl)
	}
	if set("expiration") {
		b.Expiration(f.expiration)
	}
	if set("channel-id") {
		b.ChannelID(f.channelID)
	}
	if set("category-id") {
		b.CategoryID(f.categoryID)
	}
	if set("interruption-level") {
		l, err := push.ParseInterruptionLevel(f.interruptionLevel)
		if err != nil {
			return nil, err
		}
		b.InterruptionLevel(l)
	}
	if set("mutable-content") {
		b.MutableContent(f.mutableContent)
	}
	if set("content-available") {
		b.ContentAvailable(f.contentAvailable)
	}

	m, err := b.Build()
	if err != nil {
		return nil, err
	}
	return []push.Message{m}, nil
}

func readMessages(path string, stdin io.Reader) ([]push.Message, error) {
	var r io.Reader = stdin
	if path != "-" {
		fh, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer fh.Close()
		r = fh
	}

	var msgs []push.Message
	if err := json.NewDecoder(r).Decode(&msgs); err != nil {
		return nil, fmt.Errorf("read messages from %s: %w", path, err)
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("%w: %s holds no messages", push.ErrInvalidArgument, path)
	}
	return msgs, nil
}

// send delivers msgs, prints a line per message and records ok tickets.
func (a *app) send(cmd *cobra.Command, msgs []push.Message) error {
	ctx := cmd.Context()
	defer a.close()

	c, err := a.newClient(ctx)
	if err != nil {
		return err
	}
	l, err := a.openLedger(ctx)
	if err != nil {
		return err
	}

	sentAt := time.Now()
	results, err := c.SendChunked(ctx, msgs)
	if err != nil {
		return err
	}

	var failedChunks, errorTickets, recorded int
	for _, r := range results {
		chunk := msgs[r.Offset:min(r.Offset+c.ChunkSize(), len(msgs))]
		if r.Err != nil {
			failedChunks++
			a.logger.Error().Err(r.Err).
				Int("chunk", r.Index).
				Str("kind", push.Classify(r.Err).String()).
				Msg("chunk failed")
			for i, m := range chunk {
				if err := a.printJSON(ticketLine{Index: r.Offset + i, To: m.To(), Error: r.Err.Error()}); err != nil {
					return err
				}
			}
			continue
		}

		for i := range r.Tickets {
			t := r.Tickets[i]
			if !t.OK() {
				errorTickets++
			}
			if err := a.printJSON(ticketLine{Index: r.Offset + i, To: chunk[i].To(), Ticket: &t}); err != nil {
				return err
			}
		}

		entries := ledger.FromTickets(chunk, r.Tickets, sentAt)
		if err := l.Record(ctx, entries...); err != nil {
			a.logger.Error().Err(err).Int("chunk", r.Index).Msg("record tickets")
		} else {
			recorded += len(entries)
		}
	}

	a.logger.Info().
		Int("messages", len(msgs)).
		Int("chunks", len(results)).
		Int("failed_chunks", failedChunks).
		Int("error_tickets", errorTickets).
		Int("recorded", recorded).
		Msg("send complete")

	if failedChunks > 0 {
		return fmt.Errorf("%d of %d chunks failed", failedChunks, len(results))
	}
	return nil
}
