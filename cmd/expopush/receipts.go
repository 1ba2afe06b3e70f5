package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bft-labs/expopush/pkg/ledger"
	"github.com/bft-labs/expopush/pkg/push"
)

// receiptLine is one line of receipts output. Receipt is nil while the
// service has not produced it yet.
type receiptLine struct {
	ID      push.ReceiptID `json:"id"`
	Receipt *push.Receipt  `json:"receipt,omitempty"`
	Pending bool           `json:"pending,omitempty"`
}

func newReceiptsCmd(a *app) *cobra.Command {
	var keep bool

	cmd := &cobra.Command{
		Use:   "receipts [ID...]",
		Short: "Fetch receipts for ticket ids",
		Long: `Receipts queries the given ticket ids, or every pending id in the ledger when
none are given. Each id is printed as a JSON line. Ids whose receipt arrived
are removed from the ledger unless --keep is set; the rest stay pending.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			defer a.close()

			l, err := a.openLedger(ctx)
			if err != nil {
				return err
			}

			ids := make([]push.ReceiptID, len(args))
			for i, arg := range args {
				ids[i] = push.ReceiptID(arg)
			}
			if len(ids) == 0 {
				pending, err := l.Pending(ctx)
				if err != nil {
					return fmt.Errorf("read ledger: %w", err)
				}
				ids = ledger.IDs(pending)
			}
			if len(ids) == 0 {
				a.logger.Info().Msg("no pending tickets")
				return nil
			}

			c, err := a.newClient(ctx)
			if err != nil {
				return err
			}

			var arrived []push.ReceiptID
			var failed, errorReceipts int
			for _, batch := range push.ChunkReceiptIDs(ids, push.MaxReceiptIDsPerRequest) {
				receipts, err := c.GetReceipts(ctx, batch...)
				if err != nil {
					failed++
					a.logger.Error().Err(err).
						Int("ids", len(batch)).
						Str("kind", push.Classify(err).String()).
						Msg("receipts request failed")
					continue
				}
				for _, id := range batch {
					line := receiptLine{ID: id, Pending: true}
					if r, ok := receipts[id]; ok {
						line = receiptLine{ID: id, Receipt: &r}
						arrived = append(arrived, id)
						if !r.OK() {
							errorReceipts++
						}
					}
					if err := a.printJSON(line); err != nil {
						return err
					}
				}
			}

			if !keep && len(arrived) > 0 {
				if err := l.Resolve(ctx, arrived...); err != nil {
					return fmt.Errorf("resolve ledger: %w", err)
				}
			}

			a.logger.Info().
				Int("ids", len(ids)).
				Int("arrived", len(arrived)).
				Int("pending", len(ids)-len(arrived)).
				Int("error_receipts", errorReceipts).
				Msg("receipts complete")

			if failed > 0 {
				return fmt.Errorf("%d receipts requests failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&keep, "keep", false, "leave fetched ids in the ledger")
	return cmd
}
