package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bft-labs/expopush/pkg/push"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate TOKEN...",
		Short: "Check push token syntax",
		Long: `Validate prints "valid" or "invalid" for each token and exits non-zero when
any token is invalid. Only the token format is checked; the service is not
contacted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			invalid := 0
			for _, token := range args {
				verdict := "valid"
				if !push.IsValidToken(token) {
					verdict = "invalid"
					invalid++
				}
				fmt.Fprintf(a.stdout, "%s\t%s\n", verdict, token)
			}
			if invalid > 0 {
				return errSilent
			}
			return nil
		},
	}
}
