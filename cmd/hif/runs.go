package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/esd-univr/hif-core-sub007/config"
	"github.com/esd-univr/hif-core-sub007/ledger"
)

// newRunsCommand lists recorded pass runs from a ledger database, optionally
// filtered by pass name.
func newRunsCommand(cfg *config.Config) *cobra.Command {
	var ledgerPath, pass string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded manipulation pass runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := ledger.Open(ledgerPath, false)
			if err != nil {
				return err
			}
			defer l.Close()

			runs, err := l.Runs(pass)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range runs {
				fmt.Fprintf(out, "%s  %-24s  %-8s  fixed=%-5t  seen=%-4d  fixed_nodes=%-4d\n",
					r.StartedAt.Format("2006-01-02T15:04:05"), r.Pass, r.Status, r.IsFixed, r.NodesSeen, r.NodesFixed)
				for _, d := range r.Diagnostics {
					fmt.Fprintf(out, "    [%s] %s (%s)\n", d.Severity, d.Message, d.NodeDesc)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&ledgerPath, "ledger", "hif-ledger.sqlite", "sqlite file recording each pass run")
	cmd.Flags().StringVar(&pass, "pass", "", "filter by pass name")
	return cmd
}
