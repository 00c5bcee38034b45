package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent requests from the local journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}
			a, err := opts.open(cmd, true)
			if err != nil {
				return err
			}
			defer closeApp(a)

			entries, err := a.History(limit)
			if err != nil {
				return fmt.Errorf("read journal: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "AT\tENDPOINT\tIDENTIFIER\tOK\tSTATUS\tBYTES\tELAPSED\tERROR")
			for _, e := range entries {
				status := "-"
				if e.StatusCode != 0 {
					status = fmt.Sprint(e.StatusCode)
				}
				ok := "no"
				if e.OK() {
					ok = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
					e.At.Local().Format(time.RFC3339), e.Endpoint, e.Identifier, ok, status,
					e.Bytes, e.Duration.Round(time.Millisecond), e.Error)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show")
	return cmd
}
