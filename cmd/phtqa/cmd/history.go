package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent lookups and questions",
	Long:  "Show recent lookups and questions. Needs a persistent history driver (sqlite or bbolt); the memory driver forgets everything when the process exits.",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries (0 for all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.query.History(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		if a.cfg.History.Driver == "memory" {
			fmt.Fprintln(cmd.ErrOrStderr(), "history.driver is memory; set sqlite or bbolt to keep history between runs")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "no history")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tKIND\tKEYWORD\tQUESTION\tANSWER\tMATCHES")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
			r.CreatedAt.Local().Format(time.DateTime), r.Kind, r.Keyword, truncate(r.Question, 40), truncate(r.Answer, 40), r.Matches)
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
