package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var showContext bool

var askCmd = &cobra.Command{
	Use:   "ask <keyword> <question...>",
	Short: "Ask a question about the rows matching a keyword",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&showContext, "context", false, "print the context table the answer was taken from")
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.query.Ask(cmd.Context(), args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, res.Answer)
	if showContext && res.Context != "" {
		fmt.Fprintf(w, "\n%s\n", res.Context)
	}
	return nil
}
