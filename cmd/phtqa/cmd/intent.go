package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/0xcro3dile/phtqa/internal/domain/usecases"
)

var intentParams usecases.IntentParams

var intentCmd = &cobra.Command{
	Use:   "intent <question...>",
	Short: "Answer a canned question about the asset dataset",
	Long: `Detect the intent of a question and answer it from the asset dataset.

Recognised phrases, highest priority first:
  ` + strings.Join(usecases.IntentPhrases(), "\n  "),
	Args: cobra.MinimumNArgs(1),
	RunE: runIntent,
}

func init() {
	intentCmd.Flags().StringVar(&intentParams.Region, "region", "", "region for total length questions")
	intentCmd.Flags().StringVar(&intentParams.Origin, "origin", "", "origin substation for detail questions")
	intentCmd.Flags().StringVar(&intentParams.Destination, "destination", "", "destination substation for detail questions")
}

func runIntent(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	question := strings.Join(args, " ")
	reply := a.intent.Handle(question, intentParams)
	a.query.RecordIntent(cmd.Context(), question, reply)

	text := reply.Text
	if plainFlag {
		text = a.markup.Strip(text)
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	if reply.NeedsInput {
		return fmt.Errorf("intent %s needs more input", reply.Intent)
	}
	return nil
}
