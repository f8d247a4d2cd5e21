package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/0xcro3dile/phtqa/internal/domain/usecases"
)

var datasetFilter string

var lookupCmd = &cobra.Command{
	Use:   "lookup <keyword>",
	Short: "Look up a keyword in every dataset",
	Long:  "Render the asset, mitigation and generation answers for a keyword.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLookup,
}

func init() {
	lookupCmd.Flags().StringVarP(&datasetFilter, "dataset", "d", "", "only show one dataset (asset, mitigation, generation)")
}

func runLookup(cmd *cobra.Command, args []string) error {
	kinds, err := usecases.ParseDatasetFilter(datasetFilter)
	if err != nil {
		return err
	}

	a, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.query.Lookup(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	out, err := formatLookup(a.markup, res, kinds, outputOptions{plain: plainFlag, markdown: mdFlag})
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
