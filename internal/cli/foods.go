package cli

import (
	"github.com/spf13/cobra"
)

// NewFoodsCommand creates the foods command.
func NewFoodsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "foods [query]",
		Short: "List or search the food reference table",
		Long: `List the foods in the reference table, optionally filtered by a
case-insensitive search over raw and display names.

Example:
  macrolog foods
  macrolog foods peanut`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			return listFoods(rootOpts, query, cmd)
		},
	}
	return cmd
}

func listFoods(opts *RootOptions, query string, cmd *cobra.Command) error {
	cfg, err := opts.resolveConfig()
	if err != nil {
		return err
	}
	tbl, err := loadFoods(cfg)
	if err != nil {
		return err
	}

	hits := tbl.Search(query)
	rows := make(foodsView, len(hits))
	for i, it := range hits {
		rows[i] = foodRow{
			Name:        it.Name,
			DisplayName: it.DisplayName(),
			Unit:        it.Unit(),
			Per:         it.Per,
		}
	}
	return formatterFor(opts, cmd).Success(rows)
}
