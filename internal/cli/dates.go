package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/macrolog/internal/view"
)

// NewDatesCommand creates the dates command.
func NewDatesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dates",
		Short: "List days with logged entries",
		Long: `List every day that has entries within the retention window, today
first and then newest to oldest, with calorie totals.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listDates(rootOpts, cmd)
		},
	}
	return cmd
}

func listDates(opts *RootOptions, cmd *cobra.Command) error {
	sess, err := opts.openSession(commandContext(cmd))
	if err != nil {
		return err
	}
	defer sess.Close()

	entries := sess.log.Entries()
	today := sess.log.Today()

	rows := datesView{}
	for _, d := range view.AvailableDates(entries, today) {
		rows = append(rows, dateRow{
			Date:    d,
			IsToday: d.Equal(today),
			Entries: len(view.Partition(entries, d)),
			Totals:  view.TotalsFor(entries, d),
		})
	}
	return formatterFor(opts, cmd).Success(rows)
}
