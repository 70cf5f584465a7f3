package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/macrolog/internal/view"
)

// DayOptions holds flags for the day command.
type DayOptions struct {
	*RootOptions
	Date string
}

// NewDayCommand creates the day command.
func NewDayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "day",
		Short: "Show entries and totals for a day",
		Long: `Show the entries logged on one day and their macro totals.

Dates are ISO (2025-06-30) or day-first (30-06-2025, 30/06/2025).

Example:
  macrolog day
  macrolog day --date 29/06/2025`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showDay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "day to show (default today)")

	return cmd
}

func showDay(opts *DayOptions, cmd *cobra.Command) error {
	sess, err := opts.openSession(commandContext(cmd))
	if err != nil {
		return err
	}
	defer sess.Close()

	day, err := parseDayFlag(opts.Date, sess.log.Today())
	if err != nil {
		return err
	}

	return formatterFor(opts.RootOptions, cmd).Success(dayView{view.Summarize(sess.log.Entries(), day)})
}
