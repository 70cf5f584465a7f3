package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/macrolog/internal/view"
)

// TrendOptions holds flags for the trend command.
type TrendOptions struct {
	*RootOptions
	Days int
	End  string
}

// NewTrendCommand creates the trend command.
func NewTrendCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TrendOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Chart daily totals over several days",
		Long: `Chart daily calorie totals for the days ending at --end, with the
average macros over days that have entries.

Example:
  macrolog trend
  macrolog trend --days 14 --end 2025-06-30`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showTrend(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Days, "days", 7, "number of days to chart")
	cmd.Flags().StringVar(&opts.End, "end", "", "last day of the chart (default today)")

	return cmd
}

func showTrend(opts *TrendOptions, cmd *cobra.Command) error {
	if opts.Days < 1 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid --days %d: must be at least 1", opts.Days))
	}

	sess, err := opts.openSession(commandContext(cmd))
	if err != nil {
		return err
	}
	defer sess.Close()

	end, err := parseDayFlag(opts.End, sess.log.Today())
	if err != nil {
		return err
	}

	// Nothing older than the retention window is kept.
	days := opts.Days
	if limit := sess.log.Window() + 1; days > limit {
		if cmd.Flags().Changed("days") {
			return NewExitError(ExitCommandError, fmt.Sprintf("invalid --days %d: at most %d with a %d-day retention window", days, limit, sess.log.Window()))
		}
		days = limit
	}

	points := view.Trend(sess.log.Entries(), end, days)
	return formatterFor(opts.RootOptions, cmd).Success(trendView{
		Points:  points,
		Average: view.Average(points),
	})
}
