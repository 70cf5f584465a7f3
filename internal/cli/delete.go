package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/macrolog/internal/view"
)

// DeleteOptions holds flags for the delete command.
type DeleteOptions struct {
	*RootOptions
	Index int
	Date  string
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "delete [entry-id]",
		Short: "Delete a logged entry",
		Long: `Delete one logged entry, by ID or by its number in the day listing.

Deleting an entry that no longer exists is not an error; the command
reports that nothing was removed.

Example:
  macrolog delete 0190a5b2-7c3e-7d41-a716-446655440000
  macrolog delete --index 2
  macrolog delete --index 1 --date 2025-06-29`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return deleteEntry(opts, id, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Index, "index", 0, "1-based number of the entry in the day listing")
	cmd.Flags().StringVar(&opts.Date, "date", "", "day listing used by --index (default today)")

	return cmd
}

func deleteEntry(opts *DeleteOptions, id string, cmd *cobra.Command) error {
	if (id == "") == (opts.Index == 0) {
		return NewExitError(ExitCommandError, "specify exactly one of an entry ID or --index")
	}
	if opts.Index < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid --index %d", opts.Index))
	}

	ctx := commandContext(cmd)
	sess, err := opts.openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	day, err := parseDayFlag(opts.Date, sess.log.Today())
	if err != nil {
		return err
	}

	if opts.Index > 0 {
		listing := view.Partition(sess.log.Entries(), day)
		if opts.Index > len(listing) {
			return formatterFor(opts.RootOptions, cmd).Success(deletedView{
				ID:  fmt.Sprintf("#%d on %s", opts.Index, day),
				Day: view.Summarize(sess.log.Entries(), day),
			})
		}
		id = listing[opts.Index-1].ID
	}

	target, found := sess.log.Get(id)
	removed, err := sess.log.Remove(ctx, id)
	if err != nil {
		return storageError("failed to save log", err)
	}

	result := deletedView{Removed: removed, ID: id}
	if removed && found {
		day = target.Date
		result.Entry = &target
	}
	result.Day = view.Summarize(sess.log.Entries(), day)
	return formatterFor(opts.RootOptions, cmd).Success(result)
}
