package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/macrolog/internal/food"
	"github.com/roach88/macrolog/internal/store"
	"github.com/roach88/macrolog/internal/view"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	Date string
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log <food> <amount>",
		Short: "Log an amount of a food",
		Long: `Log an amount of a food from the reference table.

The amount is in the food's unit: grams for "_100g" foods, otherwise a
count of tablespoons, scoops, slices, katoris or items. The food may be
named by its raw name, its display name, or any query matching exactly
one food.

Example:
  macrolog log oats_100g 250
  macrolog log "Peanut Butter Tbsp" 1.5 --date 2025-06-29`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return logFood(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "day to log against (default today)")

	return cmd
}

func logFood(opts *LogOptions, query, amountArg string, cmd *cobra.Command) error {
	amount, err := strconv.ParseFloat(amountArg, 64)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid amount", fmt.Errorf("%w: %q", food.ErrInvalidAmount, amountArg))
	}

	ctx := commandContext(cmd)
	sess, err := opts.openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	tbl, err := loadFoods(sess.cfg)
	if err != nil {
		return err
	}
	item, err := tbl.Find(query)
	if err != nil {
		return WrapExitError(ExitFailure, "cannot log food", err)
	}

	day, err := parseDayFlag(opts.Date, sess.log.Today())
	if err != nil {
		return err
	}

	e, err := item.Log(amount, day)
	if err != nil {
		if errors.Is(err, food.ErrInvalidAmount) {
			return WrapExitError(ExitCommandError, "invalid amount", err)
		}
		return WrapExitError(ExitFailure, "cannot log food", err)
	}

	stored, err := sess.log.Append(ctx, e)
	if err != nil {
		if errors.Is(err, store.ErrExpired) || errors.Is(err, store.ErrEmptyName) {
			return WrapExitError(ExitFailure, "cannot log food", err)
		}
		return storageError("failed to save log", err)
	}

	return formatterFor(opts.RootOptions, cmd).Success(loggedView{
		Entry: stored,
		Day:   view.Summarize(sess.log.Entries(), stored.Date),
	})
}
