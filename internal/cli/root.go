package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/macrolog/internal/entry"
	"github.com/roach88/macrolog/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	LogPath    string
	FoodsPath  string
	Backend    string

	// Clock and IDs override the session clock and entry ID generator (for testing).
	// If nil, the wall clock and UUIDv7 IDs are used.
	Clock store.Clock
	IDs   entry.IDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the macrolog CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "macrolog",
		Short: "macrolog - personal macro tracker",
		Long: `Log what you eat against a food reference table and review daily
macro totals and multi-day trends. History is kept for a rolling window
of days in a CSV file or SQLite database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			configureLogging(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/macrolog/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.LogPath, "log", "", "log file, overrides config log_path")
	cmd.PersistentFlags().StringVar(&opts.FoodsPath, "foods", "", "food table CSV, overrides config foods_path")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "", "log backend (auto|csv|sqlite), overrides config backend")

	cmd.AddCommand(NewFoodsCommand(opts))
	cmd.AddCommand(NewLogCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewDayCommand(opts))
	cmd.AddCommand(NewDatesCommand(opts))
	cmd.AddCommand(NewTrendCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// Execute runs the CLI with args and returns the process exit code.
// Errors are reported on stderr, or as a JSON error response on stdout
// when --format json is in effect.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return execute(ctx, &RootOptions{}, args, stdout, stderr)
}

func execute(ctx context.Context, opts *RootOptions, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	if opts.Format == "json" {
		f := &OutputFormatter{Format: "json", Writer: stdout}
		_ = f.Error(ErrorCode(err), err.Error(), nil)
	} else {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return GetExitCode(err)
}

// configureLogging installs a text slog handler on w, at debug level when verbose.
func configureLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
