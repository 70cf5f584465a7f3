package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/macrolog/internal/config"
	"github.com/roach88/macrolog/internal/store"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	To string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Copy the log to another file or backend",
		Long: `Write every entry in the retention window to path, replacing its
contents. The destination backend is chosen by extension unless --to
is given, so this also converts between CSV and SQLite.

Example:
  macrolog export backup.csv
  macrolog export log.db --to sqlite`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportLog(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.To, "to", store.KindAuto, "destination backend (auto|csv|sqlite)")

	return cmd
}

type exportResult struct {
	Path    string `json:"path"`
	Backend string `json:"backend"`
	Entries int    `json:"entries"`
}

func (r exportResult) String() string {
	return fmt.Sprintf("Exported %s to %s (%s).", pluralize(r.Entries, "entry", "entries"), r.Path, r.Backend)
}

func exportLog(opts *ExportOptions, destArg string, cmd *cobra.Command) error {
	dest, err := config.ExpandPath(destArg)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid destination", err)
	}

	ctx := commandContext(cmd)
	sess, err := opts.openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	if sameFile(dest, sess.cfg.LogPath) {
		return NewExitError(ExitCommandError, "destination is the active log")
	}

	backend, closeFn, err := store.OpenBackend(dest, opts.To)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open destination", err)
	}
	defer func() {
		if err := closeFn(); err != nil {
			slog.Error("error closing destination", "error", err)
		}
	}()

	entries := sess.log.Entries()
	if err := backend.Save(ctx, entries); err != nil {
		return storageError("failed to write destination", err)
	}
	slog.Debug("log exported", "path", dest, "entries", len(entries))

	return formatterFor(opts.RootOptions, cmd).Success(exportResult{
		Path:    dest,
		Backend: store.KindFor(dest, opts.To),
		Entries: len(entries),
	})
}

// sameFile reports whether a and b name the same file. When either does not
// exist yet the cleaned paths are compared.
func sameFile(a, b string) bool {
	ai, errA := os.Stat(a)
	bi, errB := os.Stat(b)
	if errA == nil && errB == nil {
		return os.SameFile(ai, bi)
	}
	return filepath.Clean(a) == filepath.Clean(b)
}
