package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/macrolog/internal/config"
	"github.com/roach88/macrolog/internal/entry"
	"github.com/roach88/macrolog/internal/food"
	"github.com/roach88/macrolog/internal/store"
)

// session is the per-invocation state: resolved config plus the loaded log.
// It is created at the start of a command and closed when it returns.
type session struct {
	cfg   config.Config
	log   *store.Log
	close func() error
}

// resolveConfig loads the config file and applies flag overrides.
func (o *RootOptions) resolveConfig() (config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	if v := strings.TrimSpace(o.LogPath); v != "" {
		path, err := config.ExpandPath(v)
		if err != nil {
			return config.Config{}, WrapExitError(ExitCommandError, "invalid --log", err)
		}
		cfg.LogPath = path
	}
	if v := strings.TrimSpace(o.FoodsPath); v != "" {
		path, err := config.ExpandPath(v)
		if err != nil {
			return config.Config{}, WrapExitError(ExitCommandError, "invalid --foods", err)
		}
		cfg.FoodsPath = path
	}
	if v := strings.TrimSpace(o.Backend); v != "" {
		cfg.Backend = strings.ToLower(v)
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "invalid settings", err)
	}
	return cfg, nil
}

// openSession resolves config, opens the backend and loads the log.
func (o *RootOptions) openSession(ctx context.Context) (*session, error) {
	cfg, err := o.resolveConfig()
	if err != nil {
		return nil, err
	}

	slog.Debug("opening log", "path", cfg.LogPath, "backend", store.KindFor(cfg.LogPath, cfg.Backend))
	backend, closeFn, err := store.OpenBackend(cfg.LogPath, cfg.Backend)
	if err != nil {
		if errors.Is(err, store.ErrUnknownBackend) {
			return nil, WrapExitError(ExitCommandError, "failed to open log", err)
		}
		return nil, storageError("failed to open log", err)
	}

	var logOpts []store.Option
	logOpts = append(logOpts, store.WithWindow(cfg.RetentionDays))
	if o.Clock != nil {
		logOpts = append(logOpts, store.WithClock(o.Clock))
	}
	if o.IDs != nil {
		logOpts = append(logOpts, store.WithIDGenerator(o.IDs))
	}
	l := store.NewLog(backend, logOpts...)

	if _, err := l.Load(ctx); err != nil {
		closeFn()
		return nil, storageError("failed to load log", err)
	}
	slog.Debug("log loaded", "entries", l.Len(), "window_days", l.Window())

	return &session{cfg: cfg, log: l, close: closeFn}, nil
}

func (s *session) Close() {
	if err := s.close(); err != nil {
		slog.Error("error closing log", "error", err)
	}
}

// loadFoods opens the food reference table named by cfg.
func loadFoods(cfg config.Config) (*food.Table, error) {
	tbl, err := food.OpenTable(cfg.FoodsPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load food table", err)
	}
	slog.Debug("food table loaded", "path", cfg.FoodsPath, "items", tbl.Len())
	return tbl, nil
}

// parseDayFlag parses a --date value; empty means fallback.
func parseDayFlag(value string, fallback entry.Day) (entry.Day, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	d, err := entry.ParseDay(value)
	if err != nil {
		return entry.Day{}, WrapExitError(ExitCommandError, "invalid --date", err)
	}
	return d, nil
}

func formatterFor(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
