package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// ErrInvalid is returned when a configuration fails schema validation.
var ErrInvalid = errors.New("invalid config")

// Config holds the resolved macrolog settings.
type Config struct {
	LogPath       string `json:"log_path"`
	FoodsPath     string `json:"foods_path"`
	Backend       string `json:"backend"`
	RetentionDays int    `json:"retention_days"`
}

const (
	defaultConfigPath    = "~/.config/macrolog/config.yaml"
	defaultLogPath       = "~/.local/share/macrolog/daily_log.csv"
	defaultFoodsPath     = "~/.local/share/macrolog/food_database.csv"
	defaultBackend       = "auto"
	defaultRetentionDays = 30
)

// raw is the on-disk shape. Pointers distinguish "unset" from zero.
type raw struct {
	LogPath       string `yaml:"log_path" toml:"log_path"`
	FoodsPath     string `yaml:"foods_path" toml:"foods_path"`
	Backend       string `yaml:"backend" toml:"backend"`
	RetentionDays *int   `yaml:"retention_days" toml:"retention_days"`
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the built-in settings with paths expanded.
func Default() Config {
	return Config{
		LogPath:       mustExpand(defaultLogPath),
		FoodsPath:     mustExpand(defaultFoodsPath),
		Backend:       defaultBackend,
		RetentionDays: defaultRetentionDays,
	}
}

// Load reads the config at path (or the default path when empty), falling
// back to defaults when the file does not exist.
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultConfigPath
	}
	resolved, err := expandPath(path)
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(resolved)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var r raw
	if strings.EqualFold(filepath.Ext(resolved), ".toml") {
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&r); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	} else if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&r); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg := Default()
	if v := strings.TrimSpace(r.LogPath); v != "" {
		cfg.LogPath = relativeTo(resolved, mustExpand(v))
	}
	if v := strings.TrimSpace(r.FoodsPath); v != "" {
		cfg.FoodsPath = relativeTo(resolved, mustExpand(v))
	}
	if v := strings.TrimSpace(r.Backend); v != "" {
		cfg.Backend = strings.ToLower(v)
	}
	if r.RetentionDays != nil {
		cfg.RetentionDays = *r.RetentionDays
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", resolved, err)
	}
	return cfg, nil
}

// Validate checks c against the embedded CUE schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	value := ctx.Encode(map[string]any{
		"log_path":       c.LogPath,
		"foods_path":     c.FoodsPath,
		"backend":        c.Backend,
		"retention_days": c.RetentionDays,
	})
	if err := def.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// relativeTo anchors a relative path at the directory of the config file.
func relativeTo(configPath, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(configPath), p)
}

func mustExpand(path string) string {
	if strings.HasPrefix(strings.TrimSpace(path), "~") {
		expanded, err := expandPath(path)
		if err != nil {
			return path
		}
		return expanded
	}
	return strings.TrimSpace(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
