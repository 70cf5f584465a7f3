// Package config loads macrolog settings.
//
// Settings live in ~/.config/macrolog/config.yaml by default. A path ending
// in .toml is read as TOML instead. A missing file yields the defaults; an
// unknown key or an out-of-range value is an error. Every loaded Config is
// checked against the embedded CUE schema in schema.cue.
package config
