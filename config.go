package cfront

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the frontend configuration. It
// can be populated from YAML or JSON. The zero-value is useful – all nested
// fields inherit their package defaults.
type Config struct {
	// IncludeDirs are searched for #include <...> files, and for #include
	// "..." files after the including file's directory.
	IncludeDirs []string `json:"includeDirs" yaml:"includeDirs"`
	// Defines are command-line macro definitions, NAME or NAME=VALUE.
	Defines []string `json:"defines" yaml:"defines"`

	Diagnostics DiagnosticsConfig `json:"diagnostics" yaml:"diagnostics"`
	Fix         FixConfig         `json:"fix" yaml:"fix"`
}

type DiagnosticsConfig struct {
	// ErrorLimit stops the compilation after this many errors; 0 means no
	// limit.
	ErrorLimit uint32 `json:"errorLimit" yaml:"errorLimit"`
}

type FixConfig struct {
	// Enabled collects the suggestions attached to diagnostics and turns
	// them into file rewrites.
	Enabled bool `json:"enabled" yaml:"enabled"`
	// DiffContext is the number of context lines in generated diffs.
	DiffContext int `json:"diffContext" yaml:"diffContext"`
}

// DefaultConfig returns a Config populated with the package defaults.
// Callers may modify the returned struct before passing it to New.
func DefaultConfig() *Config {
	return &Config{
		Diagnostics: DiagnosticsConfig{ErrorLimit: 20},
		Fix:         FixConfig{DiffContext: 3},
	}
}

// LoadConfig reads a YAML configuration from URL. Fields absent from the
// document keep their defaults. When fs is nil the default local service is
// used.
func LoadConfig(ctx context.Context, fs afs.Service, URL string) (*Config, error) {
	if fs == nil {
		fs = afs.New()
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %v: %w", URL, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Fix.DiffContext < 0 {
		return fmt.Errorf("fix.diffContext must be >= 0")
	}
	return nil
}
