// Package tscfg loads project-level configuration (SPEC_FULL.md §A.2): a
// `.tensorscript.yaml` file naming the fixpoint iteration cap, optional
// prelude manifest extensions, and diagnostic output preferences.
package tscfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tensorscript/tsc/internal/pipeline"
)

// Config is the parsed contents of a project's .tensorscript.yaml.
type Config struct {
	// MaxIterations overrides the fixpoint loop's iteration cap.
	MaxIterations int `yaml:"max_iterations"`
	// PreludeManifest optionally names a YAML file of extra module
	// registrations (internal/modreg.Manifest) to layer on top of the
	// built-in prelude.
	PreludeManifest string `yaml:"prelude_manifest"`
	// NoColor disables ANSI color in diagnostic output regardless of
	// terminal detection.
	NoColor bool `yaml:"no_color"`
	// JSON renders diagnostics as newline-delimited JSON instead of the
	// human-readable printer.
	JSON bool `yaml:"json"`
}

// Default returns a Config with spec.md's default fixpoint cap and no
// project-specific overrides.
func Default() Config {
	return Config{MaxIterations: pipeline.DefaultMaxIterations}
}

// Load reads and parses a .tensorscript.yaml from path, filling in defaults
// for any field the file omits.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("tscfg: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("tscfg: parse %s: %w", path, err)
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = pipeline.DefaultMaxIterations
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but returns Default() instead of an error
// when path does not exist, matching a project with no config file at all.
func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}
