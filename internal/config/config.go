// Package config loads the optional quill.yaml project file (spec
// §6.4 expansion): search paths for `-I`-style includes and default
// output names, so the CLI driver doesn't need every flag supplied on
// every invocation. Grounded on the teacher's one YAML dependency
// (pulled in transitively through go-snaps' own config handling,
// promoted here to a direct, first-class use) since no project-level
// config loader exists anywhere in the teacher tree to imitate
// directly.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Config is the decoded shape of quill.yaml.
type Config struct {
	// SearchPaths are added to the include-search path ahead of any -I
	// flags given on the command line (spec §6.4: "-I PATH: Add to
	// include-search path").
	SearchPaths []string `yaml:"searchPaths"`

	// DefaultOutput is used for -o when the flag is omitted.
	DefaultOutput string `yaml:"defaultOutput"`

	// DefaultHeader is used for -h when the flag is omitted.
	DefaultHeader string `yaml:"defaultHeader"`
}

// Load reads and decodes the quill.yaml file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Merge overlays explicit CLI flag values (searchPaths, output, header)
// on top of the config's defaults: a non-empty CLI value always wins,
// an empty one falls back to the config.
func (c *Config) Merge(searchPaths []string, output, header string) (mergedPaths []string, mergedOutput, mergedHeader string) {
	mergedPaths = append(append([]string(nil), c.SearchPaths...), searchPaths...)
	mergedOutput = output
	if mergedOutput == "" {
		mergedOutput = c.DefaultOutput
	}
	mergedHeader = header
	if mergedHeader == "" {
		mergedHeader = c.DefaultHeader
	}
	return mergedPaths, mergedOutput, mergedHeader
}
