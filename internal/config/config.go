// Package config loads whensort configuration from YAML, merging machine
// and project files over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the full whensort configuration.
type Config struct {
	Rule   RuleConfig   `yaml:"rule"`
	Output OutputConfig `yaml:"output"`
	Input  InputConfig  `yaml:"input"`
}

// RuleConfig controls the case-when-splat rule.
type RuleConfig struct {
	// Enabled toggles the rule. Nil means "inherit from the lower tier".
	Enabled *bool `yaml:"enabled,omitempty"`

	// MaxPasses caps autocorrect rounds per file. Zero lets the driver
	// derive the cap from the file's clause count.
	MaxPasses int `yaml:"max_passes,omitempty"`
}

// OutputConfig controls result rendering.
type OutputConfig struct {
	// Format is one of json, sarif, markdown, pretty. Empty selects by TTY.
	Format string `yaml:"format,omitempty"`
}

// InputConfig controls source discovery.
type InputConfig struct {
	// Extensions are the file extensions walked as Ruby source.
	Extensions []string `yaml:"extensions,omitempty"`
}

// RuleEnabled resolves the effective enable toggle.
func (c *Config) RuleEnabled() bool {
	return c.Rule.Enabled == nil || *c.Rule.Enabled
}

var knownFormats = map[string]bool{
	"": true, "json": true, "sarif": true, "markdown": true, "pretty": true,
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if !knownFormats[c.Output.Format] {
		return fmt.Errorf("output.format must be json, sarif, markdown, or pretty, got: %s", c.Output.Format)
	}
	if c.Rule.MaxPasses < 0 {
		return fmt.Errorf("rule.max_passes must be >= 0, got: %d", c.Rule.MaxPasses)
	}
	return nil
}

// SystemDefaults returns the built-in base configuration.
func SystemDefaults() *Config {
	enabled := true
	return &Config{
		Rule: RuleConfig{Enabled: &enabled},
		Input: InputConfig{
			Extensions: []string{".rb", ".rake", ".gemspec"},
		},
	}
}

// MergeConfigs merges configs in order of increasing precedence. Non-zero
// fields from later configs override earlier ones; an explicit rule.enabled
// always takes effect from the higher tier.
func MergeConfigs(configs ...*Config) *Config {
	result := &Config{}

	for _, cfg := range configs {
		if cfg == nil {
			continue
		}
		if cfg.Rule.Enabled != nil {
			result.Rule.Enabled = cfg.Rule.Enabled
		}
		if cfg.Rule.MaxPasses != 0 {
			result.Rule.MaxPasses = cfg.Rule.MaxPasses
		}
		if cfg.Output.Format != "" {
			result.Output.Format = cfg.Output.Format
		}
		if len(cfg.Input.Extensions) > 0 {
			result.Input.Extensions = cfg.Input.Extensions
		}
	}

	return result
}

// LoadFromFile reads a YAML config file. Returns nil, nil if the file
// doesn't exist.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadTiered loads system defaults, then the machine config, then the
// project config, and merges them in order of increasing precedence.
func LoadTiered(machinePath, projectPath string) (*Config, error) {
	system := SystemDefaults()

	machine, err := LoadFromFile(machinePath)
	if err != nil {
		return nil, fmt.Errorf("loading machine config: %w", err)
	}

	project, err := LoadFromFile(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return MergeConfigs(system, machine, project), nil
}
