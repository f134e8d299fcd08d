// Package config defines the styleguard configuration surface. The same
// structs back the TOML files, the environment overrides and the
// generated JSON schema.
package config

// Config is the full configuration tree.
type Config struct {
	// Global holds run-wide settings.
	Global GlobalConfig `koanf:"global" json:"global" toml:"global" jsonschema:"title=Global settings"`

	// Rules maps rule ids to their per-rule settings.
	Rules map[string]RuleConfig `koanf:"rules" json:"rules,omitempty" toml:"rules,omitempty" jsonschema:"title=Per-rule settings"`
}

// GlobalConfig holds settings that apply to the whole run.
type GlobalConfig struct {
	// Workers bounds concurrent file checks. Zero selects the host CPU
	// count.
	Workers int `koanf:"workers" json:"workers" toml:"workers" jsonschema:"minimum=0,description=Maximum concurrent file checks; 0 means one per CPU"`

	// FixIterations bounds the check-fix loop per file.
	FixIterations int `koanf:"fix_iterations" json:"fix_iterations" toml:"fix_iterations" jsonschema:"minimum=1,description=Maximum fix passes per file"`
}

// RuleConfig holds one rule's settings.
type RuleConfig struct {
	// Enabled toggles the rule. Unset means enabled.
	Enabled *bool `koanf:"enabled" json:"enabled,omitempty" toml:"enabled,omitempty" jsonschema:"description=Whether the rule runs"`

	// Severity overrides the rule's default severity, "error" or
	// "warning".
	Severity string `koanf:"severity" json:"severity,omitempty" toml:"severity,omitempty" jsonschema:"enum=error,enum=warning,description=Severity override"`

	// Options carries rule-specific settings, decoded against the rule's
	// option struct.
	Options map[string]any `koanf:"options" json:"options,omitempty" toml:"options,omitempty" jsonschema:"description=Rule-specific options"`
}

// IsEnabled reports whether a rule is enabled, defaulting to true when the
// rule has no entry or the entry leaves Enabled unset.
func (c *Config) IsEnabled(ruleID string) bool {
	rc, ok := c.Rules[ruleID]
	if !ok || rc.Enabled == nil {
		return true
	}

	return *rc.Enabled
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Global: GlobalConfig{
			Workers:       0,
			FixIterations: 10,
		},
		Rules: map[string]RuleConfig{},
	}
}
