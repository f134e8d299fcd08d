// Package config provides internal configuration loading and resolution.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	tomlparser "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/styleguard/styleguard/pkg/config"
)

var (
	// ErrInvalidTOML is returned when a TOML file cannot be parsed.
	ErrInvalidTOML = errors.New("invalid TOML")

	// ErrInvalidPermissions is returned when a config file is
	// world-writable.
	ErrInvalidPermissions = errors.New("config file has insecure permissions")
)

const (
	// GlobalConfigDir is the directory under $HOME holding the global
	// configuration.
	GlobalConfigDir = ".config/styleguard"

	// GlobalConfigFile is the global configuration file name.
	GlobalConfigFile = "config.toml"

	// ProjectConfigFile is the project configuration file name, looked up
	// in the working directory.
	ProjectConfigFile = ".styleguard.toml"
)

// Loader loads configuration from all sources with precedence.
// Precedence order (highest to lowest):
// 1. CLI flags
// 2. Environment variables (STYLEGUARD_*)
// 3. Project config (.styleguard.toml)
// 4. Global config (~/.config/styleguard/config.toml)
// 5. Defaults
//
// Rule tables are merged separately from the koanf tree because rule ids
// contain dots, which the key delimiter would split. Per-rule settings
// from the project file override the global file id by id; ids present in
// only one file are kept.
type Loader struct {
	homeDir string
	workDir string

	// configFile, when set, replaces project config discovery.
	configFile string
}

// NewLoader creates a loader rooted at the user's home and working
// directories.
func NewLoader() (*Loader, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get home directory")
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get working directory")
	}

	return NewLoaderWithDirs(homeDir, workDir), nil
}

// NewLoaderWithDirs creates a loader with custom directories (for testing).
func NewLoaderWithDirs(homeDir, workDir string) *Loader {
	return &Loader{homeDir: homeDir, workDir: workDir}
}

// Load builds the effective configuration. flags carries CLI overrides
// keyed by koanf path, e.g. "global.workers".
func (l *Loader) Load(flags map[string]any) (*config.Config, error) {
	k := koanf.New(".")

	defaults := config.Default()
	defaultsMap := map[string]any{
		"global.workers":        defaults.Global.Workers,
		"global.fix_iterations": defaults.Global.FixIterations,
	}

	if err := k.Load(confmap.Provider(defaultsMap, "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	var globalRules, projectRules map[string]config.RuleConfig

	globalPath := l.GlobalConfigPath()

	if fileExists(globalPath) {
		if err := l.loadTOMLFile(k, globalPath); err != nil {
			return nil, errors.Wrap(err, "failed to load global config")
		}

		rules, err := loadRuleTables(globalPath)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load global config")
		}

		globalRules = rules
	}

	projectPath := l.ProjectConfigPath()
	if l.configFile != "" && !fileExists(projectPath) {
		return nil, errors.Newf("config file %s not found", projectPath)
	}

	if fileExists(projectPath) {
		if err := l.loadTOMLFile(k, projectPath); err != nil {
			return nil, errors.Wrap(err, "failed to load project config")
		}

		rules, err := loadRuleTables(projectPath)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load project config")
		}

		projectRules = rules
	}

	envOpt := env.Opt{
		Prefix:        "STYLEGUARD_",
		TransformFunc: envTransform,
	}

	if err := k.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	if len(flags) > 0 {
		if err := k.Load(confmap.Provider(flags, "."), nil); err != nil {
			return nil, errors.Wrap(err, "failed to load flags")
		}
	}

	var cfg config.Config

	unmarshalConf := koanf.UnmarshalConf{Tag: "koanf", FlatPaths: false}
	if err := k.UnmarshalWithConf("global", &cfg.Global, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	cfg.Rules = mergeRules(globalRules, projectRules)

	return &cfg, nil
}

// mergeRules combines the two rule tables, project entries winning id by
// id.
func mergeRules(global, project map[string]config.RuleConfig) map[string]config.RuleConfig {
	merged := make(map[string]config.RuleConfig, len(global)+len(project))

	for id, rc := range global {
		merged[id] = rc
	}

	for id, rc := range project {
		merged[id] = rc
	}

	return merged
}

// loadRuleTables reads only the [rules] tables from a TOML file.
func loadRuleTables(path string) (map[string]config.RuleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	var doc struct {
		Rules map[string]config.RuleConfig `toml:"rules"`
	}

	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(ErrInvalidTOML, "%s: %v", path, err)
	}

	return doc.Rules, nil
}

// loadTOMLFile loads a TOML configuration file with a permissions check.
func (*Loader) loadTOMLFile(k *koanf.Koanf, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	// Reject world-writable files.
	if info.Mode().Perm()&0o002 != 0 {
		return errors.Wrapf(
			ErrInvalidPermissions,
			"%s is world-writable (mode: %s)",
			path,
			info.Mode().Perm(),
		)
	}

	return k.Load(file.Provider(path), tomlparser.Parser())
}

// envTransform maps environment variable names to config paths. Only the
// first underscore separates the section; the rest of the name is the key,
// so STYLEGUARD_GLOBAL_FIX_ITERATIONS → global.fix_iterations.
func envTransform(key, value string) (string, any) {
	key = strings.TrimPrefix(key, "STYLEGUARD_")
	key = strings.ToLower(key)

	if section, rest, ok := strings.Cut(key, "_"); ok {
		key = section + "." + rest
	}

	return key, value
}

// GlobalConfigPath returns the path to the global configuration file.
func (l *Loader) GlobalConfigPath() string {
	return filepath.Join(l.homeDir, GlobalConfigDir, GlobalConfigFile)
}

// SetConfigFile pins the project configuration to an explicit path,
// bypassing discovery in the working directory.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = path
}

// ProjectConfigPath returns the path to the project configuration file.
func (l *Loader) ProjectConfigPath() string {
	if l.configFile != "" {
		return l.configFile
	}

	return filepath.Join(l.workDir, ProjectConfigFile)
}

// HasProjectConfig reports whether a project configuration file exists.
func (l *Loader) HasProjectConfig() bool {
	return fileExists(l.ProjectConfigPath())
}

func fileExists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}
