package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"

	"github.com/styleguard/styleguard/pkg/config"
)

const (
	// ConfigFileMode is the file mode for written config files (user
	// read/write only).
	ConfigFileMode = 0o600

	// ConfigDirMode is the file mode for created config directories.
	ConfigDirMode = 0o700
)

// ErrConfigExists is returned when init would overwrite an existing file.
var ErrConfigExists = errors.New("config file already exists")

// Writer writes configuration files in TOML.
type Writer struct {
	workDir string
}

// NewWriter creates a writer rooted at the working directory.
func NewWriter() (*Writer, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get working directory")
	}

	return NewWriterWithDir(workDir), nil
}

// NewWriterWithDir creates a writer with a custom directory (for testing).
func NewWriterWithDir(workDir string) *Writer {
	return &Writer{workDir: workDir}
}

// WriteProject writes cfg to the project config file. It refuses to
// overwrite an existing file unless force is set.
func (w *Writer) WriteProject(cfg *config.Config, force bool) (string, error) {
	path := filepath.Join(w.workDir, ProjectConfigFile)

	if !force && fileExists(path) {
		return path, errors.Wrapf(ErrConfigExists, "%s", path)
	}

	if err := w.writeFile(path, cfg); err != nil {
		return path, err
	}

	return path, nil
}

func (w *Writer) writeFile(path string, cfg *config.Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, ConfigDirMode); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}

	var buf bytes.Buffer

	encoder := toml.NewEncoder(&buf)
	encoder.SetIndentTables(true)

	if err := encoder.Encode(cfg); err != nil {
		return errors.Wrap(err, "failed to encode config to TOML")
	}

	if err := os.WriteFile(path, buf.Bytes(), ConfigFileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", path)
	}

	return nil
}
