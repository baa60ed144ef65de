package commands

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/MasterOfBinary/batchiter/batch"
)

// benchFile is the structure of a batchbench configuration file.
type benchFile struct {
	Iterator batch.Config `yaml:"iterator"`
	Items    int          `yaml:"items"`
	Chunk    int          `yaml:"chunk"`
	Sync     string       `yaml:"sync"`
}

// loadConfig reads a configuration file. Fields missing from the file keep
// the values already in defaults.
func loadConfig(path string, defaults benchFile) (benchFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return defaults, errors.Wrap(err, "failed to read config file")
	}

	cfg := defaults
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return defaults, errors.Wrap(err, "failed to parse config file")
	}
	if err := cfg.Iterator.Validate(); err != nil {
		return defaults, errors.Wrapf(err, "config file %s", path)
	}
	return cfg, nil
}
