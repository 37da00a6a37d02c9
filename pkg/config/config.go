// Package config holds the explicit runtime configuration. Nothing in the
// core reads ambient state; callers load a Config once and thread it (and
// the captured Environment) through the calls that need it.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/vinisalazar/bioprov/pkg/errors"
)

// Config is the full runtime configuration.
type Config struct {
	// Threads is the worker-count hint passed to external tools.
	Threads int `toml:"threads"`

	// AddUsers includes user agents in exported provenance documents.
	AddUsers bool `toml:"add_users"`

	Store     StoreConfig     `toml:"store"`
	ProvStore ProvStoreConfig `toml:"provstore"`
}

// StoreConfig selects and configures the project database backend.
type StoreConfig struct {
	// Backend is "file" or "mongo".
	Backend string `toml:"backend"`

	// Path is the directory of the file backend.
	Path string `toml:"path"`

	// URI and Database configure the mongo backend.
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// ProvStoreConfig configures document uploads to a ProvStore-compatible
// service.
type ProvStoreConfig struct {
	Endpoint string `toml:"endpoint"`
	Username string `toml:"username"`

	// APIKey is read from the BIOPROV_PROVSTORE_KEY environment variable
	// when empty, so keys can stay out of config files.
	APIKey string `toml:"api_key"`
}

// Default returns the configuration used when no file is present. Half of
// the machine's processors is the conventional thread hint for the
// bioinformatics tools this drives.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Threads:  max(runtime.NumCPU()/2, 1),
		AddUsers: true,
		Store: StoreConfig{
			Backend:  "file",
			Path:     filepath.Join(home, ".bioprov", "db"),
			Database: "bioprov",
		},
		ProvStore: ProvStoreConfig{
			Endpoint: "https://openprovenance.org/store/api/v0",
		},
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".bioprov", "config.toml")
}

// Load reads a TOML config file over the defaults. A missing file is an
// error; use LoadOrDefault for the optional conventional location.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeNotFound, err, "read config %s", path)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeSchema, err, "parse config %s", path)
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadOrDefault reads the conventional config file if it exists and falls
// back to defaults otherwise.
func LoadOrDefault() (Config, error) {
	path := DefaultPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		cfg.applyEnv()
		return cfg, nil
	}
	return Load(path)
}

func (c *Config) applyEnv() {
	if c.ProvStore.APIKey == "" {
		c.ProvStore.APIKey = os.Getenv("BIOPROV_PROVSTORE_KEY")
	}
}
