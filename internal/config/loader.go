package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const (
	// ConfigDir is the directory name under ~/.config
	ConfigDir = "codeagent"
	// ConfigFile is the config file name
	ConfigFile = "config.toml"
)

// DefaultPath returns the default config file location, or "" when the
// home directory cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", ConfigDir, ConfigFile)
}

// Load reads configuration from path (DefaultPath when empty) and merges
// it over the defaults. Present keys overwrite defaults, even with zero
// values; missing keys leave the defaults untouched. A missing file is not
// an error. Returns an error only for read, parse, or validation failures.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
