package store

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
	"go.uber.org/zap"
)

// Config is the TOML configuration consumed by the CLI and by embedders
// that prefer file-based configuration over building Options directly.
//
//	[Properties]
//	AllowedNamespaces = ["com.example.tool"]
//
//	[Logging]
//	Development = true
type Config struct {
	Properties struct {
		AllowedNamespaces []string `toml:"AllowedNamespaces"`
	} `toml:"Properties"`
	Logging struct {
		Development bool `toml:"Development"`
	} `toml:"Logging"`
}

// LoadConfig reads a TOML configuration file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("spritevault: %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("spritevault: %s: %w", path, err)
	}
	return cfg, nil
}

// Options converts the configuration into pass options. A development
// logger is built when Logging.Development is set; otherwise logging is
// off unless the caller supplies a logger afterwards.
func (c Config) Options() (Options, error) {
	opts := Options{AllowedNamespaces: c.Properties.AllowedNamespaces}
	if c.Logging.Development {
		log, err := zap.NewDevelopment()
		if err != nil {
			return opts, err
		}
		opts.Logger = log
	}
	return opts, nil
}
