// Package config loads emolabel settings from an optional YAML file, EMOLABEL_*
// environment variables and built-in defaults, in increasing order of precedence
// file < env. Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/unowned-ai/emolabel/pkg/utils"
)

const (
	// EnvPrefix is the prefix of environment overrides, e.g. EMOLABEL_EXPORT_FORMAT.
	EnvPrefix = "EMOLABEL"

	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatYAML = "yaml"

	// DefaultMaxTextLength is the display truncation applied to long texts in tables.
	DefaultMaxTextLength = 100
)

// Config holds every tunable of the CLI, the terminal shell and the MCP server.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Export  ExportConfig  `mapstructure:"export"`
	Display DisplayConfig `mapstructure:"display"`
	Dataset DatasetConfig `mapstructure:"dataset"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type ExportConfig struct {
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format"`
}

type DisplayConfig struct {
	MaxTextLength int `mapstructure:"max_text_length"`
}

// DatasetConfig points at the SQLite dataset archive.
type DatasetConfig struct {
	Path string `mapstructure:"path"`
	WAL  bool   `mapstructure:"wal"`
	Sync string `mapstructure:"sync"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("export.dir", ".")
	v.SetDefault("export.format", FormatCSV)
	v.SetDefault("display.max_text_length", DefaultMaxTextLength)
	v.SetDefault("dataset.path", "")
	v.SetDefault("dataset.wal", false)
	v.SetDefault("dataset.sync", "FULL")
}

// Load reads configuration. When configFile is empty the default location
// (see DefaultConfigPath) is used if it exists; a missing default file is not an
// error, a missing explicit file is.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", configFile, err)
		}
	} else if path := DefaultConfigPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.Export.Format = strings.ToLower(strings.TrimSpace(cfg.Export.Format))
	cfg.Dataset.Sync = strings.ToUpper(strings.TrimSpace(cfg.Dataset.Sync))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges that viper cannot express.
func (c *Config) Validate() error {
	var errs []error
	switch c.Export.Format {
	case FormatCSV, FormatJSON, FormatYAML:
	default:
		errs = append(errs, fmt.Errorf("export.format must be one of %s, %s, %s; got '%s'", FormatCSV, FormatJSON, FormatYAML, c.Export.Format))
	}
	if c.Display.MaxTextLength <= 0 {
		errs = append(errs, fmt.Errorf("display.max_text_length must be positive, got %d", c.Display.MaxTextLength))
	}
	return errors.Join(errs...)
}

// DefaultConfigPath is <user config dir>/emolabel/config.yaml, or "" when the
// user config dir cannot be determined.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, utils.AppName, "config.yaml")
}

// DatasetPath resolves the dataset archive location, falling back to the
// system-specific default when none is configured.
func (c *Config) DatasetPath() (string, error) {
	return utils.ResolveAndEnsureDBPath(c.Dataset.Path)
}
