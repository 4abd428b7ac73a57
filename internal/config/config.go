// Package config loads the edificio.yaml workspace configuration,
// layering defaults, the config file and EDIFICIO_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the top-level edificio.yaml configuration.
type Config struct {
	Building BuildingConfig `yaml:"building" mapstructure:"building"`
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Data     DataConfig     `yaml:"data" mapstructure:"data"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// BuildingConfig identifies the property under administration. Used to
// seed the parameter table on init; afterwards the database copy wins.
type BuildingConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	TaxID   string `yaml:"tax_id" mapstructure:"tax_id"`
	Address string `yaml:"address" mapstructure:"address"`
}

// DatabaseConfig locates the ledger database.
type DatabaseConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// DataConfig locates on-disk artifacts outside the database.
type DataConfig struct {
	Directory string `yaml:"directory" mapstructure:"directory"` // evidence files, exports
}

// LogConfig controls logging output.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // "text" or "json"
}

var envOnce sync.Once

// LoadEnv loads a .env file from the working directory if one exists.
// Missing files are fine.
func LoadEnv() {
	envOnce.Do(func() {
		if _, err := os.Stat(".env"); err != nil {
			return
		}
		_ = godotenv.Load(".env")
	})
}

// Load reads configuration for the given file path. A missing file is
// not an error; defaults and EDIFICIO_* environment variables still
// apply. Environment keys follow the structure, e.g.
// EDIFICIO_DATABASE_PATH or EDIFICIO_LOG_LEVEL.
func Load(path string) (*Config, error) {
	LoadEnv()

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("EDIFICIO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default(buildingName string) *Config {
	return &Config{
		Building: BuildingConfig{Name: buildingName},
		Database: DatabaseConfig{Path: "edificio.db"},
		Data:     DataConfig{Directory: "data"},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("building.name", "")
	v.SetDefault("building.tax_id", "")
	v.SetDefault("building.address", "")
	v.SetDefault("database.path", "edificio.db")
	v.SetDefault("data.directory", "data")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

func validate(cfg *Config) error {
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("invalid log format %q (must be text or json)", cfg.Log.Format)
	}
	if cfg.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	return nil
}

// Logger builds a logrus logger per the Log section.
func (c *Config) Logger() *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if strings.ToLower(c.Log.Format) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
