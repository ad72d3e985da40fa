// Package config loads resourcekit settings from resourcekit.yaml and the
// environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/tordrt/resourcekit/internal/db"
)

// FileName is the config file looked up in the working directory
const FileName = "resourcekit"

// EnvPrefix prefixes environment overrides, e.g. RESOURCEKIT_PATHS_RESOURCES
const EnvPrefix = "RESOURCEKIT"

// Config represents the resourcekit configuration
type Config struct {
	Paths     PathsConfig     `mapstructure:"paths"`
	Locales   []string        `mapstructure:"locales"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Migration MigrationConfig `mapstructure:"migration"`
}

// PathsConfig holds the directories resourcekit reads and writes
type PathsConfig struct {
	Resources  string `mapstructure:"resources"`
	Migrations string `mapstructure:"migrations"`
	Languages  string `mapstructure:"languages"`
	Views      string `mapstructure:"views"`
	// Stubs overrides the built-in stubs when set
	Stubs string `mapstructure:"stubs"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	URL    string `mapstructure:"url"`
	Schema string `mapstructure:"schema"`
}

// MigrationConfig represents migration generator configuration
type MigrationConfig struct {
	Dialect string `mapstructure:"dialect"`
}

// Load reads the configuration. configFile may be empty, in which case
// resourcekit.yaml in the working directory is used if present.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("paths.resources", "resources")
	v.SetDefault("paths.migrations", "database/migrations")
	v.SetDefault("paths.languages", "lang")
	v.SetDefault("paths.views", "views")
	v.SetDefault("paths.stubs", "")
	v.SetDefault("locales", []string{"en"})
	v.SetDefault("database.url", "")
	v.SetDefault("database.schema", "")
	v.SetDefault("migration.dialect", db.DriverMySQL)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind database url: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	var locales []string
	for _, l := range cfg.Locales {
		if l = strings.TrimSpace(l); l != "" {
			locales = append(locales, l)
		}
	}
	if len(locales) == 0 {
		return fmt.Errorf("locales must name at least one locale")
	}
	cfg.Locales = locales

	switch cfg.Migration.Dialect {
	case db.DriverMySQL, db.DriverPostgres, db.DriverSQLite, db.DriverSQLServer:
	default:
		return fmt.Errorf("migration.dialect must be mysql, postgres, sqlite or sqlserver, got: %s", cfg.Migration.Dialect)
	}

	if cfg.Paths.Resources == "" {
		return fmt.Errorf("paths.resources must not be empty")
	}
	return nil
}
