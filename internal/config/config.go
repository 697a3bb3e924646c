// Package config loads run settings from an optional YAML file, .env files
// and the environment. Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Scoopit/mysql2databend/internal/convert"
	"github.com/Scoopit/mysql2databend/internal/sink"
)

// ConfigVersionV1 is the current config file version
const ConfigVersionV1 = "v1"

// Environment variables read by ApplyEnv
const (
	EnvQueryURI = "DATABEND_QUERY_URI"
	EnvUser     = "DATABEND_USER"
	EnvPassword = "DATABEND_PASSWORD"
	EnvMySQLURL = "DATABEND_MYSQL_URL"
	EnvKVURL    = "KV_URL"
)

// Config represents the entire configuration
type Config struct {
	Version                string   `yaml:"version"`
	Input                  string   `yaml:"input"`
	Databases              []string `yaml:"databases"`
	Tables                 []string `yaml:"tables"`
	SkipDatabaseStatements bool     `yaml:"skip_database_stmt"`
	ProgressInterval       int      `yaml:"progress_interval"`
	ConnectRetries         uint     `yaml:"connect_retries"`

	Databend DatabendConfig `yaml:"databend"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	KV       KVConfig       `yaml:"kv"`
}

// DatabendConfig configures the Databend HTTP sink
type DatabendConfig struct {
	QueryURI           string        `yaml:"query_uri"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	DefaultDatabase    string        `yaml:"default_database"`
	ForceDatabase      string        `yaml:"force_database"`
	MaxExecuteDuration time.Duration `yaml:"max_execute_duration"`
}

// MySQLConfig configures the MySQL-protocol sink
type MySQLConfig struct {
	URL string `yaml:"url"`
}

// KVConfig configures the Redis sink
type KVConfig struct {
	URL     string        `yaml:"url"`
	Key     string        `yaml:"key"`
	Channel string        `yaml:"channel"`
	TTL     time.Duration `yaml:"ttl"`
}

// Default returns the configuration used when nothing else is specified.
func Default() *Config {
	return &Config{
		Version:          ConfigVersionV1,
		ProgressInterval: 100000,
		ConnectRetries:   sink.DefaultConnectRetries,
		Databend: DatabendConfig{
			QueryURI:           "http://localhost:8000",
			User:               "root",
			MaxExecuteDuration: sink.DefaultMaxExecuteDuration,
		},
		MySQL: MySQLConfig{
			URL: "databend://root@localhost:3307/default",
		},
		KV: KVConfig{
			URL:     "redis://localhost:6379/0",
			Key:     sink.DefaultKVKey,
			Channel: sink.DefaultKVChannel,
			TTL:     sink.DefaultKVTTL,
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config.Version = ""
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateAndMigrateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return config, nil
}

// validateAndMigrateConfig validates the config version and handles migrations
func validateAndMigrateConfig(config *Config) error {
	if config.Version == "" {
		slog.Warn("No version specified in config, assuming " + ConfigVersionV1)
		config.Version = ConfigVersionV1
	}

	switch config.Version {
	case ConfigVersionV1:
	default:
		return fmt.Errorf("unsupported config version: %s (supported: %s)",
			config.Version, ConfigVersionV1)
	}

	if config.ProgressInterval < 0 {
		return fmt.Errorf("progress_interval must not be negative: %d", config.ProgressInterval)
	}
	if config.Databend.MaxExecuteDuration < 0 {
		return fmt.Errorf("databend.max_execute_duration must not be negative: %s", config.Databend.MaxExecuteDuration)
	}
	return nil
}

// LoadEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadEnv(files ...string) error {
	for _, file := range files {
		err := godotenv.Load(file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
		slog.Debug("Loaded environment file", "path", file)
	}
	return nil
}

// ApplyEnv overrides connection settings from the environment.
func (c *Config) ApplyEnv() {
	if v, ok := os.LookupEnv(EnvQueryURI); ok {
		c.Databend.QueryURI = v
	}
	if v, ok := os.LookupEnv(EnvUser); ok {
		c.Databend.User = v
	}
	if v, ok := os.LookupEnv(EnvPassword); ok {
		c.Databend.Password = v
	}
	if v, ok := os.LookupEnv(EnvMySQLURL); ok {
		c.MySQL.URL = v
	}
	if v, ok := os.LookupEnv(EnvKVURL); ok {
		c.KV.URL = v
	}
}

// Converter returns the settings of the conversion loop.
func (c *Config) Converter() convert.Config {
	return convert.Config{
		Databases:              c.Databases,
		Tables:                 c.Tables,
		SkipDatabaseStatements: c.SkipDatabaseStatements,
		ProgressInterval:       c.ProgressInterval,
	}
}

// DatabendSink returns the settings of the Databend HTTP sink.
func (c *Config) DatabendSink() sink.DatabendConfig {
	return sink.DatabendConfig{
		QueryURI:           c.Databend.QueryURI,
		User:               c.Databend.User,
		Password:           c.Databend.Password,
		DefaultDatabase:    c.Databend.DefaultDatabase,
		ForceDatabase:      c.Databend.ForceDatabase,
		MaxExecuteDuration: c.Databend.MaxExecuteDuration,
	}
}

// KVSink returns the settings of the Redis sink.
func (c *Config) KVSink() sink.KVConfig {
	return sink.KVConfig{
		URL:     c.KV.URL,
		Key:     c.KV.Key,
		Channel: c.KV.Channel,
		TTL:     c.KV.TTL,
	}
}
