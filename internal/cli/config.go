package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mcoot/gemfall/internal/factory"
	badgerstorage "github.com/mcoot/gemfall/internal/storage/badger"
	redisstorage "github.com/mcoot/gemfall/internal/storage/redis"
)

// EnvPrefix prefixes every environment override, e.g. GEMFALL_OUTPUT
const EnvPrefix = "GEMFALL"

// Config holds CLI configuration
type Config struct {
	ServerURL   string `mapstructure:"server"`
	Output      string `mapstructure:"output"`
	Verbose     bool   `mapstructure:"verbose"`
	StorageType string `mapstructure:"storage"`
	RedisURL    string `mapstructure:"redis-url"`
	BadgerDir   string `mapstructure:"badger-dir"`
	Port        int    `mapstructure:"port"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Output:      "text",
		StorageType: factory.StorageTypeMemory,
		RedisURL:    redisstorage.DefaultConfig().URL,
		BadgerDir:   "data/badger",
		Port:        8080,
	}
}

// newViper layers defaults, an optional config file, environment variables
// and flags. The server's deployment variables are honoured unprefixed.
func newViper(cmd *cobra.Command, configFile string) (*viper.Viper, error) {
	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault("output", defaults.Output)
	v.SetDefault("storage", defaults.StorageType)
	v.SetDefault("redis-url", defaults.RedisURL)
	v.SetDefault("badger-dir", defaults.BadgerDir)
	v.SetDefault("port", defaults.Port)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for key, env := range map[string]string{
		"storage":    "STORAGE_TYPE",
		"redis-url":  "REDIS_URL",
		"badger-dir": "BADGER_DIR",
		"port":       "PORT",
	} {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, "-", "_")), env); err != nil {
			return nil, err
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	return v, nil
}

// LoadConfig resolves the configuration for cmd
func LoadConfig(cmd *cobra.Command, configFile string) (*Config, error) {
	v, err := newViper(cmd, configFile)
	if err != nil {
		return nil, err
	}
	c := DefaultConfig()
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if c.Output != "text" && c.Output != "json" {
		return nil, fmt.Errorf("output must be text or json, got %q", c.Output)
	}
	return c, nil
}

// FactoryConfig builds the application configuration for local commands
func (c *Config) FactoryConfig(logger zerolog.Logger) (factory.Config, error) {
	cfg := factory.Config{
		Logger:      &logger,
		StorageType: c.StorageType,
	}
	switch c.StorageType {
	case factory.StorageTypeRedis:
		if c.RedisURL == "" {
			return cfg, fmt.Errorf("redis-url required when storage is redis")
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		cfg.RedisConfig = &redisCfg
	case factory.StorageTypeBadger:
		if c.BadgerDir == "" {
			return cfg, fmt.Errorf("badger-dir required when storage is badger")
		}
		cfg.BadgerConfig = &badgerstorage.Config{Dir: c.BadgerDir}
	}
	return cfg, nil
}

// newLogger writes human-readable logs to stderr, debug level when verbose
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}
