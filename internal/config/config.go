// Package config loads abquery settings from defaults, an optional
// abquery.yaml, .env files, ABQUERY_* environment variables and command
// line overrides, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"golang.org/x/text/language"

	"github.com/wongpratan/abquery/internal/compiler"
	"github.com/wongpratan/abquery/internal/dialect"
)

// EnvPrefix is prepended to every key when read from the environment.
const EnvPrefix = "ABQUERY"

// Keys.
const (
	KeyDialect         = "dialect"
	KeyDSN             = "dsn"
	KeyCatalogDir      = "catalog_dir"
	KeyDefaultLanguage = "default_language"
	KeyEmptyMode       = "empty_mode"
	KeySkipZeroOffset  = "skip_zero_offset"
	KeyLogLevel        = "log_level"
)

// Config holds the resolved settings.
type Config struct {
	Dialect         string `mapstructure:"dialect"`
	DSN             string `mapstructure:"dsn"`
	CatalogDir      string `mapstructure:"catalog_dir"`
	DefaultLanguage string `mapstructure:"default_language"`
	EmptyMode       string `mapstructure:"empty_mode"`
	SkipZeroOffset  bool   `mapstructure:"skip_zero_offset"`
	LogLevel        string `mapstructure:"log_level"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Dialect:         "mysql",
		CatalogDir:      "catalog",
		DefaultLanguage: "en",
		EmptyMode:       compiler.EmptyCompat.String(),
		SkipZeroOffset:  true,
		LogLevel:        "info",
	}
}

// Options controls where Load looks.
type Options struct {
	// File is an explicit config file. When set it must exist.
	File string

	// Dir is searched for abquery.yaml, .env and .env.local. Defaults to
	// the working directory.
	Dir string

	// Overrides take precedence over every other source, keyed like the
	// config file. The CLI passes the flags the user set.
	Overrides map[string]any
}

// Load resolves the configuration and validates it.
func Load(opts Options) (*Config, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	if err := loadDotEnv(dir); err != nil {
		return nil, err
	}

	v := viper.New()
	def := Default()
	v.SetDefault(KeyDialect, def.Dialect)
	v.SetDefault(KeyDSN, def.DSN)
	v.SetDefault(KeyCatalogDir, def.CatalogDir)
	v.SetDefault(KeyDefaultLanguage, def.DefaultLanguage)
	v.SetDefault(KeyEmptyMode, def.EmptyMode)
	v.SetDefault(KeySkipZeroOffset, def.SkipZeroOffset)
	v.SetDefault(KeyLogLevel, def.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("abquery")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for k, val := range opts.Overrides {
		v.Set(k, val)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadDotEnv loads dir/.env, then dir/.env.local over it. Variables already
// in the environment win over .env but not over .env.local.
func loadDotEnv(dir string) error {
	env := filepath.Join(dir, ".env")
	if _, err := os.Stat(env); err == nil {
		if err := godotenv.Load(env); err != nil {
			return fmt.Errorf("failed to load %s: %w", env, err)
		}
	}
	local := filepath.Join(dir, ".env.local")
	if _, err := os.Stat(local); err == nil {
		if err := godotenv.Overload(local); err != nil {
			return fmt.Errorf("failed to load %s: %w", local, err)
		}
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	if _, lookupErr := dialect.Lookup(c.Dialect); lookupErr != nil {
		err = multierr.Append(err, lookupErr)
	}
	if _, ok := compiler.ParseEmptyMode(c.EmptyMode); !ok {
		err = multierr.Append(err, fmt.Errorf("invalid empty_mode %q (must be 'compat' or 'strict')", c.EmptyMode))
	}
	if _, langErr := language.Parse(c.DefaultLanguage); langErr != nil {
		err = multierr.Append(err, fmt.Errorf("invalid default_language %q: %w", c.DefaultLanguage, langErr))
	}
	if _, levelErr := c.Level(); levelErr != nil {
		err = multierr.Append(err, levelErr)
	}
	return err
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return level, nil
}

// Logger returns a text logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// CompilerOptions translates the compiler settings. Settings that fail
// validation are left at the compiler defaults.
func (c *Config) CompilerOptions() []compiler.Option {
	opts := []compiler.Option{compiler.WithZeroOffsetSkip(c.SkipZeroOffset)}
	if mode, ok := compiler.ParseEmptyMode(c.EmptyMode); ok {
		opts = append(opts, compiler.WithEmptyMode(mode))
	}
	if tag, err := language.Parse(c.DefaultLanguage); err == nil {
		opts = append(opts, compiler.WithDefaultLanguage(tag))
	}
	return opts
}
