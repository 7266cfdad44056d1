package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

// clearEnv unsets every key for the duration of the test. Unset rather
// than empty, so .env files still apply.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{KeyDialect, KeyDSN, KeyCatalogDir, KeyDefaultLanguage, KeyEmptyMode, KeySkipZeroOffset, KeyLogLevel} {
		name := EnvPrefix + "_" + strings.ToUpper(k)
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(Options{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "abquery.yaml", `
dialect: postgres
dsn: postgres://localhost/app
catalog_dir: schema
empty_mode: strict
skip_zero_offset: false
`)

	cfg, err := Load(Options{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Dialect)
	assert.Equal(t, "postgres://localhost/app", cfg.DSN)
	assert.Equal(t, "schema", cfg.CatalogDir)
	assert.Equal(t, "strict", cfg.EmptyMode)
	assert.False(t, cfg.SkipZeroOffset)
	assert.Equal(t, "en", cfg.DefaultLanguage)
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "abquery.yaml", "dialect: postgres\nlog_level: warn\n")
	t.Setenv("ABQUERY_DIALECT", "sqlite")

	cfg, err := Load(Options{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Dialect, "environment beats file")
	assert.Equal(t, "warn", cfg.LogLevel)

	cfg, err = Load(Options{Dir: dir, Overrides: map[string]any{KeyDialect: "mysql"}})
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Dialect, "overrides beat environment")
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, ".env", "ABQUERY_DSN=file:app.db\nABQUERY_DIALECT=sqlite\n")
	writeFile(t, dir, ".env.local", "ABQUERY_DSN=file:local.db\n")

	cfg, err := Load(Options{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Dialect)
	assert.Equal(t, "file:local.db", cfg.DSN)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	clearEnv(t)
	_, err := Load(Options{File: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_ExplicitFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "custom.yaml", "default_language: es\n")
	cfg, err := Load(Options{File: path})
	require.NoError(t, err)
	assert.Equal(t, "es", cfg.DefaultLanguage)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "abquery.yaml", "dialect: oracle\nempty_mode: loose\n")

	_, err := Load(Options{Dir: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), "oracle")
	assert.Contains(t, err.Error(), "loose")
}

func TestConfig_ValidateCollectsAll(t *testing.T) {
	cfg := &Config{Dialect: "x", EmptyMode: "y", DefaultLanguage: "!!", LogLevel: "loud"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 4)

	assert.NoError(t, Default().Validate())
}

func TestConfig_Logger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.LogLevel = "warn"

	logger := cfg.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}

func TestConfig_CompilerOptions(t *testing.T) {
	cfg := Default()
	assert.Len(t, cfg.CompilerOptions(), 3)

	cfg.EmptyMode = "bogus"
	cfg.DefaultLanguage = "!!"
	assert.Len(t, cfg.CompilerOptions(), 1)
}
