package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hayal27/sininning-pro-sub000/infrastructure/config"
)

type sampleConfig struct {
	Name    string        `env:"SAMPLE_NAME"    yaml:"name"`
	Port    int           `env:"SAMPLE_PORT"    yaml:"port"`
	Enabled bool          `env:"SAMPLE_ENABLED" yaml:"enabled"`
	Timeout time.Duration `env:"SAMPLE_TIMEOUT" yaml:"timeout"`
	Origins []string      `env:"SAMPLE_ORIGINS" yaml:"origins"`
	Nested  struct {
		Secret string `env:"SAMPLE_SECRET" yaml:"secret"`
	} `yaml:"nested"`
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_ReadsYAML(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	path := writeFile(t, "name: site\nport: 8080\nnested:\n  secret: abc\n")

	cfg, err := config.Load[sampleConfig](path)
	require.NoError(t, err)

	assert.Equal(t, "site", cfg.Name)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "abc", cfg.Nested.Secret)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("SAMPLE_PORT", "9090")
	t.Setenv("SAMPLE_ENABLED", "yes")
	t.Setenv("SAMPLE_TIMEOUT", "15s")
	t.Setenv("SAMPLE_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("SAMPLE_SECRET", "from-env")
	path := writeFile(t, "port: 8080\nnested:\n  secret: abc\n")

	cfg, err := config.Load[sampleConfig](path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Origins)
	assert.Equal(t, "from-env", cfg.Nested.Secret)
}

func TestLoad_MissingFileUsesEnvOnly(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("SAMPLE_NAME", "env-only")

	cfg, err := config.Load[sampleConfig](filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, "env-only", cfg.Name)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	path := writeFile(t, "port: [unterminated\n")

	_, err := config.Load[sampleConfig](path)
	require.Error(t, err)
}

func TestLoadWithDefaults_EnvBeatsDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("SAMPLE_PORT", "7000")
	path := writeFile(t, "name: site\n")

	cfg, err := config.LoadWithDefaults(path, func(c *sampleConfig) {
		if c.Port == 0 {
			c.Port = 8080
		}
		c.Name = "default-name"
	})
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "default-name", cfg.Name)
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("SAMPLE_NAME_FROM_FILE=ignored\nSAMPLE_SECRET=dotenv\n"), 0o600))
	t.Setenv("ENV_FILE", envPath)
	t.Cleanup(func() {
		_ = os.Unsetenv("SAMPLE_SECRET")
		_ = os.Unsetenv("SAMPLE_NAME_FROM_FILE")
	})
	path := writeFile(t, "name: site\n")

	cfg, err := config.Load[sampleConfig](path)
	require.NoError(t, err)
	assert.Equal(t, "dotenv", cfg.Nested.Secret)
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, "config.yml", config.GetConfigPath("config.yml"))

	t.Setenv("CONFIG_PATH", "/etc/site/config.yml")
	assert.Equal(t, "/etc/site/config.yml", config.GetConfigPath("config.yml"))
}

func TestCollect_JoinsValidationErrors(t *testing.T) {
	t.Parallel()

	err := config.Collect(
		config.Required("database.host", ""),
		config.Port("server.port", 0),
		config.Required("auth.jwt_secret", "secret"),
	)
	require.Error(t, err)

	var vErr *config.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, err.Error(), "database.host is required")
	assert.Contains(t, err.Error(), "server.port must be between 1 and 65535")
	assert.NotContains(t, err.Error(), "auth.jwt_secret")
}
