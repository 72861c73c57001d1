package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnv(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(missingEnv(t))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "0.0.0.0:3000", cfg.Addr())
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "*", cfg.AllowedOrigins)
	assert.False(t, cfg.Debug)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("DEBUG", "true")
	t.Setenv("SESSION_TTL", "5m")

	cfg, err := Load(missingEnv(t))
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("QUESTIONS_SURVEY=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("QUESTIONS_SURVEY") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.QuestionsSurvey)
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("PORT", "not-an-int")

	_, err := Load(missingEnv(t))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "parse env:"), err.Error())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{name: "port out of range", mod: func(c *Config) { c.Port = 70000 }},
		{name: "zero ttl", mod: func(c *Config) { c.SessionTTL = 0 }},
		{name: "empty secret", mod: func(c *Config) { c.SessionSecret = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Port: 3000, SessionTTL: time.Minute, SessionSecret: "s"}
			require.NoError(t, cfg.Validate())
			tt.mod(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
