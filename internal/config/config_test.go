package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ListenPort)
	assert.Equal(t, ":8080", cfg.Address())
	assert.Equal(t, 12*time.Hour, cfg.SessionDuration)
	assert.Equal(t, "host=localhost port=5432 user=postgres dbname=hrm password=postgres sslmode=disable", cfg.Database.DSN())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigReadsEnvFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("PORT=9090\nCORS_ORIGINS=http://a.test,http://b.test\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("PORT")
		os.Unsetenv("CORS_ORIGINS")
	})

	cfg, err := LoadConfig(file)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.ListenPort)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadConfigRejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("GO_APP_ENV", Production)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}

func TestLoadConfigRejectsBadPageSize(t *testing.T) {
	t.Setenv("PAGE_SIZE", "50")
	t.Setenv("MAX_PAGE_SIZE", "10")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}

func TestLogrusLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"silent":  logrus.PanicLevel,
		"error":   logrus.ErrorLevel,
		"warn":    logrus.WarnLevel,
		"debug":   logrus.DebugLevel,
		"DEBUG ":  logrus.DebugLevel,
		"unknown": logrus.InfoLevel,
	}
	for raw, want := range cases {
		cfg := &Config{LogLevel: raw}
		assert.Equal(t, want, cfg.LogrusLevel(), raw)
	}
}
