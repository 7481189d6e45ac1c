package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv(t *testing.T) {
	env := map[string]string{
		"YOURSAY_SERVER":         "https://env.example",
		"YOURSAY_DB":             "env.db",
		"YOURSAY_TIMEOUT":        "15",
		"YOURSAY_LOG_LEVEL":      "warn",
		"YOURSAY_ALLOW_INSECURE": "true",
	}

	var c Config
	c.LoadDefaults()
	require.NoError(t, c.LoadEnv(func(k string) string { return env[k] }))

	assert.Equal(t, Config{
		ServerBaseURL:  "https://env.example",
		DatabasePath:   "env.db",
		RequestTimeout: 15 * time.Second,
		LogLevel:       "warn",
		AllowInsecure:  true,
	}, c)
}

func TestLoadEnv_DurationSyntax(t *testing.T) {
	var c Config
	require.NoError(t, c.LoadEnv(func(k string) string {
		if k == "YOURSAY_TIMEOUT" {
			return "1m30s"
		}
		return ""
	}))
	assert.Equal(t, 90*time.Second, c.RequestTimeout)
}

func TestLoadEnv_InvalidValues(t *testing.T) {
	for key, value := range map[string]string{
		"YOURSAY_TIMEOUT":        "soon",
		"YOURSAY_ALLOW_INSECURE": "maybe",
	} {
		t.Run(key, func(t *testing.T) {
			var c Config
			err := c.LoadEnv(func(k string) string {
				if k == key {
					return value
				}
				return ""
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("# local overrides\nYOURSAY_SERVER=https://dotenv.example\nYOURSAY_TIMEOUT=4\n"), 0o600))

	var c Config
	c.LoadDefaults()
	require.NoError(t, c.LoadDotEnv(func() (string, error) { return dir, nil }))

	assert.Equal(t, "https://dotenv.example", c.ServerBaseURL)
	assert.Equal(t, 4*time.Second, c.RequestTimeout)
	assert.Equal(t, "yoursay.db", c.DatabasePath)
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	var c Config
	c.LoadDefaults()
	before := c
	require.NoError(t, c.LoadDotEnv(func() (string, error) { return t.TempDir(), nil }))
	assert.Equal(t, before, c)
}
