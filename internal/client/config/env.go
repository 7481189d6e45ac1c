package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv applies variables from a .env file in the working directory.
// A missing file is not an error.
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))
	switch {
	case err == nil:
		return c.LoadEnv(func(key string) string {
			return envMap[key]
		})
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

// LoadEnv applies every non-empty YOURSAY_* variable returned by getenv.
func (c *Config) LoadEnv(getenv func(string) string) error {
	setString := func(o *string) func(string) error {
		return func(value string) error {
			*o = value
			return nil
		}
	}

	envMap := map[string]func(string) error{
		"YOURSAY_SERVER":    setString(&c.ServerBaseURL),
		"YOURSAY_DB":        setString(&c.DatabasePath),
		"YOURSAY_LOG_LEVEL": setString(&c.LogLevel),
		"YOURSAY_TIMEOUT": func(value string) error {
			d, err := parseTimeout(value)
			if err != nil {
				return err
			}
			c.RequestTimeout = d
			return nil
		},
		"YOURSAY_ALLOW_INSECURE": func(value string) error {
			b, err := strconv.ParseBool(value)
			if err != nil {
				return err
			}
			c.AllowInsecure = b
			return nil
		},
	}

	for key, parseFn := range envMap {
		value := getenv(key)
		if value == "" {
			continue
		}
		if err := parseFn(value); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
	}
	return nil
}

// parseTimeout accepts a Go duration ("15s") or a plain number of seconds.
func parseTimeout(value string) (time.Duration, error) {
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(value)
}
