package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/yoursay/internal/flagx"
	"github.com/dmitrijs2005/yoursay/internal/logging"
)

var ErrInsecureServer = errors.New("refusing plain http to a non-local server, use https or -k")

// Config holds runtime settings for the YourSay CLI.
type Config struct {
	ServerBaseURL  string
	DatabasePath   string
	RequestTimeout time.Duration
	LogLevel       string
	AllowInsecure  bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8080"
	c.DatabasePath = "yoursay.db"
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = logging.LevelInfo
	c.AllowInsecure = false
}

// LoadConfig builds a Config from os.Args, the working directory .env file
// and the process environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:], os.Getwd, os.Getenv)
}

// Load applies defaults, then JSON, .env, environment and flags. Later
// sources take precedence over earlier ones. The result is validated.
func Load(args []string, getwd func() (string, error), getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := cfg.LoadJSON(flagx.ConfigPath(args)); err != nil {
		return nil, err
	}
	if err := cfg.LoadDotEnv(getwd); err != nil {
		return nil, fmt.Errorf("read .env: %w", err)
	}
	if err := cfg.LoadEnv(getenv); err != nil {
		return nil, err
	}
	if err := cfg.ParseFlags(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the final configuration. Plain http is accepted only for
// loopback hosts unless AllowInsecure is set.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerBaseURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid server url %q", c.ServerBaseURL)
	}
	switch u.Scheme {
	case "https":
	case "http":
		if !c.AllowInsecure && !isLoopback(u.Hostname()) {
			return ErrInsecureServer
		}
	default:
		return fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		return errors.New("database path is empty")
	}
	return nil
}

func isLoopback(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
