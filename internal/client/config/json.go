package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/yoursay/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from zero values so that a partial file only
// overrides what it mentions.
type JsonConfig struct {
	ServerBaseURL  *string         `json:"server_base_url"`
	DatabasePath   *string         `json:"database_path"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	LogLevel       *string         `json:"log_level"`
	AllowInsecure  *bool           `json:"allow_insecure"`
}

// LoadJSON overlays c with values from the JSON file at path. An empty path
// is a no-op.
func (c *Config) LoadJSON(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if jc.ServerBaseURL != nil {
		c.ServerBaseURL = *jc.ServerBaseURL
	}
	if jc.DatabasePath != nil {
		c.DatabasePath = *jc.DatabasePath
	}
	if jc.RequestTimeout != nil {
		c.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.LogLevel != nil {
		c.LogLevel = *jc.LogLevel
	}
	if jc.AllowInsecure != nil {
		c.AllowInsecure = *jc.AllowInsecure
	}
	return nil
}
