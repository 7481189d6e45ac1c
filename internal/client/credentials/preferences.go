package credentials

import (
	"encoding/json"
	"strings"

	"github.com/dmitrijs2005/yoursay/internal/client/models"
)

func encodePreferences(topics []string) (string, error) {
	if topics == nil {
		topics = []string{}
	}
	b, err := json.Marshal(topics)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodePreferences accepts both the JSON array form and the legacy CSV form.
func decodePreferences(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var topics []string
		if err := json.Unmarshal([]byte(raw), &topics); err == nil {
			return compact(topics)
		}
	}
	return models.ParsePreferencesCSV(raw)
}

func compact(topics []string) []string {
	var out []string
	for _, t := range topics {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
