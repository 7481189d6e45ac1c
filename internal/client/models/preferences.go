package models

import "strings"

// PreferencesCSV renders topics in the comma-separated wire form.
func PreferencesCSV(topics []string) string {
	return strings.Join(topics, ",")
}

// ParsePreferencesCSV splits the wire form, trimming blanks and dropping
// empty items.
func ParsePreferencesCSV(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
