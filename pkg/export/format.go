package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Format is a serialization format for exported records.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat accepts "csv", "json" or "yaml" ("yml") in any letter case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case CSV, JSON, YAML:
		return f, nil
	case "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unsupported export format '%s' (want csv, json or yaml)", s)
	}
}

// FormatFromPath infers the format from a file extension, falling back to def.
func FormatFromPath(path string, def Format) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSV
	case ".json":
		return JSON
	case ".yaml", ".yml":
		return YAML
	default:
		return def
	}
}

// Ext is the file extension (without dot) for the format.
func (f Format) Ext() string {
	return string(f)
}

// DefaultFilename suggests labeled_data_<YYYYMMDD>_<HHMMSS>.<ext> for the given time.
func DefaultFilename(now time.Time, f Format) string {
	return fmt.Sprintf("labeled_data_%s.%s", now.Format("20060102_150405"), f.Ext())
}
