package main

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	pkgdb "github.com/unowned-ai/emolabel/pkg/db"
	"github.com/unowned-ai/emolabel/pkg/export"
	"github.com/unowned-ai/emolabel/pkg/labels"
	"github.com/unowned-ai/emolabel/pkg/logging"
)

func archiveOptions() pkgdb.Options {
	return pkgdb.Options{WAL: cfg.Dataset.WAL, Sync: cfg.Dataset.Sync}
}

// openArchive opens the dataset archive and upgrades its schema if needed.
func openArchive() (*sql.DB, error) {
	path, err := cfg.DatasetPath()
	if err != nil {
		return nil, err
	}
	return pkgdb.OpenAndUpgrade(path, archiveOptions(), logger)
}

func newExporter(l zerolog.Logger) (*export.Exporter, error) {
	format, err := export.ParseFormat(cfg.Export.Format)
	if err != nil {
		return nil, err
	}
	return export.NewExporter(cfg.Export.Dir, format, l), nil
}

func newStore(l zerolog.Logger) *labels.Store {
	return labels.NewStore(labels.WithLogger(l))
}

// fileLogger sends logs to path instead of stderr, for commands that own the
// terminal. An empty path discards logs.
func fileLogger(path string) (zerolog.Logger, func(), error) {
	if path == "" {
		return zerolog.Nop(), func() {}, nil
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file '%s': %w", path, err)
	}
	return logging.New(f, level), func() { f.Close() }, nil
}

// splitRatings splits "1, 2,3" into trimmed values. Empty items are kept so
// that positions line up with the other annotator's list.
func splitRatings(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func formatTimestamp(t time.Time) string {
	return t.Local().Format(time.RFC3339)
}
