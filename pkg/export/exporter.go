// Package export turns the records produced by a labeling session into files
// (CSV or JSON) or batches in the SQLite dataset archive.
package export

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/unowned-ai/emolabel/pkg/dataset"
	"github.com/unowned-ai/emolabel/pkg/labels"
	"github.com/unowned-ai/emolabel/pkg/utils"
)

// Source produces the records to export. *labels.Store satisfies it.
type Source interface {
	ExportRecords() ([]labels.Record, error)
}

// Result describes a completed file export.
type Result struct {
	Path    string
	Format  Format
	Records int
}

// Exporter persists records pulled from a Source. It never mutates the source,
// so a failed write leaves the session intact.
type Exporter struct {
	dir    string
	format Format
	now    func() time.Time
	logger zerolog.Logger
}

// NewExporter returns an exporter that resolves relative paths against dir and
// uses format when a path carries no recognizable extension.
func NewExporter(dir string, format Format, logger zerolog.Logger) *Exporter {
	if dir == "" {
		dir = "."
	}
	if format == "" {
		format = CSV
	}
	return &Exporter{
		dir:    dir,
		format: format,
		now:    time.Now,
		logger: logger.With().Str("component", "export").Logger(),
	}
}

// Format is the exporter's default format.
func (e *Exporter) Format() Format {
	return e.format
}

// SuggestPath is the default destination: <dir>/labeled_data_<timestamp>.<ext>.
func (e *Exporter) SuggestPath() string {
	return filepath.Join(e.dir, DefaultFilename(e.now(), e.format))
}

// ResolvePath expands "~/", anchors relative paths in the export directory and
// substitutes the suggested path for an empty one.
func (e *Exporter) ResolvePath(path string) (string, error) {
	if path == "" {
		return e.SuggestPath(), nil
	}
	path, err := utils.ExpandHome(path)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.dir, path)
	}
	return path, nil
}

// ToFile exports src to path. The format follows the path's extension, else
// the exporter default. Errors from src (e.g. nothing to export) are returned
// unchanged; write failures are wrapped with the destination path.
func (e *Exporter) ToFile(src Source, path string) (Result, error) {
	records, err := src.ExportRecords()
	if err != nil {
		return Result{}, err
	}

	path, err = e.ResolvePath(path)
	if err != nil {
		return Result{}, err
	}
	format := FormatFromPath(path, e.format)

	if err := writeFile(path, format, records); err != nil {
		e.logger.Error().Err(err).Str("path", path).Msg("export failed")
		return Result{}, fmt.Errorf("failed to export data to '%s': %w", path, err)
	}

	e.logger.Info().Str("path", path).Str("format", string(format)).Int("records", len(records)).Msg("export written")
	return Result{Path: path, Format: format, Records: len(records)}, nil
}

func writeFile(path string, format Format, records []labels.Record) (err error) {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	bw := bufio.NewWriter(f)
	if err := Write(bw, format, records); err != nil {
		return err
	}
	return bw.Flush()
}

// ToArchive saves the records of src as a new batch in the dataset archive.
func (e *Exporter) ToArchive(ctx context.Context, db *sql.DB, src Source, source, note string) (dataset.Batch, error) {
	records, err := src.ExportRecords()
	if err != nil {
		return dataset.Batch{}, err
	}

	batch, err := dataset.SaveBatch(ctx, db, source, note, records)
	if err != nil {
		e.logger.Error().Err(err).Msg("archive export failed")
		return dataset.Batch{}, fmt.Errorf("failed to save batch: %w", err)
	}

	e.logger.Info().Str("batch", batch.ID.String()).Int("records", batch.RecordCount).Msg("batch archived")
	return batch, nil
}
