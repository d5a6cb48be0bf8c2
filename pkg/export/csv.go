package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/unowned-ai/emolabel/pkg/labels"
)

// Header is the CSV header row of every export.
var Header = []string{"text", "label"}

// ErrMissingColumn is returned by ReadCSV when the header lacks text or label.
var ErrMissingColumn = errors.New("missing required column")

// WriteCSV writes the header and one row per record. Rows end in CRLF and
// fields are quoted per RFC 4180 when they contain commas, quotes or newlines.
func WriteCSV(w io.Writer, records []labels.Record) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for i, r := range records {
		if err := cw.Write([]string{r.Text, string(r.Label)}); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV reads records from a CSV with a header containing "text" and "label"
// columns in any order; extra columns are ignored. Labels are returned as
// written, so callers decide how to validate them.
func ReadCSV(r io.Reader) ([]labels.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty csv: %w", ErrMissingColumn)
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	textCol, labelCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "text":
			textCol = i
		case "label":
			labelCol = i
		}
	}
	if textCol < 0 {
		return nil, fmt.Errorf("%w: text", ErrMissingColumn)
	}
	if labelCol < 0 {
		return nil, fmt.Errorf("%w: label", ErrMissingColumn)
	}

	var records []labels.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row %d: %w", line, err)
		}
		if textCol >= len(row) || labelCol >= len(row) {
			return nil, fmt.Errorf("csv row %d has %d fields, expected at least %d", line, len(row), max(textCol, labelCol)+1)
		}
		records = append(records, labels.Record{Text: row[textCol], Label: labels.Label(row[labelCol])})
	}
	return records, nil
}
