package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/unowned-ai/emolabel/pkg/labels"
)

// WriteJSON writes records as an indented JSON array of {"text","label"} objects.
func WriteJSON(w io.Writer, records []labels.Record) error {
	if records == nil {
		records = []labels.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return nil
}

// Write serializes records in the given format.
func Write(w io.Writer, f Format, records []labels.Record) error {
	switch f {
	case CSV:
		return WriteCSV(w, records)
	case JSON:
		return WriteJSON(w, records)
	case YAML:
		return WriteYAML(w, records)
	default:
		return fmt.Errorf("unsupported export format '%s'", f)
	}
}
