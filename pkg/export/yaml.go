package export

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/unowned-ai/emolabel/pkg/labels"
)

// WriteYAML writes records as a YAML sequence of text/label mappings.
func WriteYAML(w io.Writer, records []labels.Record) error {
	if records == nil {
		records = []labels.Record{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return enc.Close()
}
