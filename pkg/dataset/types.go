package dataset

import (
	"time"

	"github.com/google/uuid"

	"github.com/unowned-ai/emolabel/pkg/labels"
)

// Batch is one export saved into the dataset archive.
type Batch struct {
	ID          uuid.UUID `json:"id"`
	Source      string    `json:"source"`
	Note        string    `json:"note,omitempty"`
	RecordCount int       `json:"record_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// LabelCount is the number of records carrying a label within a batch.
type LabelCount struct {
	Label labels.Label `json:"label"`
	Count int          `json:"count"`
}

func unixToTime(ts float64) time.Time {
	sec := int64(ts)
	return time.Unix(sec, int64((ts-float64(sec))*1e9))
}
