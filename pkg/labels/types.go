package labels

import (
	"strings"
	"time"
)

// Label is an emotion category that can be assigned to a piece of text.
type Label string

const (
	Anger    Label = "anger"
	Disgust  Label = "disgust"
	Fear     Label = "fear"
	Joy      Label = "joy"
	Neutral  Label = "neutral"
	Sadness  Label = "sadness"
	Surprise Label = "surprise"
)

// allowedLabels is the closed label set, in display order.
var allowedLabels = []Label{Anger, Disgust, Fear, Joy, Neutral, Sadness, Surprise}

// AllowedLabels returns the closed set of labels in display order.
func AllowedLabels() []Label {
	return append([]Label(nil), allowedLabels...)
}

// IsAllowed reports whether l is a member of the allowed label set.
func IsAllowed(l Label) bool {
	for _, a := range allowedLabels {
		if a == l {
			return true
		}
	}
	return false
}

// ParseLabel normalizes raw user input (surrounding whitespace, letter case) and
// checks it against the allowed set.
func ParseLabel(raw string) (Label, error) {
	l := Label(strings.ToLower(strings.TrimSpace(raw)))
	if l == "" {
		return "", &ValidationError{Field: "label", Message: "please select a label"}
	}
	if !IsAllowed(l) {
		return "", &ValidationError{Field: "label", Message: "unknown label '" + raw + "'"}
	}
	return l, nil
}

func (l Label) String() string {
	return string(l)
}

// Entry is one labeled piece of text owned by a Store.
type Entry struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Label     Label     `json:"label"`
	Timestamp time.Time `json:"timestamp"`
}

// Record is the exported projection of an Entry.
type Record struct {
	Text  string `json:"text" yaml:"text"`
	Label Label  `json:"label" yaml:"label"`
}

// Record projects the entry to the fields carried by an export.
func (e Entry) Record() Record {
	return Record{Text: e.Text, Label: e.Label}
}
