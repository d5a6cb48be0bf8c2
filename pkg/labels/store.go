// Package labels holds the in-memory labeling session: an ordered collection of
// labeled text entries with add, delete, clear and export operations.
package labels

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Store is the single source of truth for one labeling session. Shells render
// from its snapshots and route every mutation through its methods.
//
// All methods are safe for concurrent use; mutations are serialized behind one
// mutex and reads copy a snapshot under the same lock.
type Store struct {
	mu      sync.Mutex
	entries []Entry
	lastID  int64

	now    func() time.Time
	logger zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used to stamp new entries.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger attaches a logger; the store logs mutations at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger.With().Str("component", "labels").Logger()
	}
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add validates text and label, then appends a new entry with the next id.
// Text is trimmed of surrounding whitespace before validation.
func (s *Store) Add(text string, label Label) (Entry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Entry{}, &ValidationError{Field: "text", Message: "please enter some text to label"}
	}
	if label == "" {
		return Entry{}, &ValidationError{Field: "label", Message: "please select a label"}
	}
	if !IsAllowed(label) {
		return Entry{}, &ValidationError{Field: "label", Message: "unknown label '" + string(label) + "'"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	entry := Entry{
		ID:        s.lastID,
		Text:      text,
		Label:     label,
		Timestamp: s.now(),
	}
	s.entries = append(s.entries, entry)

	s.logger.Debug().Int64("id", entry.ID).Str("label", string(label)).Int("count", len(s.entries)).Msg("entry added")
	return entry, nil
}

// DeleteByID removes the entry with the given id and reports whether it existed.
func (s *Store) DeleteByID(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deleteLocked(id)
}

// DeleteByIDs removes every listed id independently and returns the ids that
// were actually removed, in argument order. Unknown or repeated ids are skipped.
func (s *Store) DeleteByIDs(ids ...int64) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []int64
	for _, id := range ids {
		if s.deleteLocked(id) {
			removed = append(removed, id)
		}
	}
	return removed
}

func (s *Store) deleteLocked(id int64) bool {
	for i, e := range s.entries {
		if e.ID != id {
			continue
		}
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
		s.logger.Debug().Int64("id", id).Int("count", len(s.entries)).Msg("entry deleted")
		return true
	}
	return false
}

// Clear removes all entries and returns how many were removed. The id counter
// keeps running so ids are never reused within the session.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries)
	if n == 0 {
		return 0
	}
	s.entries = nil
	s.logger.Debug().Int("removed", n).Msg("store cleared")
	return n
}

// Count returns the number of live entries.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

// Get returns the entry with the given id.
func (s *Store) Get(id int64) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Entries returns a copy of the live entries in insertion order.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Entry(nil), s.entries...)
}

// LabelCounts returns the number of live entries per label. Every allowed label
// is present in the result, with zero when unused.
func (s *Store) LabelCounts() map[Label]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[Label]int, len(allowedLabels))
	for _, l := range allowedLabels {
		counts[l] = 0
	}
	for _, e := range s.entries {
		counts[e.Label]++
	}
	return counts
}

// ExportRecords projects all entries to records in insertion order. It fails
// with an *ExportError wrapping ErrNothingToExport when the store is empty.
func (s *Store) ExportRecords() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return nil, &ExportError{Err: ErrNothingToExport}
	}

	records := make([]Record, len(s.entries))
	for i, e := range s.entries {
		records[i] = e.Record()
	}
	return records, nil
}
