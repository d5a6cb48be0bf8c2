package labels

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock returns a clock that advances one second per call, starting at base.
func fixedClock(base time.Time) func() time.Time {
	calls := 0
	return func() time.Time {
		t := base.Add(time.Duration(calls) * time.Second)
		calls++
		return t
	}
}

func TestAdd(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(WithClock(fixedClock(base)))

	entry, err := s.Add("  I am thrilled!\n", Joy)
	require.NoError(t, err)

	assert.Equal(t, int64(1), entry.ID)
	assert.Equal(t, "I am thrilled!", entry.Text, "text should be trimmed")
	assert.Equal(t, Joy, entry.Label)
	assert.Equal(t, base, entry.Timestamp)
	assert.Equal(t, 1, s.Count())

	stored, ok := s.Get(entry.ID)
	require.True(t, ok)
	assert.Equal(t, entry, stored)
}

func TestAddValidation(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		label Label
		field string
	}{
		{name: "empty text", text: "", label: Anger, field: "text"},
		{name: "whitespace text", text: " \t\n ", label: Anger, field: "text"},
		{name: "missing label", text: "hello", label: "", field: "label"},
		{name: "unknown label", text: "hello", label: "contempt", field: "label"},
		{name: "wrong case label", text: "hello", label: "Joy", field: "label"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()

			_, err := s.Add(tt.text, tt.label)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
			assert.Equal(t, 0, s.Count())
		})
	}
}

func TestRejectedAddDoesNotConsumeID(t *testing.T) {
	s := NewStore()

	_, err := s.Add("", Anger)
	require.Error(t, err)

	entry, err := s.Add("first", Fear)
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.ID)
}

func TestIDsNeverReused(t *testing.T) {
	s := NewStore()

	var last int64
	for i := 0; i < 5; i++ {
		e, err := s.Add("text", Neutral)
		require.NoError(t, err)
		assert.Greater(t, e.ID, last)
		last = e.ID
	}

	assert.True(t, s.DeleteByID(5))
	assert.Equal(t, 4, s.Clear())

	e, err := s.Add("after clear", Surprise)
	require.NoError(t, err)
	assert.Equal(t, int64(6), e.ID, "ids continue after delete and clear")
}

func TestDuplicatesAreDistinctEntries(t *testing.T) {
	s := NewStore()

	a, err := s.Add("same", Joy)
	require.NoError(t, err)
	b, err := s.Add("same", Joy)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, s.Count())
}

func TestDeleteByID(t *testing.T) {
	s := NewStore()
	first, _ := s.Add("one", Anger)
	second, _ := s.Add("two", Disgust)
	third, _ := s.Add("three", Fear)

	assert.False(t, s.DeleteByID(42), "unknown id is a no-op")
	assert.Equal(t, 3, s.Count())

	assert.True(t, s.DeleteByID(second.ID))
	assert.False(t, s.DeleteByID(second.ID), "second delete of same id is a no-op")
	assert.Equal(t, 2, s.Count())

	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, first.ID, entries[0].ID)
	assert.Equal(t, third.ID, entries[1].ID, "remaining ids are not renumbered")
}

func TestDeleteByIDs(t *testing.T) {
	s := NewStore()
	for _, text := range []string{"a", "b", "c", "d"} {
		_, err := s.Add(text, Sadness)
		require.NoError(t, err)
	}

	removed := s.DeleteByIDs(2, 9, 4, 2)
	assert.Equal(t, []int64{2, 4}, removed)
	assert.Equal(t, 2, s.Count())

	assert.Empty(t, s.DeleteByIDs(100, 200))
	assert.Empty(t, s.DeleteByIDs())
	assert.Equal(t, 2, s.Count())
}

func TestClear(t *testing.T) {
	s := NewStore()
	assert.Equal(t, 0, s.Clear(), "clearing an empty store removes nothing")

	_, _ = s.Add("one", Joy)
	_, _ = s.Add("two", Joy)

	assert.Equal(t, 2, s.Clear())
	assert.Equal(t, 0, s.Count())
	assert.Empty(t, s.Entries())
	assert.Equal(t, 0, s.Clear())
}

func TestExportRecords(t *testing.T) {
	s := NewStore()

	_, err := s.ExportRecords()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNothingToExport)
	var exportErr *ExportError
	assert.True(t, errors.As(err, &exportErr))

	_, _ = s.Add("c, with comma", Anger)
	_, _ = s.Add("b", Neutral)
	_, _ = s.Add("a", Surprise)

	records, err := s.ExportRecords()
	require.NoError(t, err)
	assert.Equal(t, []Record{
		{Text: "c, with comma", Label: Anger},
		{Text: "b", Label: Neutral},
		{Text: "a", Label: Surprise},
	}, records)
	assert.Equal(t, 3, s.Count(), "export does not mutate the store")
}

func TestEntriesReturnsCopy(t *testing.T) {
	s := NewStore()
	_, _ = s.Add("original", Joy)

	entries := s.Entries()
	entries[0].Text = "changed"

	stored, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "original", stored.Text)
}

func TestLabelCounts(t *testing.T) {
	s := NewStore()
	_, _ = s.Add("a", Joy)
	_, _ = s.Add("b", Joy)
	_, _ = s.Add("c", Fear)

	counts := s.LabelCounts()
	assert.Len(t, counts, len(AllowedLabels()))
	assert.Equal(t, 2, counts[Joy])
	assert.Equal(t, 1, counts[Fear])
	assert.Equal(t, 0, counts[Anger])
}

func TestCountTracksAddsMinusRemovals(t *testing.T) {
	s := NewStore()
	adds, removed := 0, 0

	for i := 0; i < 20; i++ {
		_, err := s.Add("entry", AllowedLabels()[i%7])
		require.NoError(t, err)
		adds++
		if i%3 == 0 && s.DeleteByID(int64(i)) {
			removed++
		}
		assert.Equal(t, adds-removed, s.Count())
	}

	removed += s.Clear()
	assert.Equal(t, adds-removed, s.Count())
	assert.Equal(t, 0, s.Count())
}

func TestLabelingSessionScenario(t *testing.T) {
	s := NewStore()

	first, err := s.Add("I am thrilled!", "joy")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)

	_, err = s.Add("", "anger")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 1, s.Count())

	second, err := s.Add("Not great.", "sadness")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, 2, s.Count())

	records, err := s.ExportRecords()
	require.NoError(t, err)
	assert.Equal(t, []Record{{"I am thrilled!", Joy}, {"Not great.", Sadness}}, records)

	assert.True(t, s.DeleteByID(1))
	assert.Equal(t, 1, s.Count())

	records, err = s.ExportRecords()
	require.NoError(t, err)
	assert.Equal(t, []Record{{"Not great.", Sadness}}, records)
}

func TestParseLabel(t *testing.T) {
	l, err := ParseLabel("  Surprise ")
	require.NoError(t, err)
	assert.Equal(t, Surprise, l)

	_, err = ParseLabel("")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ParseLabel("bored")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAllowedLabelsOrder(t *testing.T) {
	assert.Equal(t,
		[]Label{"anger", "disgust", "fear", "joy", "neutral", "sadness", "surprise"},
		AllowedLabels())

	got := AllowedLabels()
	got[0] = "changed"
	assert.Equal(t, Anger, AllowedLabels()[0], "caller cannot mutate the allowed set")
}
