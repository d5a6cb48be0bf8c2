package export

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/unowned-ai/emolabel/pkg/dataset"
	"github.com/unowned-ai/emolabel/pkg/db"
	"github.com/unowned-ai/emolabel/pkg/labels"
)

func newSessionStore(t *testing.T) *labels.Store {
	t.Helper()
	s := labels.NewStore()
	_, err := s.Add("I am thrilled!", labels.Joy)
	require.NoError(t, err)
	_, err = s.Add("Well, \"fine\"\nI guess", labels.Neutral)
	require.NoError(t, err)
	return s
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []labels.Record{
		{Text: "plain", Label: labels.Joy},
		{Text: "a, b", Label: labels.Anger},
		{Text: "say \"hi\"\nbye", Label: labels.Fear},
	})
	require.NoError(t, err)

	// With CRLF line endings, newlines inside quoted fields are written as CRLF too.
	want := "text,label\r\n" +
		"plain,joy\r\n" +
		"\"a, b\",anger\r\n" +
		"\"say \"\"hi\"\"\r\nbye\",fear\r\n"
	assert.Equal(t, want, buf.String())
}

func TestCSVRoundTripKeepsOrderAndQuoting(t *testing.T) {
	records, err := newSessionStore(t).ExportRecords()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestReadCSVColumns(t *testing.T) {
	got, err := ReadCSV(strings.NewReader("\ufeffLabel,id,Text\nsadness,1,meh\n"))
	require.NoError(t, err)
	assert.Equal(t, []labels.Record{{Text: "meh", Label: labels.Sadness}}, got)

	_, err = ReadCSV(strings.NewReader("text,category\nx,joy\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = ReadCSV(strings.NewReader("text,label\nonly-one-field\n"))
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, []labels.Record{{Text: "<b>", Label: labels.Disgust}}))

	var decoded []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []map[string]string{{"text": "<b>", "label": "disgust"}}, decoded)
	assert.Contains(t, buf.String(), "<b>", "html is not escaped")
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, []labels.Record{{Text: "calm", Label: labels.Neutral}}))
	assert.Equal(t, "- text: calm\n  label: neutral\n", buf.String())

	records := []labels.Record{{Text: "a: b\n- c", Label: labels.Fear}}
	buf.Reset()
	require.NoError(t, Write(&buf, YAML, records))

	var decoded []labels.Record
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, records, decoded)
}

func TestDefaultFilename(t *testing.T) {
	now := time.Date(2024, 3, 9, 7, 5, 2, 0, time.Local)
	assert.Equal(t, "labeled_data_20240309_070502.csv", DefaultFilename(now, CSV))
	assert.Equal(t, "labeled_data_20240309_070502.json", DefaultFilename(now, JSON))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, JSON, f)

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)

	assert.Equal(t, JSON, FormatFromPath("out.JSON", CSV))
	assert.Equal(t, CSV, FormatFromPath("out.csv", JSON))
	assert.Equal(t, JSON, FormatFromPath("out.txt", JSON))
	assert.Equal(t, YAML, FormatFromPath("out.yml", CSV))

	f, err = ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, YAML, f)
}

func TestExporterToFile(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir, CSV, zerolog.Nop())
	e.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local) }
	store := newSessionStore(t)

	res, err := e.ToFile(store, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "labeled_data_20240102_030405.csv"), res.Path)
	assert.Equal(t, CSV, res.Format)
	assert.Equal(t, 2, res.Records)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "text,label\r\nI am thrilled!,joy\r\n"))

	res, err = e.ToFile(store, "nested/out.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nested", "out.json"), res.Path)
	assert.Equal(t, JSON, res.Format)

	assert.Equal(t, 2, store.Count(), "export leaves the store intact")
}

func TestExporterNothingToExport(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir, CSV, zerolog.Nop())

	_, err := e.ToFile(labels.NewStore(), "out.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, labels.ErrNothingToExport)

	_, statErr := os.Stat(filepath.Join(dir, "out.csv"))
	assert.True(t, os.IsNotExist(statErr), "no file is created for an empty export")
}

func TestExporterWriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	e := NewExporter(dir, CSV, zerolog.Nop())
	store := newSessionStore(t)

	_, err := e.ToFile(store, filepath.Join(blocker, "out.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to export data to")
	assert.Equal(t, 2, store.Count(), "a failed write does not lose session data")
}

func TestExporterToArchive(t *testing.T) {
	conn, err := db.OpenAndUpgrade(":memory:", db.Options{}, zerolog.Nop())
	require.NoError(t, err)
	defer conn.Close()

	e := NewExporter(t.TempDir(), CSV, zerolog.Nop())
	store := newSessionStore(t)
	ctx := context.Background()

	batch, err := e.ToArchive(ctx, conn, store, "tui", "annotator A")
	require.NoError(t, err)
	assert.Equal(t, 2, batch.RecordCount)

	records, err := dataset.ListRecords(ctx, conn, batch.ID)
	require.NoError(t, err)
	want, _ := store.ExportRecords()
	assert.Equal(t, want, records)

	_, err = e.ToArchive(ctx, conn, labels.NewStore(), "tui", "")
	assert.ErrorIs(t, err, labels.ErrNothingToExport)
}
