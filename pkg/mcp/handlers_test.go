package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/emolabel/pkg/dataset"
	"github.com/unowned-ai/emolabel/pkg/db"
	"github.com/unowned-ai/emolabel/pkg/export"
	"github.com/unowned-ai/emolabel/pkg/labels"
)

func callTool(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("unexpected content type %T", res.Content[0])
	return ""
}

func TestPing(t *testing.T) {
	res := callTool(t, pingHandler, nil)
	assert.Equal(t, "pong_emolabel", resultText(t, res))
}

func TestAddEntry(t *testing.T) {
	store := labels.NewStore()
	h := addEntryHandler(store)

	res := callTool(t, h, map[string]interface{}{"text": "  what a day  ", "label": "Joy"})
	require.False(t, res.IsError, resultText(t, res))

	var entry labels.Entry
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &entry))
	assert.Equal(t, int64(1), entry.ID)
	assert.Equal(t, "what a day", entry.Text)
	assert.Equal(t, labels.Joy, entry.Label)

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"empty text", map[string]interface{}{"text": "   ", "label": "joy"}, "text"},
		{"missing label", map[string]interface{}{"text": "hi"}, "label"},
		{"unknown label", map[string]interface{}{"text": "hi", "label": "boredom"}, "boredom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, h, tt.args)
			assert.True(t, res.IsError)
			assert.Contains(t, resultText(t, res), tt.want)
		})
	}
	assert.Equal(t, 1, store.Count())
}

func TestListAndCount(t *testing.T) {
	store := labels.NewStore()
	_, _ = store.Add("a", labels.Joy)
	_, _ = store.Add("b", labels.Fear)
	_, _ = store.Add("c", labels.Joy)

	assert.Equal(t, "3", resultText(t, callTool(t, countEntriesHandler(store), nil)))

	var entries []labels.Entry
	res := callTool(t, listEntriesHandler(store), map[string]interface{}{"label": "joy"})
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Text)
	assert.Equal(t, "c", entries[1].Text)

	res = callTool(t, listEntriesHandler(store), map[string]interface{}{"label": "sadness"})
	assert.Equal(t, "[]", resultText(t, res))

	var stats []dataset.LabelCount
	res = callTool(t, listLabelsHandler(store), nil)
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &stats))
	require.Len(t, stats, len(labels.AllowedLabels()))
	assert.Equal(t, dataset.LabelCount{Label: labels.Anger, Count: 0}, stats[0])
	assert.Equal(t, dataset.LabelCount{Label: labels.Joy, Count: 2}, stats[3])
}

func TestDeleteEntries(t *testing.T) {
	store := labels.NewStore()
	for _, text := range []string{"a", "b", "c"} {
		_, err := store.Add(text, labels.Neutral)
		require.NoError(t, err)
	}
	h := deleteEntriesHandler(store)

	res := callTool(t, h, map[string]interface{}{"ids": "3, 1,9"})
	assert.Equal(t, "Deleted entries: 3, 1.", resultText(t, res))
	assert.Equal(t, 1, store.Count())

	res = callTool(t, h, map[string]interface{}{"ids": "3"})
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "nothing to delete")

	res = callTool(t, h, map[string]interface{}{"ids": "two"})
	assert.True(t, res.IsError)

	res = callTool(t, h, map[string]interface{}{})
	assert.True(t, res.IsError)
}

func TestClearEntries(t *testing.T) {
	store := labels.NewStore()
	h := clearEntriesHandler(store)

	assert.Equal(t, "No data to clear.", resultText(t, callTool(t, h, nil)))

	_, _ = store.Add("a", labels.Anger)
	_, _ = store.Add("b", labels.Disgust)
	assert.Equal(t, "All data cleared. Removed 2 entries.", resultText(t, callTool(t, h, nil)))
	assert.Equal(t, 0, store.Count())
}

func TestExportEntriesInline(t *testing.T) {
	store := labels.NewStore()
	exporter := export.NewExporter(t.TempDir(), export.CSV, zerolog.Nop())
	h := exportEntriesHandler(store, exporter)

	assert.Equal(t, "No data to export.", resultText(t, callTool(t, h, nil)))

	_, _ = store.Add("hello, world", labels.Surprise)
	res := callTool(t, h, nil)
	assert.Equal(t, "text,label\r\n\"hello, world\",surprise\r\n", resultText(t, res))

	res = callTool(t, h, map[string]interface{}{"format": "json"})
	var records []labels.Record
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &records))
	assert.Equal(t, []labels.Record{{Text: "hello, world", Label: labels.Surprise}}, records)

	res = callTool(t, h, map[string]interface{}{"format": "xml"})
	assert.True(t, res.IsError)
}

func TestExportEntriesToFile(t *testing.T) {
	dir := t.TempDir()
	store := labels.NewStore()
	_, _ = store.Add("calm", labels.Neutral)
	exporter := export.NewExporter(dir, export.CSV, zerolog.Nop())
	h := exportEntriesHandler(store, exporter)

	res := callTool(t, h, map[string]interface{}{"path": "out", "format": "json"})
	require.False(t, res.IsError, resultText(t, res))
	want := filepath.Join(dir, "out.json")
	assert.Equal(t, "Data exported successfully to: "+want, resultText(t, res))

	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"label": "neutral"`))
	assert.Equal(t, 1, store.Count())
}

func TestSaveDataset(t *testing.T) {
	store := labels.NewStore()
	exporter := export.NewExporter(t.TempDir(), export.CSV, zerolog.Nop())

	res := callTool(t, saveDatasetHandler(store, exporter, nil), nil)
	assert.True(t, res.IsError)

	conn, err := db.OpenAndUpgrade(":memory:", db.Options{Sync: "FULL"}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	h := saveDatasetHandler(store, exporter, conn)

	assert.Equal(t, "No data to export.", resultText(t, callTool(t, h, nil)))

	_, _ = store.Add("one", labels.Joy)
	_, _ = store.Add("two", labels.Sadness)
	res = callTool(t, h, map[string]interface{}{"note": "pilot"})
	require.False(t, res.IsError, resultText(t, res))

	var batch dataset.Batch
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &batch))
	assert.Equal(t, "mcp", batch.Source)
	assert.Equal(t, "pilot", batch.Note)
	assert.Equal(t, 2, batch.RecordCount)

	records, err := dataset.ListRecords(context.Background(), conn, batch.ID)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs(" 4,2 ,, 7")
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 2, 7}, ids)

	_, err = parseIDs(" , ")
	assert.Error(t, err)
	_, err = parseIDs("0")
	assert.Error(t, err)
}

func TestRegisterTools(t *testing.T) {
	srv := NewLabelMCPServer(labels.NewStore(), export.NewExporter("", "", zerolog.Nop()), nil, zerolog.Nop())
	srv.RegisterTools()
	assert.NotNil(t, srv.MCPRawServer())
	assert.NoError(t, srv.Close())
}
