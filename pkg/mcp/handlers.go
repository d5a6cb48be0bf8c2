package mcp

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/unowned-ai/emolabel/pkg/dataset"
	"github.com/unowned-ai/emolabel/pkg/export"
	"github.com/unowned-ai/emolabel/pkg/labels"
)

func labelNames() []string {
	all := labels.AllowedLabels()
	names := make([]string, len(all))
	for i, l := range all {
		names[i] = string(l)
	}
	return names
}

// RegisterPingTool registers the simple ping tool.
func RegisterPingTool(s *server.MCPServer) {
	pingTool := mcp.NewTool("ping",
		mcp.WithDescription("Responds with 'pong' to check if the emolabel MCP server is alive."),
	)
	s.AddTool(pingTool, pingHandler)
}

func pingHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("pong_emolabel"), nil
}

// RegisterListLabelsTool registers list_labels, which reports the allowed labels
// in display order together with how many live entries carry each.
func RegisterListLabelsTool(s *server.MCPServer, store *labels.Store) {
	tool := mcp.NewTool("list_labels",
		mcp.WithDescription("Lists the allowed emotion labels and the number of entries currently carrying each."),
	)
	s.AddTool(tool, listLabelsHandler(store))
}

func listLabelsHandler(store *labels.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		counts := store.LabelCounts()
		stats := make([]dataset.LabelCount, 0, len(counts))
		for _, l := range labels.AllowedLabels() {
			stats = append(stats, dataset.LabelCount{Label: l, Count: counts[l]})
		}
		return jsonResult(stats, "labels")
	}
}

// RegisterAddEntryTool registers add_entry.
func RegisterAddEntryTool(s *server.MCPServer, store *labels.Store) {
	tool := mcp.NewTool("add_entry",
		mcp.WithDescription("Labels a piece of text with one emotion and appends it to the session."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The text to label. Surrounding whitespace is ignored.")),
		mcp.WithString("label", mcp.Required(), mcp.Description("The emotion label."), mcp.Enum(labelNames()...)),
	)
	s.AddTool(tool, addEntryHandler(store))
}

func addEntryHandler(store *labels.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, _ := stringArg(request, "text")
		rawLabel, _ := stringArg(request, "label")

		label, err := labels.ParseLabel(rawLabel)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		entry, err := store.Add(text, label)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(entry, "entry")
	}
}

// RegisterListEntriesTool registers list_entries.
func RegisterListEntriesTool(s *server.MCPServer, store *labels.Store) {
	tool := mcp.NewTool("list_entries",
		mcp.WithDescription("Lists the session's entries in insertion order, optionally only those with the given label."),
		mcp.WithString("label", mcp.Description("Optional label to filter by.")),
	)
	s.AddTool(tool, listEntriesHandler(store))
}

func listEntriesHandler(store *labels.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entries := store.Entries()

		if raw, _ := stringArg(request, "label"); raw != "" {
			label, err := labels.ParseLabel(raw)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			filtered := entries[:0]
			for _, e := range entries {
				if e.Label == label {
					filtered = append(filtered, e)
				}
			}
			entries = filtered
		}

		if len(entries) == 0 {
			return mcp.NewToolResultText("[]"), nil
		}
		return jsonResult(entries, "entries")
	}
}

// RegisterCountEntriesTool registers count_entries.
func RegisterCountEntriesTool(s *server.MCPServer, store *labels.Store) {
	tool := mcp.NewTool("count_entries",
		mcp.WithDescription("Returns the number of entries in the session."),
	)
	s.AddTool(tool, countEntriesHandler(store))
}

func countEntriesHandler(store *labels.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(fmt.Sprintf("%d", store.Count())), nil
	}
}

// RegisterDeleteEntriesTool registers delete_entries.
func RegisterDeleteEntriesTool(s *server.MCPServer, store *labels.Store) {
	tool := mcp.NewTool("delete_entries",
		mcp.WithDescription("Deletes entries by id. Ids that do not exist are ignored."),
		mcp.WithString("ids", mcp.Required(), mcp.Description("Comma-separated list of entry ids, e.g. '3,5'.")),
	)
	s.AddTool(tool, deleteEntriesHandler(store))
}

func deleteEntriesHandler(store *labels.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, ok := stringArg(request, "ids")
		if !ok || raw == "" {
			return mcp.NewToolResultError("'ids' parameter is required."), nil
		}
		ids, err := parseIDs(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		removed := store.DeleteByIDs(ids...)
		if len(removed) == 0 {
			return mcp.NewToolResultText("No matching entries, nothing to delete."), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Deleted entries: %s.", formatIDs(removed))), nil
	}
}

// RegisterClearEntriesTool registers clear_entries.
func RegisterClearEntriesTool(s *server.MCPServer, store *labels.Store) {
	tool := mcp.NewTool("clear_entries",
		mcp.WithDescription("Removes every entry from the session. Entry ids are not reused afterwards."),
	)
	s.AddTool(tool, clearEntriesHandler(store))
}

func clearEntriesHandler(store *labels.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		n := store.Clear()
		if n == 0 {
			return mcp.NewToolResultText("No data to clear."), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("All data cleared. Removed %d entries.", n)), nil
	}
}

// RegisterExportEntriesTool registers export_entries. Without a path the
// serialized records are returned inline.
func RegisterExportEntriesTool(s *server.MCPServer, store *labels.Store, exporter *export.Exporter) {
	tool := mcp.NewTool("export_entries",
		mcp.WithDescription("Exports the session's entries as text,label records. Writes to 'path' when given, otherwise returns the content."),
		mcp.WithString("path", mcp.Description("Optional destination file. Relative paths are resolved against the export directory.")),
		mcp.WithString("format", mcp.Description("Format for inline output or paths without a .csv/.json/.yaml extension."), mcp.Enum(string(export.CSV), string(export.JSON), string(export.YAML))),
	)
	s.AddTool(tool, exportEntriesHandler(store, exporter))
}

func exportEntriesHandler(store *labels.Store, exporter *export.Exporter) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, _ := stringArg(request, "path")

		format := exporter.Format()
		if raw, _ := stringArg(request, "format"); raw != "" {
			f, err := export.ParseFormat(raw)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			format = f
		}

		if path == "" {
			records, err := store.ExportRecords()
			if errors.Is(err, labels.ErrNothingToExport) {
				return mcp.NewToolResultText("No data to export."), nil
			}
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			var buf bytes.Buffer
			if err := export.Write(&buf, format, records); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize records: %v", err)), nil
			}
			return mcp.NewToolResultText(buf.String()), nil
		}

		if export.FormatFromPath(path, "") == "" {
			path += "." + format.Ext()
		}
		res, err := exporter.ToFile(store, path)
		if errors.Is(err, labels.ErrNothingToExport) {
			return mcp.NewToolResultText("No data to export."), nil
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Data exported successfully to: %s", res.Path)), nil
	}
}

// RegisterSaveDatasetTool registers save_dataset, which archives the session as
// a batch in the SQLite dataset archive.
func RegisterSaveDatasetTool(s *server.MCPServer, store *labels.Store, exporter *export.Exporter, archive *sql.DB) {
	tool := mcp.NewTool("save_dataset",
		mcp.WithDescription("Saves the session's entries as a new batch in the dataset archive."),
		mcp.WithString("source", mcp.DefaultString("mcp"), mcp.Description("Optional origin recorded with the batch.")),
		mcp.WithString("note", mcp.Description("Optional free-form note.")),
	)
	s.AddTool(tool, saveDatasetHandler(store, exporter, archive))
}

func saveDatasetHandler(store *labels.Store, exporter *export.Exporter, archive *sql.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if archive == nil {
			return mcp.NewToolResultError("No dataset archive is configured."), nil
		}
		source, _ := stringArg(request, "source")
		if source == "" {
			source = "mcp"
		}
		note, _ := stringArg(request, "note")

		batch, err := exporter.ToArchive(ctx, archive, store, source, note)
		if errors.Is(err, labels.ErrNothingToExport) {
			return mcp.NewToolResultText("No data to export."), nil
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(batch, "batch")
	}
}
