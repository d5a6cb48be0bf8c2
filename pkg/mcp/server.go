package mcp

import (
	"database/sql"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	emolabel "github.com/unowned-ai/emolabel/pkg"
	"github.com/unowned-ai/emolabel/pkg/export"
	"github.com/unowned-ai/emolabel/pkg/labels"
)

// ToolNames lists every tool registered by RegisterTools, in registration order.
var ToolNames = []string{
	"ping",
	"list_labels",
	"add_entry",
	"list_entries",
	"count_entries",
	"delete_entries",
	"clear_entries",
	"export_entries",
	"save_dataset",
}

// LabelMCPServer serves one labeling session over MCP. All tool calls share the
// same store, so concurrent clients see a single ordered collection.
type LabelMCPServer struct {
	mcpServer *server.MCPServer
	store     *labels.Store
	exporter  *export.Exporter
	archive   *sql.DB
	logger    zerolog.Logger
}

// NewLabelMCPServer wraps store in an MCP server. archive may be nil, in which
// case save_dataset reports that no archive is configured.
func NewLabelMCPServer(store *labels.Store, exporter *export.Exporter, archive *sql.DB, logger zerolog.Logger) *LabelMCPServer {
	s := server.NewMCPServer(
		"Emolabel MCP Server",
		emolabel.Version,
		server.WithLogging(),
		server.WithRecovery(),
	)

	return &LabelMCPServer{
		mcpServer: s,
		store:     store,
		exporter:  exporter,
		archive:   archive,
		logger:    logger.With().Str("component", "mcp").Logger(),
	}
}

// RegisterTools adds every labeling tool to the server.
func (s *LabelMCPServer) RegisterTools() {
	RegisterPingTool(s.mcpServer)
	RegisterListLabelsTool(s.mcpServer, s.store)
	RegisterAddEntryTool(s.mcpServer, s.store)
	RegisterListEntriesTool(s.mcpServer, s.store)
	RegisterCountEntriesTool(s.mcpServer, s.store)
	RegisterDeleteEntriesTool(s.mcpServer, s.store)
	RegisterClearEntriesTool(s.mcpServer, s.store)
	RegisterExportEntriesTool(s.mcpServer, s.store, s.exporter)
	RegisterSaveDatasetTool(s.mcpServer, s.store, s.exporter, s.archive)
	s.logger.Debug().Strs("tools", ToolNames).Msg("tools registered")
}

// Start runs the stdio event loop. Register tools beforehand.
func (s *LabelMCPServer) Start() error {
	return server.ServeStdio(s.mcpServer)
}

// Store returns the session store.
func (s *LabelMCPServer) Store() *labels.Store {
	return s.store
}

// MCPRawServer exposes the raw mcp-go server.
func (s *LabelMCPServer) MCPRawServer() *server.MCPServer {
	return s.mcpServer
}

// Close checkpoints and closes the dataset archive, if any. The live session is
// not persisted.
func (s *LabelMCPServer) Close() error {
	if s.archive == nil {
		return nil
	}
	// TRUNCATE mode waits for transactions and writes the WAL back to the main DB.
	if _, err := s.archive.Exec("PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
		s.logger.Warn().Err(err).Msg("WAL checkpoint failed during close")
	}
	return s.archive.Close()
}
