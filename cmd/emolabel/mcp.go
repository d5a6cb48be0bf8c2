package main

import (
	"database/sql"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/emolabel/pkg/mcp"
)

var mcpNoArchive bool

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the emolabel MCP server (stdio)",
	Long: `Start a Model Context Protocol (MCP) server that exposes one labeling session
as MCP tools via STDIO: add, list, count, delete, clear and export entries, and
save them to the dataset archive.

The session lives in memory and ends with the server. Entries must be exported
(export_entries) or archived (save_dataset) to persist them.

The dataset archive location follows --db, dataset.path in the config file, or the
system-specific default:
- Windows: %USERPROFILE%\AppData\Roaming\emolabel\datasets.db
- macOS: ~/Library/Application Support/emolabel/datasets.db
- Linux: ~/.local/share/emolabel/datasets.db

Example:
  emolabel mcp
  emolabel mcp --db datasets.db
  emolabel mcp --no-archive`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := newExporter(logger)
		if err != nil {
			return err
		}

		var archive *sql.DB
		if !mcpNoArchive {
			archive, err = openArchive()
			if err != nil {
				return err
			}
		}

		srv := mcp.NewLabelMCPServer(newStore(logger), exporter, archive, logger)
		defer func() {
			if err := srv.Close(); err != nil {
				logger.Warn().Err(err).Msg("failed to close dataset archive")
			}
		}()
		srv.RegisterTools()

		// Logs go to stderr so we don't contaminate the JSON-RPC stream on stdout.
		logger.Info().
			Bool("archive", archive != nil).
			Str("export_dir", cfg.Export.Dir).
			Str("tools", strings.Join(mcp.ToolNames, ", ")).
			Msg("emolabel MCP server started, listening for JSON-RPC on STDIN/STDOUT (Ctrl+C to quit)")

		return srv.Start()
	},
}

func initMCPCmd() {
	mcpCmd.Flags().BoolVar(&mcpNoArchive, "no-archive", false, "Do not open the dataset archive; save_dataset will be unavailable")
}
