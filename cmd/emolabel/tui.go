package main

import (
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/emolabel/pkg/tui"
)

var (
	tuiLogFile     string
	tuiWithArchive bool
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start an interactive labeling session",
	Long: `Open a terminal UI for labeling texts with one of the seven emotion labels.

Entries live in memory for the duration of the session. Export them to a CSV or JSON
file (or, with --archive, to the SQLite dataset archive) before quitting.

Keys: tab switches between text, label picker and entry table; enter submits;
space marks entries; d deletes, c clears, e exports, q quits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The UI owns the terminal, so logs go to a file or nowhere.
		l, closeLog, err := fileLogger(tuiLogFile)
		if err != nil {
			return err
		}
		defer closeLog()

		exporter, err := newExporter(l)
		if err != nil {
			return err
		}

		var archive *sql.DB
		if tuiWithArchive {
			archive, err = openArchive()
			if err != nil {
				return err
			}
			defer archive.Close()
		}

		store := newStore(l)
		return tui.ShowTUI(store, exporter, tui.Options{
			MaxTextLength: cfg.Display.MaxTextLength,
			Archive:       archive,
		})
	},
}

func initTUICmd() {
	tuiCmd.Flags().StringVar(&tuiLogFile, "log-file", "", "Write logs to this file while the UI is running")
	tuiCmd.Flags().BoolVar(&tuiWithArchive, "archive", false, "Offer the dataset archive as an export destination")
}
