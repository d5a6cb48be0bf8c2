package tui

import (
	"context"
	"database/sql"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unowned-ai/emolabel/pkg/dataset"
	"github.com/unowned-ai/emolabel/pkg/export"
	"github.com/unowned-ai/emolabel/pkg/labels"
)

type exportedMsg struct {
	result export.Result
}

type archivedMsg struct {
	batch dataset.Batch
}

type exportFailedMsg struct {
	err error
}

// Write the session to a file and report the outcome as tea data
func exportToFile(exporter *export.Exporter, store *labels.Store, path string) tea.Cmd {
	return func() tea.Msg {
		res, err := exporter.ToFile(store, path)
		if err != nil {
			return exportFailedMsg{err: err}
		}
		return exportedMsg{result: res}
	}
}

// Save the session as a batch in the dataset archive
func saveToArchive(exporter *export.Exporter, db *sql.DB, store *labels.Store) tea.Cmd {
	return func() tea.Msg {
		batch, err := exporter.ToArchive(context.Background(), db, store, "tui", "")
		if err != nil {
			return exportFailedMsg{err: err}
		}
		return archivedMsg{batch: batch}
	}
}

// Get the archive database file name
func archiveFileName(db *sql.DB) string {
	if db == nil {
		return ""
	}
	var name, file string
	if err := db.QueryRow(`PRAGMA database_list`).Scan(new(int), &name, &file); err != nil {
		return ""
	}
	if file == "" {
		return "in-memory"
	}
	return filepath.Base(file)
}
