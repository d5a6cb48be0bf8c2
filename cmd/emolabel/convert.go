package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/emolabel/pkg/export"
	"github.com/unowned-ai/emolabel/pkg/labels"
)

var (
	convertFormat    string
	convertToArchive bool
	convertNote      string
)

var convertCmd = &cobra.Command{
	Use:   "convert <input.csv> [output]",
	Short: "Validate a labeled CSV and export it as CSV, JSON, YAML or a dataset batch",
	Long: `Read a text,label CSV file, run every row through the same validation as an
interactive session (rows with empty text or unknown labels are reported and skipped)
and export the accepted rows.

Without an output path the default labeled_data_<timestamp> file name is used in the
export directory. With --archive the rows are saved as a new batch in the dataset
archive instead.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		records, err := export.ReadCSV(in)
		in.Close()
		if err != nil {
			return fmt.Errorf("failed to read '%s': %w", args[0], err)
		}

		store := newStore(logger)
		for i, r := range records {
			label, err := labels.ParseLabel(string(r.Label))
			if err == nil {
				_, err = store.Add(r.Text, label)
			}
			if err != nil {
				cmd.PrintErrf("Skipping record %d: %v\n", i+1, err)
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Accepted %d of %d records.\n", store.Count(), len(records))

		if cmd.Flags().Changed("format") {
			cfg.Export.Format = convertFormat
		}
		exporter, err := newExporter(logger)
		if err != nil {
			return err
		}

		if convertToArchive {
			archive, err := openArchive()
			if err != nil {
				return err
			}
			defer archive.Close()

			batch, err := exporter.ToArchive(cmd.Context(), archive, store, "convert:"+filepath.Base(args[0]), convertNote)
			if errors.Is(err, labels.ErrNothingToExport) {
				fmt.Fprintln(out, "No data to export.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Data saved to dataset archive as batch %s.\n", batch.ID)
			return nil
		}

		var output string
		if len(args) > 1 {
			output = args[1]
		}
		res, err := exporter.ToFile(store, output)
		if errors.Is(err, labels.ErrNothingToExport) {
			fmt.Fprintln(out, "No data to export.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Data exported successfully to: %s\n", res.Path)
		return nil
	},
}

func initConvertCmd() {
	convertCmd.Flags().StringVar(&convertFormat, "format", "csv", "Output format when the output path has no .csv/.json/.yaml extension (csv, json or yaml)")
	convertCmd.Flags().BoolVar(&convertToArchive, "archive", false, "Save the accepted records to the dataset archive instead of a file")
	convertCmd.Flags().StringVar(&convertNote, "note", "", "Note stored with the archived batch")
}
