package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/unowned-ai/emolabel/pkg/dataset"
	"github.com/unowned-ai/emolabel/pkg/export"
	"github.com/unowned-ai/emolabel/pkg/utils"
)

var showFormat string

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Inspect batches saved in the dataset archive",
	Long:  `List, show, summarize and delete batches that sessions exported to the SQLite dataset archive.`,
}

var listDatasetsCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived batches, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, err := openArchive()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		batches, err := dataset.ListBatches(cmd.Context(), dbConn)
		if err != nil {
			return fmt.Errorf("failed to list batches: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(batches) == 0 {
			fmt.Fprintln(out, "No batches found.")
			return nil
		}

		fmt.Fprintln(out, "ID | Source | Records | Created At | Note")
		fmt.Fprintln(out, "------------------------------------------------------------")
		for _, b := range batches {
			fmt.Fprintf(out, "%s | %s | %d | %s | %s\n",
				b.ID, b.Source, b.RecordCount, formatTimestamp(b.CreatedAt), b.Note)
		}
		return nil
	},
}

var showDatasetCmd = &cobra.Command{
	Use:   "show [batch-id]",
	Short: "Show a batch and its records",
	Long: `Print a batch's details followed by its records. With --format csv, json or yaml only
the records are written, in that format, so the output can be redirected to a file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseBatchID(args[0])
		if err != nil {
			return err
		}

		dbConn, err := openArchive()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		batch, err := dataset.GetBatch(cmd.Context(), dbConn, id)
		if errors.Is(err, dataset.ErrBatchNotFound) {
			return fmt.Errorf("batch not found: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to get batch: %w", err)
		}

		records, err := dataset.ListRecords(cmd.Context(), dbConn, id)
		if err != nil {
			return fmt.Errorf("failed to list records: %w", err)
		}

		out := cmd.OutOrStdout()
		if showFormat != "" {
			format, err := export.ParseFormat(showFormat)
			if err != nil {
				return err
			}
			return export.Write(out, format, records)
		}

		printBatch(out, batch)
		fmt.Fprintln(out, "\nRecords:")
		fmt.Fprintln(out, "------------------------------------------------------------")
		for i, r := range records {
			fmt.Fprintf(out, "%d | %s | %s\n", i+1, r.Label, utils.TruncateText(r.Text, cfg.Display.MaxTextLength))
		}
		return nil
	},
}

var statsDatasetCmd = &cobra.Command{
	Use:   "stats [batch-id]",
	Short: "Show the label distribution of a batch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseBatchID(args[0])
		if err != nil {
			return err
		}

		dbConn, err := openArchive()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		batch, err := dataset.GetBatch(cmd.Context(), dbConn, id)
		if errors.Is(err, dataset.ErrBatchNotFound) {
			return fmt.Errorf("batch not found: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to get batch: %w", err)
		}

		counts, err := dataset.LabelDistribution(cmd.Context(), dbConn, id)
		if err != nil {
			return fmt.Errorf("failed to compute label distribution: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Label distribution for batch %s (%d records):\n", batch.ID, batch.RecordCount)
		for _, c := range counts {
			var share float64
			if batch.RecordCount > 0 {
				share = 100 * float64(c.Count) / float64(batch.RecordCount)
			}
			fmt.Fprintf(out, "  %-8s %5d  %5.1f%%\n", c.Label, c.Count, share)
		}
		return nil
	},
}

var deleteDatasetCmd = &cobra.Command{
	Use:   "delete [batch-id]",
	Short: "Delete a batch and its records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseBatchID(args[0])
		if err != nil {
			return err
		}

		dbConn, err := openArchive()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		err = dataset.DeleteBatch(cmd.Context(), dbConn, id)
		if errors.Is(err, dataset.ErrBatchNotFound) {
			return fmt.Errorf("batch not found: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to delete batch: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Batch %s deleted.\n", args[0])
		return nil
	},
}

func parseBatchID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid batch ID: %w", err)
	}
	return id, nil
}

func printBatch(w io.Writer, b dataset.Batch) {
	fmt.Fprintln(w, "Batch Details:")
	fmt.Fprintf(w, "ID:         %s\n", b.ID)
	fmt.Fprintf(w, "Source:     %s\n", b.Source)
	fmt.Fprintf(w, "Note:       %s\n", b.Note)
	fmt.Fprintf(w, "Records:    %d\n", b.RecordCount)
	fmt.Fprintf(w, "Created At: %s\n", formatTimestamp(b.CreatedAt))
}

func initDatasetsCmd() {
	showDatasetCmd.Flags().StringVar(&showFormat, "format", "", "Write only the records, as csv, json or yaml")

	datasetsCmd.AddCommand(listDatasetsCmd, showDatasetCmd, statsDatasetCmd, deleteDatasetCmd)
}
