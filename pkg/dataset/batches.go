// Package dataset archives exported labeling sessions in SQLite so that several
// sessions (or annotators) can be kept side by side and compared later.
package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/unowned-ai/emolabel/pkg/labels"
)

var (
	ErrBatchNotFound = errors.New("batch not found")
	ErrEmptyBatch    = errors.New("batch has no records")
)

const (
	createBatchStatement = `
	INSERT INTO batches (id, source, note, record_count)
	VALUES (?, ?, ?, ?)
	`

	insertRecordStatement = `
	INSERT INTO records (batch_id, position, text, label)
	VALUES (?, ?, ?, ?)
	`

	getBatchStatement = `
	SELECT id, source, note, record_count, created_at
	FROM batches
	WHERE id = ?
	`

	listBatchesStatement = `
	SELECT id, source, note, record_count, created_at
	FROM batches
	ORDER BY created_at DESC, rowid DESC
	`

	listRecordsStatement = `
	SELECT text, label
	FROM records
	WHERE batch_id = ?
	ORDER BY position ASC
	`

	deleteBatchStatement = `
	DELETE FROM batches
	WHERE id = ?
	`
)

// SaveBatch stores records, in order, as a new batch. The whole batch is
// written in one transaction: either every record lands or none does.
func SaveBatch(ctx context.Context, db *sql.DB, source, note string, records []labels.Record) (Batch, error) {
	if len(records) == 0 {
		return Batch{}, ErrEmptyBatch
	}
	for i, r := range records {
		if r.Text == "" {
			return Batch{}, fmt.Errorf("record %d: %w", i+1, &labels.ValidationError{Field: "text", Message: "empty text"})
		}
		if !labels.IsAllowed(r.Label) {
			return Batch{}, fmt.Errorf("record %d: %w", i+1, &labels.ValidationError{Field: "label", Message: "unknown label '" + string(r.Label) + "'"})
		}
	}

	batchID := uuid.New()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Batch{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, createBatchStatement, batchID, source, note, len(records)); err != nil {
		return Batch{}, fmt.Errorf("failed to create batch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertRecordStatement)
	if err != nil {
		return Batch{}, fmt.Errorf("failed to prepare record insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, batchID, i, r.Text, string(r.Label)); err != nil {
			return Batch{}, fmt.Errorf("failed to insert record %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Batch{}, fmt.Errorf("failed to commit batch: %w", err)
	}

	return GetBatch(ctx, db, batchID)
}

func scanBatch(scanner interface{ Scan(...any) error }) (Batch, error) {
	var (
		b         Batch
		createdAt float64
	)
	if err := scanner.Scan(&b.ID, &b.Source, &b.Note, &b.RecordCount, &createdAt); err != nil {
		return Batch{}, err
	}
	b.CreatedAt = unixToTime(createdAt)
	return b, nil
}

// GetBatch retrieves batch metadata by id.
func GetBatch(ctx context.Context, db *sql.DB, id uuid.UUID) (Batch, error) {
	b, err := scanBatch(db.QueryRowContext(ctx, getBatchStatement, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Batch{}, ErrBatchNotFound
		}
		return Batch{}, err
	}
	return b, nil
}

// ListBatches returns all batches, newest first.
func ListBatches(ctx context.Context, db *sql.DB) ([]Batch, error) {
	rows, err := db.QueryContext(ctx, listBatchesStatement)
	if err != nil {
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}
	defer rows.Close()

	var batches []Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch row: %w", err)
		}
		batches = append(batches, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating batch rows: %w", err)
	}

	return batches, nil
}

// ListRecords returns the records of a batch in their original export order.
func ListRecords(ctx context.Context, db *sql.DB, id uuid.UUID) ([]labels.Record, error) {
	if _, err := GetBatch(ctx, db, id); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, listRecordsStatement, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []labels.Record
	for rows.Next() {
		var (
			r     labels.Record
			label string
		)
		if err := rows.Scan(&r.Text, &label); err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		r.Label = labels.Label(label)
		records = append(records, r)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating record rows: %w", err)
	}

	return records, nil
}

// DeleteBatch removes a batch and, by cascade, its records.
func DeleteBatch(ctx context.Context, db *sql.DB, id uuid.UUID) error {
	res, err := db.ExecContext(ctx, deleteBatchStatement, id)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrBatchNotFound
	}

	return nil
}
