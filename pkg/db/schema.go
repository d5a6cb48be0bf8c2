package db

const (
	// SchemaV1 creates the dataset archive: export batches and their ordered records.
	SchemaV1 = `
CREATE TABLE IF NOT EXISTS emolabel_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS batches (
    id UUID PRIMARY KEY,
    source VARCHAR(512) NOT NULL DEFAULT '',
    note TEXT NOT NULL DEFAULT '',
    record_count INTEGER NOT NULL DEFAULT 0,
    created_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS records (
    batch_id UUID NOT NULL REFERENCES batches(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    text TEXT NOT NULL CHECK (length(text) > 0),
    label VARCHAR(32) NOT NULL,
    PRIMARY KEY (batch_id, position)
);

CREATE INDEX IF NOT EXISTS idx_records_label ON records(batch_id, label);
`
)
