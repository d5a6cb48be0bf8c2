package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

const (
	// TargetSchemaVersion is the highest schema version this build supports for the dataset component.
	TargetSchemaVersion int64 = 1
	// DatasetComponent is the versioned component name recorded in emolabel_versions.
	DatasetComponent = "datasetdb"
)

// GetComponentSchemaVersion returns the recorded schema version of a component,
// or 0 when the component or the versions table does not exist yet.
func GetComponentSchemaVersion(conn *sql.DB, componentName string) (int64, error) {
	var version int64
	err := conn.QueryRow(`SELECT version FROM emolabel_versions WHERE component = ?;`, componentName).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		if strings.Contains(err.Error(), "no such table") {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan version for component '%s': %w", componentName, err)
	}
	return version, nil
}

// InitializeSchema creates all dataset tables and records schemaVersionToSet.
func InitializeSchema(conn *sql.DB, schemaVersionToSet int64) error {
	if _, err := conn.Exec(SchemaV1); err != nil {
		return fmt.Errorf("failed to execute schema v1 SQL: %w", err)
	}

	_, err := conn.Exec(`
INSERT INTO emolabel_versions (component, version) VALUES (?, ?)
ON CONFLICT(component) DO UPDATE SET version = excluded.version, created_at = unixepoch();`,
		DatasetComponent, schemaVersionToSet)
	if err != nil {
		return fmt.Errorf("failed to insert/update version for component %s to %d: %w", DatasetComponent, schemaVersionToSet, err)
	}
	return nil
}

// UpgradeDB brings the dataset component to targetVersion. Only fresh
// initialization is automatic; any other version gap is reported as an error.
func UpgradeDB(conn *sql.DB, dbIdentifierForLog string, targetVersion int64, logger zerolog.Logger) error {
	log := logger.With().Str("component", "db").Str("database", dbIdentifierForLog).Logger()

	current, err := GetComponentSchemaVersion(conn, DatasetComponent)
	if err != nil {
		return err
	}

	switch {
	case current == 0:
		log.Info().Int64("target_version", targetVersion).Msg("initializing dataset schema")
		if err := InitializeSchema(conn, targetVersion); err != nil {
			return fmt.Errorf("failed to initialize component %s in database '%s': %w", DatasetComponent, dbIdentifierForLog, err)
		}
		return nil
	case current == targetVersion:
		log.Debug().Int64("version", current).Msg("dataset schema up to date")
		return nil
	case current < targetVersion:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is older than application's target schema version %d. Automatic migration from this older version is not yet supported", DatasetComponent, dbIdentifierForLog, current, targetVersion)
	default:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is newer than application's target schema version %d. Please upgrade the application", DatasetComponent, dbIdentifierForLog, current, targetVersion)
	}
}

// OpenAndUpgrade opens the archive and makes sure its schema is current.
func OpenAndUpgrade(path string, opts Options, logger zerolog.Logger) (*sql.DB, error) {
	conn, err := Open(path, opts)
	if err != nil {
		return nil, err
	}
	if err := UpgradeDB(conn, path, TargetSchemaVersion, logger); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
