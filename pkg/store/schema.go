package store

import (
	"context"
	"database/sql"
	"fmt"
)

// currentSchemaVersion doubles as the version field of exported snapshots.
const currentSchemaVersion = 1

// Schema SQL for version 1
const schemaV1 = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version     INTEGER PRIMARY KEY,
    applied_at  TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Transceiver device record (singleton)
CREATE TABLE IF NOT EXISTS device (
    id                       INTEGER PRIMARY KEY CHECK (id = 1),
    device_id                TEXT NOT NULL DEFAULT '',
    name                     TEXT NOT NULL DEFAULT 'OpenIRBlaster',
    last_learned_name        TEXT,
    last_learned_at          TEXT,
    last_learned_pulse_count INTEGER,
    updated_at               TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Stored IR codes
CREATE TABLE IF NOT EXISTS codes (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    carrier_hz  INTEGER NOT NULL,
    pulses      TEXT NOT NULL,
    tags        TEXT NOT NULL DEFAULT '[]',
    notes       TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL,
    updated_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_codes_name ON codes(name COLLATE NOCASE);
`

// Migrate runs database migrations to bring the schema up to date.
func (db *DB) Migrate(ctx context.Context) error {
	version, err := db.getSchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	if version >= currentSchemaVersion {
		return nil // Already up to date
	}

	if version < 1 {
		if err := db.applySchemaV1(ctx); err != nil {
			return fmt.Errorf("failed to apply schema v1: %w", err)
		}
	}

	return nil
}

// getSchemaVersion returns the current schema version, or 0 if no schema exists.
func (db *DB) getSchemaVersion(ctx context.Context) (int, error) {
	// Check if schema_version table exists
	var count int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&count)
	if err != nil {
		return 0, err
	}

	if count == 0 {
		return 0, nil
	}

	var version int
	err = db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return 0, err
	}

	return version, nil
}

// applySchemaV1 applies the initial schema.
func (db *DB) applySchemaV1(ctx context.Context) error {
	return db.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, schemaV1); err != nil {
			return fmt.Errorf("failed to execute schema: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (1)`); err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}

		return nil
	})
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	return db.getSchemaVersion(ctx)
}

// NeedsBootstrap returns true if the database needs initial setup.
func (db *DB) NeedsBootstrap(ctx context.Context) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM device`).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// Bootstrap seeds the singleton device record on first run.
func (db *DB) Bootstrap(ctx context.Context, deviceID, name string) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM device`).Scan(&count); err != nil {
		return fmt.Errorf("failed to check device record: %w", err)
	}
	if count > 0 {
		return nil // Already bootstrapped
	}

	if name == "" {
		name = "OpenIRBlaster"
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO device (id, device_id, name)
		VALUES (1, ?, ?)
	`, deviceID, name)
	if err != nil {
		return fmt.Errorf("failed to create device record: %w", err)
	}

	return nil
}
