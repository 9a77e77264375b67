package cache

import (
	"database/sql"

	"codeberg.org/mutker/waybarmon/internal/errors"
	"codeberg.org/mutker/waybarmon/internal/logger"
)

const (
	SchemaVersion = 1

	createTablesSQL = `
	   CREATE TABLE IF NOT EXISTS schema_versions (
	       version     INTEGER PRIMARY KEY,
	       applied_at  TEXT NOT NULL
	   );
	   CREATE TABLE IF NOT EXISTS snapshots (
	       monitor   TEXT PRIMARY KEY,
	       taken_at  INTEGER NOT NULL,
	       payload   BLOB NOT NULL
	   );`

	upsertSnapshotSQL = `
    INSERT INTO snapshots (monitor, taken_at, payload)
    VALUES (?, ?, ?)
    ON CONFLICT(monitor) DO UPDATE SET
        taken_at = excluded.taken_at,
        payload  = excluded.payload`

	selectSnapshotSQL = `
    SELECT taken_at, payload FROM snapshots WHERE monitor = ?`
)

// initSchema creates the snapshot tables and records the schema
// version.
func initSchema(db *sql.DB) error {
	errFactory := errors.New()

	tx, err := db.Begin()
	if err != nil {
		return errFactory.Wrap(errors.ErrCacheInit, err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
				logger.Debug().Err(err).Msg("Failed to rollback schema transaction")
			}
		}
	}()

	if _, err := tx.Exec(createTablesSQL); err != nil {
		return errFactory.WithData(errors.ErrCacheInit, struct {
			Phase string
			Error string
		}{
			Phase: "create_tables",
			Error: err.Error(),
		})
	}

	if _, err := tx.Exec(`
        INSERT OR IGNORE INTO schema_versions (version, applied_at)
        VALUES (?, datetime('now'))
    `, SchemaVersion); err != nil {
		return errFactory.WithData(errors.ErrCacheInit, struct {
			Phase string
			Error string
		}{
			Phase: "record_version",
			Error: err.Error(),
		})
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(errors.ErrCacheInit, err)
	}
	committed = true

	return nil
}

// schemaVersion returns the recorded schema version, zero for a fresh
// database.
func schemaVersion(db *sql.DB) (int, error) {
	errFactory := errors.New()

	var version int
	err := db.QueryRow(`
        SELECT version
        FROM schema_versions
        ORDER BY version DESC
        LIMIT 1
    `).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, errFactory.Wrap(errors.ErrCacheInit, err)
	}

	return version, nil
}
