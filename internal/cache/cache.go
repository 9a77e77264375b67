// Package cache persists each monitor's last-known snapshot in a
// small sqlite database, so counter-based rate calculations survive
// one-shot invocations.
package cache

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/mutker/waybarmon/internal/errors"
	"codeberg.org/mutker/waybarmon/internal/logger"
	_ "github.com/mattn/go-sqlite3"
)

const defaultDirPerm = 0o755

type store struct {
	db *sql.DB
}

// no-op store used when caching is disabled
type noopStore struct{}

// NewStore opens the last-known-value store. A disabled configuration
// yields a no-op store so callers never branch on the setting.
func NewStore(cfg Config) (Store, error) {
	errFactory := errors.New()

	if !cfg.Enabled {
		logger.Debug().Msg("Last-value cache disabled, using no-op store")
		return &noopStore{}, nil
	}

	if cfg.DBPath == "" {
		return nil, errFactory.WithMessage(errors.ErrCacheInit, "cache database path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.WithData(errors.ErrCacheInit, struct {
			Phase string
			Path  string
			Error string
		}{
			Phase: "create_directory",
			Path:  cfg.DBPath,
			Error: err.Error(),
		})
	}

	dsn := cfg.DBPath + "?_journal=WAL&_auto_vacuum=2"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrCacheInit, err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	version, err := schemaVersion(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if version != SchemaVersion {
		db.Close()
		return nil, errFactory.WithData(errors.ErrCacheInit, struct {
			Found    int
			Expected int
		}{
			Found:    version,
			Expected: SchemaVersion,
		})
	}

	logger.Debug().
		Str("path", cfg.DBPath).
		Int("schema_version", SchemaVersion).
		Msg("Last-value cache initialized")

	return &store{db: db}, nil
}

func (s *store) Load(monitor string) ([]byte, time.Time, error) {
	var takenAt int64
	var payload []byte

	err := s.db.QueryRow(selectSnapshotSQL, monitor).Scan(&takenAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, errors.New().Wrap(errors.ErrCacheLoad, err)
	}

	return payload, time.Unix(takenAt, 0), nil
}

func (s *store) Save(monitor string, payload []byte) error {
	if _, err := s.db.Exec(upsertSnapshotSQL, monitor, time.Now().Unix(), payload); err != nil {
		return errors.New().Wrap(errors.ErrCacheStore, err)
	}

	return nil
}

func (s *store) Close() error {
	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return errors.New().Wrap(errors.ErrCacheClose, err)
	}
	if err := s.db.Close(); err != nil {
		return errors.New().Wrap(errors.ErrCacheClose, err)
	}

	return nil
}

func (*noopStore) Load(string) ([]byte, time.Time, error) {
	return nil, time.Time{}, nil
}

func (*noopStore) Save(string, []byte) error {
	return nil
}

func (*noopStore) Close() error {
	return nil
}
