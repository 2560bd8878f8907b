//go:build sqlite

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"snnverify/internal/model"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveRunResult(ctx context.Context, result model.RunResult) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeRunResult(result)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO run_results (run_id, variant, schema_version, codec_version, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id, variant) DO UPDATE SET
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			payload = excluded.payload
	`, result.RunID, result.Variant, result.SchemaVersion, result.CodecVersion, payload)
	return err
}

func (s *SQLiteStore) GetRunResult(ctx context.Context, runID, variant string) (model.RunResult, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.RunResult{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM run_results WHERE run_id = ? AND variant = ?`, runID, variant).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RunResult{}, false, nil
		}
		return model.RunResult{}, false, err
	}

	result, err := DecodeRunResult(payload)
	if err != nil {
		return model.RunResult{}, false, fmt.Errorf("decode run result %s/%s: %w", runID, variant, err)
	}
	return result, true, nil
}

func (s *SQLiteStore) ListRunResults(ctx context.Context, runID string) ([]model.RunResult, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT payload FROM run_results WHERE run_id = ? ORDER BY variant`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.RunResult, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		result, err := DecodeRunResult(payload)
		if err != nil {
			return nil, fmt.Errorf("decode run result for %s: %w", runID, err)
		}
		out = append(out, result)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveValidation(ctx context.Context, record model.ValidationRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeValidation(record)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO validations (run_id, variant, schema_version, codec_version, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id, variant) DO UPDATE SET
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			payload = excluded.payload
	`, record.RunID, record.Variant, record.SchemaVersion, record.CodecVersion, payload)
	return err
}

func (s *SQLiteStore) GetValidation(ctx context.Context, runID, variant string) (model.ValidationRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.ValidationRecord{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM validations WHERE run_id = ? AND variant = ?`, runID, variant).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ValidationRecord{}, false, nil
		}
		return model.ValidationRecord{}, false, err
	}

	record, err := DecodeValidation(payload)
	if err != nil {
		return model.ValidationRecord{}, false, fmt.Errorf("decode validation %s/%s: %w", runID, variant, err)
	}
	return record, true, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS run_results (
			run_id TEXT NOT NULL,
			variant TEXT NOT NULL,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			payload BLOB NOT NULL,
			PRIMARY KEY (run_id, variant)
		);
		CREATE TABLE IF NOT EXISTS validations (
			run_id TEXT NOT NULL,
			variant TEXT NOT NULL,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			payload BLOB NOT NULL,
			PRIMARY KEY (run_id, variant)
		);
	`)
	return err
}
