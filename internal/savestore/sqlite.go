package savestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps every slot as a row in one database file.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS saves (
		slot TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		digest TEXT NOT NULL,
		size INTEGER NOT NULL,
		saved_at TEXT NOT NULL
	);`)
	return err
}

func (s *SQLiteStore) Put(ctx context.Context, slot string, data []byte) (Info, error) {
	if err := CheckSlot(slot); err != nil {
		return Info{}, err
	}
	info := Info{Slot: slot, Size: len(data), Digest: Digest(data), SavedAt: s.now().UTC()}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO saves (slot, data, digest, size, saved_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET data=excluded.data, digest=excluded.digest, size=excluded.size, saved_at=excluded.saved_at`,
		slot, data, info.Digest, info.Size, info.SavedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Info{}, fmt.Errorf("save slot %s: %w", slot, err)
	}
	return info, nil
}

func (s *SQLiteStore) Get(ctx context.Context, slot string) ([]byte, error) {
	if err := CheckSlot(slot); err != nil {
		return nil, err
	}
	var (
		data   []byte
		digest string
	)
	err := s.db.QueryRowContext(ctx, `SELECT data, digest FROM saves WHERE slot = ?`, slot).Scan(&data, &digest)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load slot %s: %w", slot, err)
	}
	if err := verify(slot, data, digest); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Info, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slot, size, digest, saved_at FROM saves ORDER BY slot`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Info
	for rows.Next() {
		var (
			info    Info
			savedAt string
		)
		if err := rows.Scan(&info.Slot, &info.Size, &info.Digest, &savedAt); err != nil {
			return nil, err
		}
		info.SavedAt, _ = time.Parse(time.RFC3339Nano, savedAt)
		out = append(out, info)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
