package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"dreamlog/internal/dream"
)

type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if !strings.HasPrefix(dbPath, "file:") {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Name() string { return "sqlite" }

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) Available() bool {
	return s.db != nil
}

func (s *SQLiteStore) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS dreams (
	id TEXT PRIMARY KEY,
	seq INTEGER NOT NULL DEFAULT 0,
	title TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL,
	tags TEXT NOT NULL DEFAULT '[]',
	dream_signs TEXT NOT NULL DEFAULT '[]',
	is_lucid INTEGER NOT NULL DEFAULT 0,
	timestamp TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS suggestions (
	category TEXT NOT NULL,
	item TEXT NOT NULL,
	seq INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (category, item)
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	return s.ensureDreamColumns()
}

func (s *SQLiteStore) ensureDreamColumns() error {
	required := map[string]string{
		"emotions":      "ALTER TABLE dreams ADD COLUMN emotions TEXT NOT NULL DEFAULT '';",
		"date_string":   "ALTER TABLE dreams ADD COLUMN date_string TEXT NOT NULL DEFAULT '';",
		"last_modified": "ALTER TABLE dreams ADD COLUMN last_modified TEXT NOT NULL DEFAULT '';",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(dreams);`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

const dreamColumns = `id, title, content, emotions, tags, dream_signs, is_lucid, timestamp, date_string, last_modified`

func (s *SQLiteStore) LoadDreams(ctx context.Context) ([]dream.Dream, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+dreamColumns+` FROM dreams ORDER BY seq, id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dreams := []dream.Dream{}
	for rows.Next() {
		var d dream.Dream
		var tags, signs string
		var lucid int
		if err := rows.Scan(&d.ID, &d.Title, &d.Content, &d.Emotions, &tags, &signs, &lucid, &d.Timestamp, &d.DateString, &d.LastModified); err != nil {
			return nil, err
		}
		d.IsLucid = lucid == 1
		d.Tags = decodeList(tags)
		d.DreamSigns = decodeList(signs)
		dreams = append(dreams, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return dreams, nil
}

// SaveDreams replaces the whole table in one transaction.
func (s *SQLiteStore) SaveDreams(ctx context.Context, dreams []dream.Dream) error {
	if s.db == nil {
		return ErrUnavailable
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM dreams;`); err != nil {
		return err
	}
	for i, d := range dreams {
		if err := insertDream(ctx, tx, d, i+1); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) AddDream(ctx context.Context, d dream.Dream) error {
	if s.db == nil {
		return ErrUnavailable
	}
	var next int
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM dreams;`).Scan(&next); err != nil {
		return err
	}
	return insertDream(ctx, s.db, d, next)
}

func (s *SQLiteStore) UpdateDream(ctx context.Context, d dream.Dream) error {
	if s.db == nil {
		return ErrUnavailable
	}
	res, err := s.db.ExecContext(ctx, `UPDATE dreams SET title = ?, content = ?, emotions = ?, tags = ?, dream_signs = ?, is_lucid = ?, timestamp = ?, date_string = ?, last_modified = ? WHERE id = ?;`,
		d.Title, d.Content, d.Emotions, encodeList(d.Tags), encodeList(d.DreamSigns), boolToInt(d.IsLucid), d.Timestamp, d.DateString, d.LastModified, d.ID)
	if err != nil {
		return err
	}
	return requireAffected(res, d.ID)
}

func (s *SQLiteStore) DeleteDream(ctx context.Context, id string) error {
	if s.db == nil {
		return ErrUnavailable
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM dreams WHERE id = ?;`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, id)
}

func (s *SQLiteStore) LoadSuggestions(ctx context.Context, category string) ([]string, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}
	rows, err := s.db.QueryContext(ctx, `SELECT item FROM suggestions WHERE category = ? ORDER BY seq;`, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []string{}
	for rows.Next() {
		var item string
		if err := rows.Scan(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *SQLiteStore) SaveSuggestions(ctx context.Context, category string, items []string) error {
	if s.db == nil {
		return ErrUnavailable
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM suggestions WHERE category = ?;`, category); err != nil {
		return err
	}
	for i, item := range items {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO suggestions (category, item, seq) VALUES (?, ?, ?);`, category, item, i); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertDream(ctx context.Context, db execer, d dream.Dream, seq int) error {
	_, err := db.ExecContext(ctx, `INSERT INTO dreams (`+dreamColumns+`, seq) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		d.ID, d.Title, d.Content, d.Emotions, encodeList(d.Tags), encodeList(d.DreamSigns), boolToInt(d.IsLucid), d.Timestamp, d.DateString, d.LastModified, seq)
	return err
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", dream.ErrNotFound, id)
	}
	return nil
}

// Lists are stored as JSON arrays in a TEXT column.
func encodeList(items []string) string {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func decodeList(raw string) []string {
	items := []string{}
	if strings.TrimSpace(raw) == "" {
		return items
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []string{}
	}
	return items
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
