package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS calculations (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	name       TEXT NOT NULL,
	payload    TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS layouts (
	slot       INTEGER PRIMARY KEY CHECK (slot = 1),
	data       TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_calculations_kind ON calculations(kind);
CREATE INDEX IF NOT EXISTS idx_calculations_name ON calculations(name);
CREATE INDEX IF NOT EXISTS idx_calculations_kind_created ON calculations(kind, created_at DESC);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveCalculation(ctx context.Context, kind Kind, name string, payload any) (*Record, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal payload")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO calculations (id, kind, name, payload, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, string(kind), name, string(payloadJSON), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert calculation")
	}

	return &Record{
		ID:        id,
		Kind:      kind,
		Name:      name,
		Payload:   payloadJSON,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteStore) UpdateCalculation(ctx context.Context, id string, payload any) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal payload")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE calculations SET payload = ?, updated_at = ? WHERE id = ?`,
		string(payloadJSON), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update calculation %s", id)
	}
	return checkRowsAffected(res, "calculation", id)
}

func (s *SQLiteStore) GetCalculation(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, name, payload, created_at, updated_at FROM calculations WHERE id = ?`,
		id,
	)
	return scanRecord(row)
}

func (s *SQLiteStore) ListCalculations(ctx context.Context, filter Filter) ([]Record, error) {
	query := `SELECT id, kind, name, payload, created_at, updated_at FROM calculations WHERE 1=1`
	var args []any

	if filter.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(filter.Kind))
	}
	if filter.Name != "" {
		query += ` AND name = ?`
		args = append(args, filter.Name)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list calculations")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: list calculations iterate")
}

func (s *SQLiteStore) DeleteCalculation(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM calculations WHERE id = ?`,
		id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete calculation %s", id)
	}
	return checkRowsAffected(res, "calculation", id)
}

func (s *SQLiteStore) Prune(ctx context.Context, kind Kind, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM calculations WHERE kind = ? AND id NOT IN (
			SELECT id FROM calculations WHERE kind = ? ORDER BY created_at DESC LIMIT ?
		)`,
		string(kind), string(kind), keep,
	)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: prune %s", kind)
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}

func (s *SQLiteStore) GetLayout(ctx context.Context) ([]byte, error) {
	row := s.db.QueryRowContext(ctx, `SELECT data FROM layouts WHERE slot = 1`)

	var data string
	err := row.Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get layout")
	}
	return []byte(data), nil
}

func (s *SQLiteStore) SaveLayout(ctx context.Context, raw []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO layouts (slot, data, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT (slot) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(raw), time.Now().UTC(),
	)
	return eris.Wrap(err, "sqlite: save layout")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (*Record, error) {
	var r Record
	var kind, payload string

	err := row.Scan(&r.ID, &kind, &r.Name, &payload, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("calculation not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan calculation")
	}

	r.Kind = Kind(kind)
	r.Payload = json.RawMessage(payload)
	return &r, nil
}
