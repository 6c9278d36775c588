package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies
// it, which keeps the Postgres store unit-testable without a server.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_calculation": `INSERT INTO calculations (id, kind, name, payload, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
	"update_calculation": `UPDATE calculations SET payload = $1, updated_at = $2 WHERE id = $3`,
	"get_calculation":    `SELECT id, kind, name, payload, created_at, updated_at FROM calculations WHERE id = $1`,
	"delete_calculation": `DELETE FROM calculations WHERE id = $1`,
	"get_layout":         `SELECT data FROM layouts WHERE slot = 1`,
	"save_layout":        `INSERT INTO layouts (slot, data, updated_at) VALUES (1, $1, $2) ON CONFLICT (slot) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS calculations (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	kind       TEXT NOT NULL,
	name       TEXT NOT NULL,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS layouts (
	slot       INTEGER PRIMARY KEY CHECK (slot = 1),
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_calculations_kind ON calculations(kind);
CREATE INDEX IF NOT EXISTS idx_calculations_name ON calculations(name);
CREATE INDEX IF NOT EXISTS idx_calculations_kind_created ON calculations(kind, created_at DESC);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveCalculation(ctx context.Context, kind Kind, name string, payload any) (*Record, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal payload")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO calculations (id, kind, name, payload, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, string(kind), name, payloadJSON, now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert calculation")
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

func (s *PostgresStore) UpdateCalculation(ctx context.Context, id string, payload any) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal payload")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE calculations SET payload = $1, updated_at = $2 WHERE id = $3`,
		payloadJSON, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update calculation %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("calculation not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) GetCalculation(ctx context.Context, id string) (*Record, error) {
	var r Record
	var kind string
	var payload []byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, kind, name, payload, created_at, updated_at FROM calculations WHERE id = $1`,
		id,
	).Scan(&r.ID, &kind, &r.Name, &payload, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get calculation %s", id)
	}

	r.Kind = Kind(kind)
	r.Payload = payload
	return &r, nil
}

func (s *PostgresStore) ListCalculations(ctx context.Context, filter Filter) ([]Record, error) {
	query := `SELECT id, kind, name, payload, created_at, updated_at FROM calculations WHERE 1=1`
	var args []any
	arg := 0

	next := func() string {
		arg++
		return fmt.Sprintf("$%d", arg)
	}

	if filter.Kind != "" {
		query += ` AND kind = ` + next()
		args = append(args, string(filter.Kind))
	}
	if filter.Name != "" {
		query += ` AND name = ` + next()
		args = append(args, filter.Name)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ` + next()
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ` + next()
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list calculations")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var kind string
		var payload []byte
		if err := rows.Scan(&r.ID, &kind, &r.Name, &payload, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan calculation")
		}
		r.Kind = Kind(kind)
		r.Payload = payload
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "postgres: list calculations iterate")
}

func (s *PostgresStore) DeleteCalculation(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM calculations WHERE id = $1`,
		id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete calculation %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("calculation not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) Prune(ctx context.Context, kind Kind, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM calculations WHERE kind = $1 AND id NOT IN (
			SELECT id FROM calculations WHERE kind = $1 ORDER BY created_at DESC LIMIT $2
		)`,
		string(kind), keep,
	)
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: prune %s", kind)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) GetLayout(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM layouts WHERE slot = 1`).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get layout")
	}
	return data, nil
}

func (s *PostgresStore) SaveLayout(ctx context.Context, raw []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO layouts (slot, data, updated_at) VALUES (1, $1, $2)
		 ON CONFLICT (slot) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		raw, time.Now().UTC(),
	)
	return eris.Wrap(err, "postgres: save layout")
}
