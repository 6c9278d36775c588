package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_SaveCalculation(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO calculations`).
		WithArgs(pgxmock.AnyArg(), "rice", "feature x", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	rec, err := s.SaveCalculation(context.Background(), KindRice, "feature x", map[string]any{"score": 12.5})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, KindRice, rec.Kind)
	assert.JSONEq(t, `{"score":12.5}`, string(rec.Payload))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetCalculation_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, kind, name, payload, created_at, updated_at FROM calculations WHERE id = \$1`).
		WithArgs("nonexistent-id").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetCalculation(context.Background(), "nonexistent-id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get calculation")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetCalculation(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{"id", "kind", "name", "payload", "created_at", "updated_at"}).
		AddRow("abc-123", "roi", "q3 automation", []byte(`{"npv":1000}`), now, now)

	mock.ExpectQuery(`SELECT id, kind, name, payload, created_at, updated_at FROM calculations WHERE id = \$1`).
		WithArgs("abc-123").
		WillReturnRows(rows)

	rec, err := s.GetCalculation(context.Background(), "abc-123")
	require.NoError(t, err)
	assert.Equal(t, KindRoi, rec.Kind)
	assert.Equal(t, "q3 automation", rec.Name)
	assert.JSONEq(t, `{"npv":1000}`, string(rec.Payload))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateCalculation_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE calculations SET payload`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "missing-id").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateCalculation(context.Background(), "missing-id", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListCalculations(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{"id", "kind", "name", "payload", "created_at", "updated_at"}).
		AddRow("id-1", "rice", "newest", []byte(`{}`), now, now).
		AddRow("id-2", "rice", "older", []byte(`{}`), now.Add(-time.Hour), now.Add(-time.Hour))

	mock.ExpectQuery(`SELECT id, kind, name, payload, created_at, updated_at FROM calculations WHERE 1=1 AND kind = \$1 ORDER BY created_at DESC LIMIT \$2`).
		WithArgs("rice", 100).
		WillReturnRows(rows)

	records, err := s.ListCalculations(context.Background(), Filter{Kind: KindRice})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "newest", records[0].Name)
	assert.Equal(t, KindRice, records[1].Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteCalculation(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM calculations WHERE id = \$1`).
		WithArgs("abc-123").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, s.DeleteCalculation(context.Background(), "abc-123"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Prune(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM calculations WHERE kind = \$1 AND id NOT IN`).
		WithArgs("rice", 50).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	deleted, err := s.Prune(context.Background(), KindRice, 50)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetLayout_Empty(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT data FROM layouts WHERE slot = 1`).
		WillReturnError(pgx.ErrNoRows)

	data, err := s.GetLayout(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveLayout_Upsert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`ON CONFLICT \(slot\) DO UPDATE`).
		WithArgs([]byte(`{"version":1,"widgets":[]}`), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.SaveLayout(context.Background(), []byte(`{"version":1,"widgets":[]}`))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Ping(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`SELECT 1`).WillReturnResult(pgxmock.NewResult("SELECT", 1))

	require.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
