package salesdb_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/salesbus/stores/salesdb"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/logger"
)

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, *salesdb.Store) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)

	return mock, salesdb.NewStore(log, sqlx.NewDb(db, "pgx"))
}

func TestCountUntagged(t *testing.T) {
	mock, store := setupMockDB(t)
	clientID := uuid.New()

	mock.ExpectQuery(`(?s)COUNT\(\*\).+client_id = \$1.+source IS NULL OR BTRIM\(source, E' \\t\\r\\n'\) = ''`).
		WithArgs(clientID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := store.CountUntagged(context.Background(), clientID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryLastSoldAt_NoEntries(t *testing.T) {
	mock, store := setupMockDB(t)

	mock.ExpectQuery(`MAX\(sold_at\)`).
		WillReturnRows(sqlmock.NewRows([]string{"last_sold_at"}).AddRow(nil))

	last, err := store.QueryLastSoldAt(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, last.IsZero())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryLastSoldAt(t *testing.T) {
	mock, store := setupMockDB(t)
	at := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`MAX\(sold_at\)`).
		WillReturnRows(sqlmock.NewRows([]string{"last_sold_at"}).AddRow(at))

	last, err := store.QueryLastSoldAt(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, at, last)
}

func TestQuerySources_NullIsEmpty(t *testing.T) {
	mock, store := setupMockDB(t)

	mock.ExpectQuery(`(?s)SELECT.+source.+ORDER BY.+sold_at`).
		WillReturnRows(sqlmock.NewRows([]string{"source"}).
			AddRow("a").AddRow("a").AddRow("b").AddRow(nil))

	sources, err := store.QuerySources(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a", "b", ""}, sources)

	require.NoError(t, mock.ExpectationsWereMet())
}
