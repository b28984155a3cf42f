package clientdb_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/clientbus"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/clientbus/stores/clientdb"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/types/slug"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/logger"
)

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, *clientdb.Store) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)

	return mock, clientdb.NewStore(log, sqlx.NewDb(db, "pgx"))
}

var clientColumns = []string{
	"id", "slug", "name", "pin", "pin_hash", "logo_url", "primary_color",
	"notify_email", "notify_phone", "created_at", "updated_at",
}

func TestQueryBySlug(t *testing.T) {
	mock, store := setupMockDB(t)

	id := uuid.New()
	now := time.Now().UTC()

	rows := sqlmock.NewRows(clientColumns).
		AddRow(id.String(), "acme", "Acme", "1234", nil, "https://x/logo.png", "#ff0000", "ops@acme.test", "+15551234567", now, now)

	mock.ExpectQuery(`(?s)SELECT.+FROM.+"clients".+slug = \$1`).
		WithArgs("acme").
		WillReturnRows(rows)

	c, err := store.QueryBySlug(context.Background(), "acme")
	require.NoError(t, err)

	assert.Equal(t, id, c.ID)
	assert.Equal(t, "acme", c.Slug.String())
	assert.Equal(t, "1234", c.PIN)
	assert.Empty(t, c.PINHash)
	assert.True(t, c.NotifyPhone.Valid())
	assert.Equal(t, "+15551234567", c.NotifyPhone.String())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryByID_NotFound(t *testing.T) {
	mock, store := setupMockDB(t)

	id := uuid.New()

	mock.ExpectQuery(`(?s)SELECT.+FROM.+"clients".+id = \$1`).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows(clientColumns))

	_, err := store.QueryByID(context.Background(), id)
	assert.ErrorIs(t, err, clientbus.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryPendingPINs(t *testing.T) {
	mock, store := setupMockDB(t)

	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery(`(?s)SELECT.+id, pin.+pin_hash IS NULL.+pin IS NOT NULL.+pin <> ''`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "pin"}).
			AddRow(a.String(), "1234").
			AddRow(b.String(), "5678"))

	pps, err := store.QueryPendingPINs(context.Background())
	require.NoError(t, err)

	require.Len(t, pps, 2)
	assert.Equal(t, a, pps[0].ID)
	assert.Equal(t, "5678", pps[1].PIN)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetPINHash(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{"migrated", 1, true},
		{"already hashed", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, store := setupMockDB(t)

			mock.ExpectExec(`(?s)UPDATE.+"clients".+SET.+pin_hash = \$1.+WHERE.+id = \$3.+AND pin_hash IS NULL`).
				WithArgs("$2a$10$hash", sqlmock.AnyArg(), id.String()).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			ok, err := store.SetPINHash(context.Background(), id, "$2a$10$hash", time.Now())
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSetPINHash_Error(t *testing.T) {
	mock, store := setupMockDB(t)

	mock.ExpectExec(`UPDATE`).WillReturnError(errors.New("connection refused"))

	_, err := store.SetPINHash(context.Background(), uuid.New(), "h", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestUpdate_NoRows(t *testing.T) {
	mock, store := setupMockDB(t)

	mock.ExpectExec(`(?s)UPDATE.+"clients".+WHERE.+id = `).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Update(context.Background(), clientbus.Client{ID: uuid.New(), Slug: slug.MustParse("acme")})
	assert.ErrorIs(t, err, clientbus.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryBranding(t *testing.T) {
	mock, store := setupMockDB(t)

	id := uuid.New()

	mock.ExpectQuery(`(?s)SELECT.+id, slug, name, logo_url, primary_color.+slug = \$1`).
		WithArgs("acme").
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug", "name", "logo_url", "primary_color"}).
			AddRow(id.String(), "acme", "Acme", nil, "#000"))

	b, err := store.QueryBranding(context.Background(), "acme")
	require.NoError(t, err)

	assert.Equal(t, id, b.ID)
	assert.Empty(t, b.LogoURL)
	assert.Equal(t, "#000", b.PrimaryColor)

	require.NoError(t, mock.ExpectationsWereMet())
}
