package mid_test

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/sdk/auth"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/sdk/errs"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/sdk/mid"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/sqldb"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/web"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/logger"
	"go.opentelemetry.io/otel/trace/noop"
)

type okResp struct{}

func (okResp) Encode() ([]byte, string, error) {
	return []byte(`{"ok":true}`), "application/json", nil
}

func newApp(log *logger.Logger) *web.App {
	tracer := noop.NewTracerProvider().Tracer("test")

	return web.NewApp(log.Info, tracer,
		mid.Otel(tracer),
		mid.Logger(log),
		mid.Errors(log),
		mid.Metrics(),
		mid.Panics(),
	)
}

func serve(app http.Handler, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.ServeHTTP(w, r)
	return w
}

func TestAuthenticate(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)

	a, err := auth.New("s3cret")
	require.NoError(t, err)

	var calls int
	h := func(ctx context.Context, r *http.Request) web.Encoder {
		calls++
		return okResp{}
	}

	app := newApp(log)
	app.HandlerFunc(http.MethodGet, "api", "/admin/ping", h, mid.Authenticate(a))

	r := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(app, r).Code)
	assert.Zero(t, calls)

	r = httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	r.Header.Set("Authorization", "Bearer "+base64.StdEncoding.EncodeToString([]byte("admin:s3cret")))
	assert.Equal(t, http.StatusOK, serve(app, r).Code)
	assert.Equal(t, 1, calls)
}

func TestPanics(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)

	h := func(ctx context.Context, r *http.Request) web.Encoder {
		panic("boom")
	}

	app := newApp(log)
	app.HandlerFunc(http.MethodGet, "api", "/panic", h)

	w := serve(app, httptest.NewRequest(http.MethodGet, "/api/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal Server Error")
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestBeginCommitRollback(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	bgn := sqldb.NewBeginner(sqlx.NewDb(db, "pgx"))

	fail := false
	h := func(ctx context.Context, r *http.Request) web.Encoder {
		if _, err := mid.GetTran(ctx); err != nil {
			return errs.New(errs.Internal, err)
		}
		if fail {
			return errs.New(errs.InvalidArgument, errors.New("bad input"))
		}
		return okResp{}
	}

	app := newApp(log)
	app.HandlerFunc(http.MethodPost, "api", "/tx", h, mid.BeginCommitRollback(log, bgn))

	mock.ExpectBegin()
	mock.ExpectCommit()

	w := serve(app, httptest.NewRequest(http.MethodPost, "/api/tx", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())

	fail = true
	mock.ExpectBegin()
	mock.ExpectRollback()

	w = serve(app, httptest.NewRequest(http.MethodPost, "/api/tx", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
