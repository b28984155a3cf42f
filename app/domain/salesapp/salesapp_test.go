package salesapp_test

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/domain/salesapp"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/sdk/auth"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/salesbus"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/web"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/logger"
	"go.opentelemetry.io/otel/trace/noop"
)

type fakeStore struct {
	sources []string
	last    time.Time
}

func (f fakeStore) Count(context.Context, uuid.UUID) (int, error) { return len(f.sources), nil }

func (f fakeStore) CountUntagged(context.Context, uuid.UUID) (int, error) {
	var n int
	for _, s := range f.sources {
		if s == "" {
			n++
		}
	}
	return n, nil
}

func (f fakeStore) QueryLastSoldAt(context.Context, uuid.UUID) (time.Time, error) {
	return f.last, nil
}

func (f fakeStore) QuerySources(context.Context, uuid.UUID) ([]string, error) {
	return f.sources, nil
}

func newServer(t *testing.T, store salesbus.Storer) http.Handler {
	a, err := auth.New("pw")
	require.NoError(t, err)

	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)
	app := web.NewApp(log.Info, noop.NewTracerProvider().Tracer("test"))
	salesapp.Routes(app, salesapp.Config{Auth: a, SalesBus: salesbus.NewCore(log, store)})

	return app
}

func get(srv http.Handler, path string, admin bool) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	if admin {
		r.Header.Set("Authorization", "Bearer "+base64.StdEncoding.EncodeToString([]byte("admin:pw")))
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)
	return w
}

func TestSyncInfo(t *testing.T) {
	srv := newServer(t, fakeStore{
		sources: []string{"a", "a", "b", ""},
		last:    time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC),
	})

	w := get(srv, "/api/admin/clients/"+uuid.NewString()+"/sync-info", true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.JSONEq(t, `{
		"total_entries": 4,
		"untagged_count": 1,
		"last_entry_at": "2026-04-02T09:30:00Z",
		"sources": [
			{"source": "a", "count": 2},
			{"source": "b", "count": 1},
			{"source": "untagged", "count": 1}
		]
	}`, w.Body.String())
}

func TestSyncInfo_Empty(t *testing.T) {
	srv := newServer(t, fakeStore{})

	w := get(srv, "/api/admin/clients/"+uuid.NewString()+"/sync-info", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total_entries":0,"untagged_count":0,"last_entry_at":null,"sources":[]}`, w.Body.String())
}

func TestSyncInfo_Guards(t *testing.T) {
	srv := newServer(t, fakeStore{})

	assert.Equal(t, http.StatusUnauthorized, get(srv, "/api/admin/clients/"+uuid.NewString()+"/sync-info", false).Code)
	assert.Equal(t, http.StatusBadRequest, get(srv, "/api/admin/clients/not-a-uuid/sync-info", true).Code)
}
