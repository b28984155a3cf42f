package authapp_test

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/domain/authapp"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/sdk/auth"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/web"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/logger"
	"go.opentelemetry.io/otel/trace/noop"
)

func newServer(t *testing.T) http.Handler {
	a, err := auth.New("s3cret")
	require.NoError(t, err)

	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)
	app := web.NewApp(log.Info, noop.NewTracerProvider().Tracer("test"))
	authapp.Routes(app, authapp.Config{Auth: a})

	return app
}

func TestLogin(t *testing.T) {
	srv := newServer(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"valid", `{"password":"s3cret"}`, http.StatusOK},
		{"wrong password", `{"password":"nope"}`, http.StatusUnauthorized},
		{"missing password", `{}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/admin/auth", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			srv.ServeHTTP(w, r)

			require.Equal(t, tt.status, w.Code, w.Body.String())

			if tt.status == http.StatusOK {
				var got authapp.Token
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
				assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("admin:s3cret")), got.Token)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	srv := newServer(t)
	token := base64.StdEncoding.EncodeToString([]byte("admin:s3cret"))

	tests := []struct {
		name   string
		header string
		want   bool
	}{
		{"valid", "Bearer " + token, true},
		{"missing", "", false},
		{"wrong", "Bearer abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/admin/auth", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			srv.ServeHTTP(w, r)

			require.Equal(t, http.StatusOK, w.Code)

			var got authapp.Status
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got.Authenticated)
		})
	}
}
