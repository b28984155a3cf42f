package subscriptionapp_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/domain/subscriptionapp"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/subscriptionbus"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/web"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/logger"
	"go.opentelemetry.io/otel/trace/noop"
)

type memStore struct {
	subs map[uuid.UUID]subscriptionbus.Subscription
}

func (s *memStore) QueryByID(ctx context.Context, id uuid.UUID) (subscriptionbus.Subscription, error) {
	sub, ok := s.subs[id]
	if !ok {
		return subscriptionbus.Subscription{}, subscriptionbus.ErrNotFound
	}
	return sub, nil
}

func (s *memStore) AcceptTerms(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	sub, ok := s.subs[id]
	if !ok || sub.TermsText == "" || sub.Accepted() {
		return false, nil
	}
	sub.TermsAcceptedAt = at
	s.subs[id] = sub
	return true, nil
}

func TestAcceptTerms(t *testing.T) {
	withTerms := uuid.New()
	noTerms := uuid.New()

	store := &memStore{subs: map[uuid.UUID]subscriptionbus.Subscription{
		withTerms: {ID: withTerms, TermsText: "Be nice."},
		noTerms:   {ID: noTerms},
	}}

	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)
	app := web.NewApp(log.Info, noop.NewTracerProvider().Tracer("test"))
	subscriptionapp.Routes(app, subscriptionapp.Config{
		SubscriptionBus: subscriptionbus.NewCore(log, store, nil),
	})

	post := func(body string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/subscribe/accept-terms", strings.NewReader(body))
		w := httptest.NewRecorder()
		app.ServeHTTP(w, r)
		return w
	}

	w := post(fmt.Sprintf(`{"subscriptionId":%q}`, withTerms))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	first := store.subs[withTerms].TermsAcceptedAt
	require.False(t, first.IsZero())

	w = post(fmt.Sprintf(`{"subscriptionId":%q}`, withTerms))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first, store.subs[withTerms].TermsAcceptedAt, "second accept keeps the first stamp")

	w = post(fmt.Sprintf(`{"subscriptionId":%q}`, noTerms))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, store.subs[noTerms].TermsAcceptedAt.IsZero())

	w = post(fmt.Sprintf(`{"subscriptionId":%q}`, uuid.New()))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = post(`{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
