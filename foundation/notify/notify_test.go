package notify_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/logger"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/notify"
)

func newLog() *logger.Logger {
	return logger.New(io.Discard, logger.LevelDebug, "TEST", nil)
}

func TestEmail_DisabledWithoutKey(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	e := notify.NewEmail(newLog(), notify.EmailConfig{BaseURL: srv.URL, From: "a@b.c", To: "x@y.z"})
	e.Send(context.Background(), notify.Message{Subject: "hi", Text: "there"})

	assert.Zero(t, calls.Load())
}

func TestEmail_Sends(t *testing.T) {
	var got map[string]any
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1"}`))
	}))
	defer srv.Close()

	e := notify.NewEmail(newLog(), notify.EmailConfig{BaseURL: srv.URL, APIKey: "re_key", From: "agency@example.com", To: "ops@example.com"})
	e.Send(context.Background(), notify.Message{Subject: "Draft approved", Text: "ok"})

	assert.Equal(t, "Bearer re_key", auth)
	assert.Equal(t, "agency@example.com", got["from"])
	assert.Equal(t, []any{"ops@example.com"}, got["to"])
	assert.Equal(t, "Draft approved", got["subject"])
}

func TestEmail_ProviderFailureIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"name":"validation_error","message":"bad from"}`))
	}))
	defer srv.Close()

	e := notify.NewEmail(newLog(), notify.EmailConfig{BaseURL: srv.URL, APIKey: "k", From: "a@b.c", To: "x@y.z"})

	assert.NotPanics(t, func() {
		e.Send(context.Background(), notify.Message{Subject: "s", Text: "t"})
	})
}

func TestEmail_UnreachableProviderIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	e := notify.NewEmail(newLog(), notify.EmailConfig{BaseURL: srv.URL, APIKey: "k", From: "a@b.c", To: "x@y.z"})

	assert.NotPanics(t, func() {
		e.Send(context.Background(), notify.Message{Subject: "s", Text: "t"})
	})
}

func TestSMS_Sends(t *testing.T) {
	var form map[string]string
	var user, pass string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)
		user, pass, _ = r.BasicAuth()
		require.NoError(t, r.ParseForm())
		form = map[string]string{
			"To":   r.PostForm.Get("To"),
			"From": r.PostForm.Get("From"),
			"Body": r.PostForm.Get("Body"),
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := notify.NewSMS(newLog(), notify.SMSConfig{
		BaseURL:    srv.URL,
		AccountSID: "AC123",
		AuthToken:  "tok",
		From:       "+15550000000",
		To:         "+15551111111",
	})
	s.Send(context.Background(), notify.Message{Subject: "Terms", Text: "accepted", SMSTo: "+15552222222"})

	assert.Equal(t, "AC123", user)
	assert.Equal(t, "tok", pass)
	assert.Equal(t, "+15552222222", form["To"])
	assert.Equal(t, "+15550000000", form["From"])
	assert.Equal(t, "Terms: accepted", form["Body"])
}

func TestSMS_DisabledWithoutCredentials(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	s := notify.NewSMS(newLog(), notify.SMSConfig{BaseURL: srv.URL, From: "+15550000000", To: "+15551111111"})
	s.Send(context.Background(), notify.Message{Text: "t"})

	assert.Zero(t, calls.Load())
}

type recorder struct {
	msgs []notify.Message
}

func (r *recorder) Send(_ context.Context, msg notify.Message) {
	r.msgs = append(r.msgs, msg)
}

func TestMulti(t *testing.T) {
	a, b := &recorder{}, &recorder{}

	notify.Multi{a, notify.Nop{}, b}.Send(context.Background(), notify.Message{Text: "x"})

	assert.Len(t, a.msgs, 1)
	assert.Len(t, b.msgs, 1)
}
