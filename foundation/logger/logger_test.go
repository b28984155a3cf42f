package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/logger"
)

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	traceID := func(context.Context) string { return "abc123" }

	log := logger.New(&buf, logger.LevelInfo, "TEST", traceID)
	log.Debug(context.Background(), "hidden")
	log.Info(context.Background(), "hello", "client", "acme")

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got), buf.String())

	assert.Equal(t, "hello", got["msg"])
	assert.Equal(t, "TEST", got["service"])
	assert.Equal(t, "acme", got["client"])
	assert.Equal(t, "abc123", got["trace_id"])
	assert.Contains(t, got["file"], "logger_test.go")
}

func TestEvents(t *testing.T) {
	var buf bytes.Buffer
	var errs []logger.Record

	events := logger.Events{
		Error: func(ctx context.Context, r logger.Record) { errs = append(errs, r) },
	}

	log := logger.NewWithEvents(&buf, logger.LevelInfo, "TEST", nil, events)
	log.Info(context.Background(), "fine")
	log.Error(context.Background(), "broken", "status", 500)

	require.Len(t, errs, 1)
	assert.Equal(t, "broken", errs[0].Message)
	assert.Equal(t, logger.LevelError, errs[0].Level)
	assert.EqualValues(t, 500, errs[0].Attributes["status"])
}
