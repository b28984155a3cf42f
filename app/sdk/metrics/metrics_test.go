package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	ctx := context.Background()

	before := testutil.ToFloat64(requests)
	AddRequests(ctx)
	AddRequests(ctx)
	assert.Equal(t, before+2, testutil.ToFloat64(requests))

	before = testutil.ToFloat64(errorsTotal)
	AddErrors(ctx)
	assert.Equal(t, before+1, testutil.ToFloat64(errorsTotal))

	before = testutil.ToFloat64(panics)
	AddPanics(ctx)
	assert.Equal(t, before+1, testutil.ToFloat64(panics))
}

func TestRegistry(t *testing.T) {
	n, err := testutil.GatherAndCount(Registry)
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
}
