package clientcache_test

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/clientbus"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/clientbus/stores/clientcache"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/sqldb"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/types/slug"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/logger"
)

type countingStore struct {
	branding atomic.Int32
	bySlug   atomic.Int32
	name     string
}

func (s *countingStore) NewWithTx(tx sqldb.CommitRollbacker) (clientbus.Storer, error) {
	return s, nil
}

func (s *countingStore) Update(ctx context.Context, c clientbus.Client) error {
	s.name = c.Name
	return nil
}

func (s *countingStore) QueryByID(ctx context.Context, id uuid.UUID) (clientbus.Client, error) {
	return clientbus.Client{ID: id}, nil
}

func (s *countingStore) QueryBySlug(ctx context.Context, sl string) (clientbus.Client, error) {
	s.bySlug.Add(1)
	return clientbus.Client{Slug: slug.MustParse(sl)}, nil
}

func (s *countingStore) QueryBranding(ctx context.Context, sl string) (clientbus.Branding, error) {
	s.branding.Add(1)
	if sl == "missing" {
		return clientbus.Branding{}, clientbus.ErrNotFound
	}
	return clientbus.Branding{Slug: slug.MustParse(sl), Name: s.name}, nil
}

func (s *countingStore) QueryPendingPINs(ctx context.Context) ([]clientbus.PendingPIN, error) {
	return nil, nil
}

func (s *countingStore) SetPINHash(ctx context.Context, id uuid.UUID, hash string, at time.Time) (bool, error) {
	return true, nil
}

func newStore(inner *countingStore) *clientcache.Store {
	return clientcache.NewStore(logger.New(io.Discard, logger.LevelInfo, "TEST", nil), inner, time.Minute)
}

func TestQueryBranding_Cached(t *testing.T) {
	inner := &countingStore{name: "Acme"}
	store := newStore(inner)
	ctx := context.Background()

	for range 3 {
		b, err := store.QueryBranding(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, "Acme", b.Name)
	}

	assert.Equal(t, int32(1), inner.branding.Load())
}

func TestUpdate_Invalidates(t *testing.T) {
	inner := &countingStore{name: "Acme"}
	store := newStore(inner)
	ctx := context.Background()

	_, err := store.QueryBranding(ctx, "acme")
	require.NoError(t, err)

	require.NoError(t, store.Update(ctx, clientbus.Client{Slug: slug.MustParse("acme"), Name: "Acme Corp"}))

	b, err := store.QueryBranding(ctx, "acme")
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", b.Name)
	assert.Equal(t, int32(2), inner.branding.Load())
}

func TestQueryBranding_NotFound(t *testing.T) {
	store := newStore(&countingStore{})

	_, err := store.QueryBranding(context.Background(), "missing")
	assert.ErrorIs(t, err, clientbus.ErrNotFound)
}

func TestQueryBySlug_NotCached(t *testing.T) {
	inner := &countingStore{}
	store := newStore(inner)
	ctx := context.Background()

	for range 2 {
		_, err := store.QueryBySlug(ctx, "acme")
		require.NoError(t, err)
	}

	assert.Equal(t, int32(2), inner.bySlug.Load())
}

type hookTx struct {
	hooks []func()
}

func (t *hookTx) Commit() error {
	for _, fn := range t.hooks {
		fn()
	}
	t.hooks = nil
	return nil
}

func (t *hookTx) Rollback() error {
	t.hooks = nil
	return nil
}

func (t *hookTx) AfterCommit(fn func()) {
	t.hooks = append(t.hooks, fn)
}

func TestUpdate_InvalidatesAfterCommit(t *testing.T) {
	inner := &countingStore{name: "Acme"}
	store := newStore(inner)
	ctx := context.Background()

	_, err := store.QueryBranding(ctx, "acme")
	require.NoError(t, err)

	tx := &hookTx{}
	txStore, err := store.NewWithTx(tx)
	require.NoError(t, err)

	require.NoError(t, txStore.Update(ctx, clientbus.Client{Slug: slug.MustParse("acme"), Name: "Acme Corp"}))

	// Still served from the cache until the write is committed.
	b, err := store.QueryBranding(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme", b.Name)
	assert.Equal(t, int32(1), inner.branding.Load())

	require.NoError(t, tx.Commit())

	b, err = store.QueryBranding(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", b.Name)
	assert.Equal(t, int32(2), inner.branding.Load())
}

func TestUpdate_RollbackKeepsCache(t *testing.T) {
	inner := &countingStore{name: "Acme"}
	store := newStore(inner)
	ctx := context.Background()

	_, err := store.QueryBranding(ctx, "acme")
	require.NoError(t, err)

	tx := &hookTx{}
	txStore, err := store.NewWithTx(tx)
	require.NoError(t, err)

	require.NoError(t, txStore.Update(ctx, clientbus.Client{Slug: slug.MustParse("acme"), Name: "Acme Corp"}))
	require.NoError(t, tx.Rollback())

	_, err = store.QueryBranding(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, int32(1), inner.branding.Load())
}
