// Package clientcache contains client related CRUD functionality with
// caching of the public branding view.
package clientcache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/viccon/sturdyc"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/clientbus"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/sqldb"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/logger"
)

const (
	capacity           = 10_000
	numShards          = 10
	evictionPercentage = 10
)

// Store manages the set of APIs for client data and caching.
type Store struct {
	log    *logger.Logger
	storer clientbus.Storer
	cache  *sturdyc.Client[clientbus.Branding]
	tx     sqldb.AfterCommitter
}

// NewStore constructs the api for data and caching access. Branding is kept
// for ttl; everything else reads through to the storer.
func NewStore(log *logger.Logger, storer clientbus.Storer, ttl time.Duration) *Store {
	return &Store{
		log:    log,
		storer: storer,
		cache:  sturdyc.New[clientbus.Branding](capacity, numShards, ttl, evictionPercentage),
	}
}

// NewWithTx constructs a new Store value replacing the storer with one that
// is inside the transaction. The cache is shared. Evictions wait for the
// commit when the transaction supports it.
func (s *Store) NewWithTx(tx sqldb.CommitRollbacker) (clientbus.Storer, error) {
	storer, err := s.storer.NewWithTx(tx)
	if err != nil {
		return nil, err
	}

	store := Store{
		log:    s.log,
		storer: storer,
		cache:  s.cache,
	}

	if ac, ok := tx.(sqldb.AfterCommitter); ok {
		store.tx = ac
	}

	return &store, nil
}

// Update replaces a client in the database and drops its cached branding.
// Inside a transaction the branding is dropped once the commit lands so a
// concurrent miss cannot cache the old row.
func (s *Store) Update(ctx context.Context, c clientbus.Client) error {
	if err := s.storer.Update(ctx, c); err != nil {
		return err
	}

	key := c.Slug.String()

	if s.tx != nil {
		s.tx.AfterCommit(func() {
			s.cache.Delete(key)
		})
		return nil
	}

	s.cache.Delete(key)

	return nil
}

// QueryByID gets the specified client from the database.
func (s *Store) QueryByID(ctx context.Context, clientID uuid.UUID) (clientbus.Client, error) {
	return s.storer.QueryByID(ctx, clientID)
}

// QueryBySlug always reads the database so pin checks see the latest hash.
func (s *Store) QueryBySlug(ctx context.Context, slug string) (clientbus.Client, error) {
	return s.storer.QueryBySlug(ctx, slug)
}

// QueryBranding serves the branding from the cache, fetching it on a miss.
func (s *Store) QueryBranding(ctx context.Context, slug string) (clientbus.Branding, error) {
	fetch := func(ctx context.Context) (clientbus.Branding, error) {
		s.log.Debug(ctx, "clientcache: miss", "slug", slug)
		return s.storer.QueryBranding(ctx, slug)
	}

	return s.cache.GetOrFetch(ctx, slug, fetch)
}

// QueryPendingPINs reads through to the storer.
func (s *Store) QueryPendingPINs(ctx context.Context) ([]clientbus.PendingPIN, error) {
	return s.storer.QueryPendingPINs(ctx)
}

// SetPINHash reads through to the storer. Branding carries no pin data so
// the cache is left alone.
func (s *Store) SetPINHash(ctx context.Context, clientID uuid.UUID, hash string, updatedAt time.Time) (bool, error) {
	return s.storer.SetPINHash(ctx, clientID, hash, updatedAt)
}
