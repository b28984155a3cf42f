// Package clientdb contains client related CRUD functionality.
package clientdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/clientbus"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/sqldb"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/logger"
)

// Store manages the set of APIs for client database access.
type Store struct {
	log *logger.Logger
	db  sqlx.ExtContext
}

// NewStore constructs the api for data access.
func NewStore(log *logger.Logger, db *sqlx.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

// NewWithTx constructs a new Store value replacing the sqlx DB
// value with a sqlx DB value that is currently inside a transaction.
func (s *Store) NewWithTx(tx sqldb.CommitRollbacker) (clientbus.Storer, error) {
	ec, err := sqldb.GetExtContext(tx)
	if err != nil {
		return nil, err
	}

	store := Store{
		log: s.log,
		db:  ec,
	}

	return &store, nil
}

// Update replaces a client document in the database.
func (s *Store) Update(ctx context.Context, c clientbus.Client) error {
	const q = `
	UPDATE
		"public"."clients"
	SET
		name = :name,
		pin = :pin,
		pin_hash = :pin_hash,
		logo_url = :logo_url,
		primary_color = :primary_color,
		notify_email = :notify_email,
		notify_phone = :notify_phone,
		updated_at = :updated_at
	WHERE
		id = :id`

	n, err := sqldb.NamedExecContextWithCount(ctx, s.log, s.db, q, toDBClient(c))
	if err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	if n == 0 {
		return fmt.Errorf("namedexeccontext: %w", clientbus.ErrNotFound)
	}

	return nil
}

// QueryByID gets the specified client from the database.
func (s *Store) QueryByID(ctx context.Context, clientID uuid.UUID) (clientbus.Client, error) {
	data := struct {
		ID string `db:"id"`
	}{
		ID: clientID.String(),
	}

	const q = `
	SELECT
		id, slug, name, pin, pin_hash, logo_url, primary_color,
		notify_email, notify_phone, created_at, updated_at
	FROM
		"public"."clients"
	WHERE
		id = :id`

	return s.queryOne(ctx, q, data)
}

// QueryBySlug gets the client with the specified slug from the database.
func (s *Store) QueryBySlug(ctx context.Context, slug string) (clientbus.Client, error) {
	data := struct {
		Slug string `db:"slug"`
	}{
		Slug: slug,
	}

	const q = `
	SELECT
		id, slug, name, pin, pin_hash, logo_url, primary_color,
		notify_email, notify_phone, created_at, updated_at
	FROM
		"public"."clients"
	WHERE
		slug = :slug`

	return s.queryOne(ctx, q, data)
}

func (s *Store) queryOne(ctx context.Context, q string, data any) (clientbus.Client, error) {
	var dbClt client
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbClt); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return clientbus.Client{}, fmt.Errorf("db: %w", clientbus.ErrNotFound)
		}
		return clientbus.Client{}, fmt.Errorf("db: %w", err)
	}

	return toBusClient(dbClt)
}

// QueryBranding reads only the public columns of the client with the slug.
func (s *Store) QueryBranding(ctx context.Context, slug string) (clientbus.Branding, error) {
	data := struct {
		Slug string `db:"slug"`
	}{
		Slug: slug,
	}

	const q = `
	SELECT
		id, slug, name, logo_url, primary_color
	FROM
		"public"."clients"
	WHERE
		slug = :slug`

	var dbB branding
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbB); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return clientbus.Branding{}, fmt.Errorf("db: %w", clientbus.ErrNotFound)
		}
		return clientbus.Branding{}, fmt.Errorf("db: %w", err)
	}

	return toBusBranding(dbB)
}

// QueryPendingPINs returns the clients holding a plaintext pin without a
// hash.
func (s *Store) QueryPendingPINs(ctx context.Context) ([]clientbus.PendingPIN, error) {
	const q = `
	SELECT
		id, pin
	FROM
		"public"."clients"
	WHERE
		pin_hash IS NULL
		AND pin IS NOT NULL
		AND pin <> ''
	ORDER BY
		created_at`

	var dbPPs []pendingPIN
	if err := sqldb.QuerySlice(ctx, s.log, s.db, q, &dbPPs); err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}

	return toBusPendingPINs(dbPPs), nil
}

// SetPINHash stores the hash only while the row has none. It reports false
// when another writer got there first.
func (s *Store) SetPINHash(ctx context.Context, clientID uuid.UUID, hash string, updatedAt time.Time) (bool, error) {
	data := struct {
		ID        string    `db:"id"`
		PINHash   string    `db:"pin_hash"`
		UpdatedAt time.Time `db:"updated_at"`
	}{
		ID:        clientID.String(),
		PINHash:   hash,
		UpdatedAt: updatedAt.UTC(),
	}

	const q = `
	UPDATE
		"public"."clients"
	SET
		pin_hash = :pin_hash,
		updated_at = :updated_at
	WHERE
		id = :id
		AND pin_hash IS NULL`

	n, err := sqldb.NamedExecContextWithCount(ctx, s.log, s.db, q, data)
	if err != nil {
		return false, fmt.Errorf("namedexeccontext: %w", err)
	}

	return n > 0, nil
}
