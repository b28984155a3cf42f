// Package salesdb contains the sales entry aggregate reads.
package salesdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/sqldb"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/logger"
)

// Store manages the set of APIs for sales database access.
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

type clientFilter struct {
	ClientID string `db:"client_id"`
}

func filterFor(clientID uuid.UUID) clientFilter {
	return clientFilter{ClientID: clientID.String()}
}

// Count returns the number of entries of the client.
func (s *Store) Count(ctx context.Context, clientID uuid.UUID) (int, error) {
	const q = `
	SELECT
		COUNT(*) AS count
	FROM
		"public"."sales_entries"
	WHERE
		client_id = :client_id`

	var result struct {
		Count int `db:"count"`
	}

	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, filterFor(clientID), &result); err != nil {
		return 0, fmt.Errorf("db: %w", err)
	}

	return result.Count, nil
}

// CountUntagged returns the number of entries of the client with no source.
// A source made only of salesbus.Blank characters counts as none.
func (s *Store) CountUntagged(ctx context.Context, clientID uuid.UUID) (int, error) {
	const q = `
	SELECT
		COUNT(*) AS count
	FROM
		"public"."sales_entries"
	WHERE
		client_id = :client_id
		AND (source IS NULL OR BTRIM(source, E' \t\r\n') = '')`

	var result struct {
		Count int `db:"count"`
	}

	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, filterFor(clientID), &result); err != nil {
		return 0, fmt.Errorf("db: %w", err)
	}

	return result.Count, nil
}

// QueryLastSoldAt returns the most recent sold_at of the client, or the zero
// time when there are no entries.
func (s *Store) QueryLastSoldAt(ctx context.Context, clientID uuid.UUID) (time.Time, error) {
	const q = `
	SELECT
		MAX(sold_at) AS last_sold_at
	FROM
		"public"."sales_entries"
	WHERE
		client_id = :client_id`

	var result struct {
		LastSoldAt sql.NullTime `db:"last_sold_at"`
	}

	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, filterFor(clientID), &result); err != nil {
		return time.Time{}, fmt.Errorf("db: %w", err)
	}

	if !result.LastSoldAt.Valid {
		return time.Time{}, nil
	}

	return result.LastSoldAt.Time, nil
}

// QuerySources returns the source of every entry of the client in the order
// the entries were sold. A null source is returned as the empty string.
func (s *Store) QuerySources(ctx context.Context, clientID uuid.UUID) ([]string, error) {
	const q = `
	SELECT
		source
	FROM
		"public"."sales_entries"
	WHERE
		client_id = :client_id
	ORDER BY
		sold_at, id`

	var rows []struct {
		Source sql.NullString `db:"source"`
	}

	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, filterFor(clientID), &rows); err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}

	sources := make([]string, len(rows))
	for i, r := range rows {
		sources[i] = r.Source.String
	}

	return sources, nil
}
