// Package subscriptiondb contains subscription related CRUD functionality.
package subscriptiondb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/subscriptionbus"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/sqldb"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/logger"
)

// Store manages the set of APIs for subscription database access.
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

type subscription struct {
	ID              uuid.UUID      `db:"id"`
	TermsText       sql.NullString `db:"terms_text"`
	TermsAcceptedAt sql.NullTime   `db:"terms_accepted_at"`
}

func toBusSubscription(db subscription) subscriptionbus.Subscription {
	sub := subscriptionbus.Subscription{
		ID:        db.ID,
		TermsText: db.TermsText.String,
	}

	if db.TermsAcceptedAt.Valid {
		sub.TermsAcceptedAt = db.TermsAcceptedAt.Time.In(time.Local)
	}

	return sub
}

// QueryByID gets the specified subscription from the database.
func (s *Store) QueryByID(ctx context.Context, subscriptionID uuid.UUID) (subscriptionbus.Subscription, error) {
	data := struct {
		ID string `db:"id"`
	}{
		ID: subscriptionID.String(),
	}

	const q = `
	SELECT
		id, terms_text, terms_accepted_at
	FROM
		"public"."subscriptions"
	WHERE
		id = :id`

	var dbSub subscription
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbSub); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return subscriptionbus.Subscription{}, fmt.Errorf("db: %w", subscriptionbus.ErrNotFound)
		}
		return subscriptionbus.Subscription{}, fmt.Errorf("db: %w", err)
	}

	return toBusSubscription(dbSub), nil
}

// AcceptTerms stamps terms_accepted_at only while terms exist and were not
// accepted yet. It reports false when nothing matched.
func (s *Store) AcceptTerms(ctx context.Context, subscriptionID uuid.UUID, acceptedAt time.Time) (bool, error) {
	data := struct {
		ID         string    `db:"id"`
		AcceptedAt time.Time `db:"terms_accepted_at"`
	}{
		ID:         subscriptionID.String(),
		AcceptedAt: acceptedAt.UTC(),
	}

	const q = `
	UPDATE
		"public"."subscriptions"
	SET
		terms_accepted_at = :terms_accepted_at
	WHERE
		id = :id
		AND terms_text IS NOT NULL
		AND terms_text <> ''
		AND terms_accepted_at IS NULL`

	n, err := sqldb.NamedExecContextWithCount(ctx, s.log, s.db, q, data)
	if err != nil {
		return false, fmt.Errorf("namedexeccontext: %w", err)
	}

	return n > 0, nil
}
