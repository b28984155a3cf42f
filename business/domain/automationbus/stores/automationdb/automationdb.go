// Package automationdb contains automation related CRUD functionality.
package automationdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/automationbus"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/sqldb"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/types/runstatus"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/logger"
)

// Store manages the set of APIs for automation database access.
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
func (s *Store) NewWithTx(tx sqldb.CommitRollbacker) (automationbus.Storer, error) {
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

// QueryByID gets the automation when it belongs to the client.
func (s *Store) QueryByID(ctx context.Context, automationID uuid.UUID, clientID uuid.UUID) (automationbus.Automation, error) {
	data := struct {
		ID       string `db:"id"`
		ClientID string `db:"client_id"`
	}{
		ID:       automationID.String(),
		ClientID: clientID.String(),
	}

	const q = `
	SELECT
		id, client_id, automation_key, name, config, is_enabled
	FROM
		"public"."automations"
	WHERE
		id = :id
		AND client_id = :client_id`

	var dbA automation
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbA); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return automationbus.Automation{}, fmt.Errorf("db: %w", automationbus.ErrNotFound)
		}
		return automationbus.Automation{}, fmt.Errorf("db: %w", err)
	}

	return toBusAutomation(dbA), nil
}

// QueryByClientID returns the automations of the client ordered by name.
func (s *Store) QueryByClientID(ctx context.Context, clientID uuid.UUID) ([]automationbus.Automation, error) {
	data := struct {
		ClientID string `db:"client_id"`
	}{
		ClientID: clientID.String(),
	}

	const q = `
	SELECT
		id, client_id, automation_key, name, config, is_enabled
	FROM
		"public"."automations"
	WHERE
		client_id = :client_id
	ORDER BY
		name`

	var dbAs []automation
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, data, &dbAs); err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}

	return toBusAutomations(dbAs), nil
}

// QueryDrafts returns the pending runs of the client's automations.
func (s *Store) QueryDrafts(ctx context.Context, clientID uuid.UUID) ([]automationbus.Draft, error) {
	data := struct {
		ClientID string `db:"client_id"`
		Status   string `db:"status"`
	}{
		ClientID: clientID.String(),
		Status:   runstatus.PendingApproval.String(),
	}

	const q = `
	SELECT
		r.id, r.automation_id, r.status, r.draft_content, r.payload,
		r.input_summary, r.output_summary, r.error, r.ran_at, r.process_after,
		a.client_id, a.name AS automation_name, a.automation_key,
		a.config AS automation_config
	FROM
		"public"."automation_runs" r
	JOIN
		"public"."automations" a ON a.id = r.automation_id
	WHERE
		a.client_id = :client_id
		AND r.status = :status
	ORDER BY
		r.ran_at DESC NULLS LAST`

	var dbDs []draft
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, data, &dbDs); err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}

	return toBusDrafts(dbDs), nil
}

// QueryRuns returns up to limit runs of the automation, newest first.
func (s *Store) QueryRuns(ctx context.Context, automationID uuid.UUID, limit int) ([]automationbus.Run, error) {
	data := struct {
		AutomationID string `db:"automation_id"`
		Limit        int    `db:"limit"`
	}{
		AutomationID: automationID.String(),
		Limit:        limit,
	}

	const q = `
	SELECT
		id, automation_id, status, draft_content, payload,
		input_summary, output_summary, error, ran_at, process_after
	FROM
		"public"."automation_runs"
	WHERE
		automation_id = :automation_id
	ORDER BY
		ran_at DESC NULLS LAST
	LIMIT :limit`

	var dbRs []run
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, data, &dbRs); err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}

	return toBusRuns(dbRs), nil
}

// SetEnabled flips is_enabled only on a row the client owns. It reports
// false when nothing matched.
func (s *Store) SetEnabled(ctx context.Context, automationID uuid.UUID, clientID uuid.UUID, enabled bool) (bool, error) {
	data := struct {
		ID        string `db:"id"`
		ClientID  string `db:"client_id"`
		IsEnabled bool   `db:"is_enabled"`
	}{
		ID:        automationID.String(),
		ClientID:  clientID.String(),
		IsEnabled: enabled,
	}

	const q = `
	UPDATE
		"public"."automations"
	SET
		is_enabled = :is_enabled
	WHERE
		id = :id
		AND client_id = :client_id`

	n, err := sqldb.NamedExecContextWithCount(ctx, s.log, s.db, q, data)
	if err != nil {
		return false, fmt.Errorf("namedexeccontext: %w", err)
	}

	return n > 0, nil
}

// Update writes name and config on a row the client owns.
func (s *Store) Update(ctx context.Context, a automationbus.Automation) (bool, error) {
	data := struct {
		ID       string `db:"id"`
		ClientID string `db:"client_id"`
		Name     string `db:"name"`
		Config   string `db:"config"`
	}{
		ID:       a.ID.String(),
		ClientID: a.ClientID.String(),
		Name:     a.Name,
		Config:   string(a.Config),
	}

	if data.Config == "" {
		data.Config = "{}"
	}

	const q = `
	UPDATE
		"public"."automations"
	SET
		name = :name,
		config = :config
	WHERE
		id = :id
		AND client_id = :client_id`

	n, err := sqldb.NamedExecContextWithCount(ctx, s.log, s.db, q, data)
	if err != nil {
		return false, fmt.Errorf("namedexeccontext: %w", err)
	}

	return n > 0, nil
}

// Approve moves a pending run of one of the client's automations to
// approved. A nil draftContent keeps the stored draft.
func (s *Store) Approve(ctx context.Context, runID uuid.UUID, clientID uuid.UUID, draftContent *string, processAfter time.Time) (bool, error) {
	data := struct {
		ID           string         `db:"id"`
		ClientID     string         `db:"client_id"`
		Pending      string         `db:"pending"`
		Status       string         `db:"status"`
		DraftContent sql.NullString `db:"draft_content"`
		ProcessAfter time.Time      `db:"process_after"`
	}{
		ID:           runID.String(),
		ClientID:     clientID.String(),
		Pending:      runstatus.PendingApproval.String(),
		Status:       runstatus.Approved.String(),
		ProcessAfter: processAfter.UTC(),
	}

	if draftContent != nil {
		data.DraftContent = sql.NullString{String: *draftContent, Valid: true}
	}

	const q = `
	UPDATE
		"public"."automation_runs" r
	SET
		status = :status,
		draft_content = COALESCE(:draft_content, r.draft_content),
		process_after = :process_after
	FROM
		"public"."automations" a
	WHERE
		r.id = :id
		AND r.automation_id = a.id
		AND a.client_id = :client_id
		AND r.status = :pending`

	n, err := sqldb.NamedExecContextWithCount(ctx, s.log, s.db, q, data)
	if err != nil {
		return false, fmt.Errorf("namedexeccontext: %w", err)
	}

	return n > 0, nil
}

// Reject moves a pending run of one of the client's automations to rejected.
func (s *Store) Reject(ctx context.Context, runID uuid.UUID, clientID uuid.UUID) (bool, error) {
	data := struct {
		ID       string `db:"id"`
		ClientID string `db:"client_id"`
		Pending  string `db:"pending"`
		Status   string `db:"status"`
	}{
		ID:       runID.String(),
		ClientID: clientID.String(),
		Pending:  runstatus.PendingApproval.String(),
		Status:   runstatus.Rejected.String(),
	}

	const q = `
	UPDATE
		"public"."automation_runs" r
	SET
		status = :status
	FROM
		"public"."automations" a
	WHERE
		r.id = :id
		AND r.automation_id = a.id
		AND a.client_id = :client_id
		AND r.status = :pending`

	n, err := sqldb.NamedExecContextWithCount(ctx, s.log, s.db, q, data)
	if err != nil {
		return false, fmt.Errorf("namedexeccontext: %w", err)
	}

	return n > 0, nil
}
