// Package automationbus provides business access to automations and their
// runs. Every write is scoped to the owning client.
package automationbus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/sqldb"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/logger"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/notify"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/otel"
)

// Bounds for the page size of a runs listing.
const (
	DefaultRunsLimit = 20
	MaxRunsLimit     = 50
)

// ErrNotFound is returned both when a row does not exist and when it
// belongs to another client.
var ErrNotFound = errors.New("not found or not authorized")

// Storer interface declares the behavior this package needs to persist and
// retrieve data.
type Storer interface {
	NewWithTx(tx sqldb.CommitRollbacker) (Storer, error)
	QueryByID(ctx context.Context, automationID uuid.UUID, clientID uuid.UUID) (Automation, error)
	QueryByClientID(ctx context.Context, clientID uuid.UUID) ([]Automation, error)
	QueryDrafts(ctx context.Context, clientID uuid.UUID) ([]Draft, error)
	QueryRuns(ctx context.Context, automationID uuid.UUID, limit int) ([]Run, error)
	SetEnabled(ctx context.Context, automationID uuid.UUID, clientID uuid.UUID, enabled bool) (bool, error)
	Update(ctx context.Context, a Automation) (bool, error)
	Approve(ctx context.Context, runID uuid.UUID, clientID uuid.UUID, draftContent *string, processAfter time.Time) (bool, error)
	Reject(ctx context.Context, runID uuid.UUID, clientID uuid.UUID) (bool, error)
}

// Core manages the set of APIs for automation access.
type Core struct {
	log    *logger.Logger
	storer Storer
	sender notify.Sender
}

// NewCore constructs an automation core API for use.
func NewCore(log *logger.Logger, storer Storer, sender notify.Sender) *Core {
	if sender == nil {
		sender = notify.Nop{}
	}

	return &Core{
		log:    log,
		storer: storer,
		sender: sender,
	}
}

// NewWithTx constructs a new Core value replacing the Storer
// value with a Storer value that is currently inside a transaction.
func (c *Core) NewWithTx(tx sqldb.CommitRollbacker) (*Core, error) {
	storer, err := c.storer.NewWithTx(tx)
	if err != nil {
		return nil, fmt.Errorf("newWithTx: %w", err)
	}

	return NewCore(c.log, storer, c.sender), nil
}

// QueryDrafts returns the runs pending approval for the client. The owner
// read from the join is checked again here so a run of another client never
// leaks even when the query is wrong.
func (c *Core) QueryDrafts(ctx context.Context, clientID uuid.UUID) ([]Draft, error) {
	ctx, span := otel.AddSpan(ctx, "business.automationbus.querydrafts")
	defer span.End()

	drafts, err := c.storer.QueryDrafts(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("query: clientID[%s]: %w", clientID, err)
	}

	owned := make([]Draft, 0, len(drafts))
	for _, d := range drafts {
		if d.ClientID != clientID {
			c.log.Warn(ctx, "query drafts: dropped foreign run", "runID", d.ID, "clientID", clientID, "ownerID", d.ClientID)
			continue
		}
		owned = append(owned, d)
	}

	return owned, nil
}

// ClampLimit bounds a requested page size for a runs listing.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultRunsLimit
	case limit > MaxRunsLimit:
		return MaxRunsLimit
	}

	return limit
}

// QueryRuns returns the latest runs of an automation, newest first.
func (c *Core) QueryRuns(ctx context.Context, automationID uuid.UUID, limit int) ([]Run, error) {
	ctx, span := otel.AddSpan(ctx, "business.automationbus.queryruns")
	defer span.End()

	runs, err := c.storer.QueryRuns(ctx, automationID, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query: automationID[%s]: %w", automationID, err)
	}

	return runs, nil
}

// QueryByClientID returns the automations of a client.
func (c *Core) QueryByClientID(ctx context.Context, clientID uuid.UUID) ([]Automation, error) {
	ctx, span := otel.AddSpan(ctx, "business.automationbus.querybyclientid")
	defer span.End()

	autos, err := c.storer.QueryByClientID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("query: clientID[%s]: %w", clientID, err)
	}

	return autos, nil
}

// Toggle turns an automation on or off when it belongs to the client.
func (c *Core) Toggle(ctx context.Context, automationID uuid.UUID, clientID uuid.UUID, enabled bool) error {
	ctx, span := otel.AddSpan(ctx, "business.automationbus.toggle")
	defer span.End()

	ok, err := c.storer.SetEnabled(ctx, automationID, clientID, enabled)
	if err != nil {
		return fmt.Errorf("set enabled: automationID[%s]: %w", automationID, err)
	}

	if !ok {
		return fmt.Errorf("set enabled: automationID[%s]: %w", automationID, ErrNotFound)
	}

	return nil
}

// Update modifies the name or config of an automation owned by the client.
func (c *Core) Update(ctx context.Context, automationID uuid.UUID, clientID uuid.UUID, ua UpdateAutomation) (Automation, error) {
	ctx, span := otel.AddSpan(ctx, "business.automationbus.update")
	defer span.End()

	a, err := c.storer.QueryByID(ctx, automationID, clientID)
	if err != nil {
		return Automation{}, fmt.Errorf("query: automationID[%s]: %w", automationID, err)
	}

	if ua.Name != nil {
		a.Name = *ua.Name
	}

	if ua.Config != nil {
		a.Config = ua.Config
	}

	ok, err := c.storer.Update(ctx, a)
	if err != nil {
		return Automation{}, fmt.Errorf("update: automationID[%s]: %w", automationID, err)
	}

	if !ok {
		return Automation{}, fmt.Errorf("update: automationID[%s]: %w", automationID, ErrNotFound)
	}

	return a, nil
}

// ApproveDraft moves a pending run of the client to approved and schedules
// it for processing now. The agency is told about it on a best effort basis.
func (c *Core) ApproveDraft(ctx context.Context, runID uuid.UUID, clientID uuid.UUID, ap Approval) error {
	ctx, span := otel.AddSpan(ctx, "business.automationbus.approvedraft")
	defer span.End()

	ok, err := c.storer.Approve(ctx, runID, clientID, ap.DraftContent, time.Now())
	if err != nil {
		return fmt.Errorf("approve: runID[%s]: %w", runID, err)
	}

	if !ok {
		return fmt.Errorf("approve: runID[%s]: %w", runID, ErrNotFound)
	}

	c.sender.Send(ctx, notify.Message{
		Subject: "Draft approved",
		Text:    fmt.Sprintf("Client %s approved draft %s.", clientID, runID),
	})

	return nil
}

// RejectDraft moves a pending run of the client to rejected.
func (c *Core) RejectDraft(ctx context.Context, runID uuid.UUID, clientID uuid.UUID) error {
	ctx, span := otel.AddSpan(ctx, "business.automationbus.rejectdraft")
	defer span.End()

	ok, err := c.storer.Reject(ctx, runID, clientID)
	if err != nil {
		return fmt.Errorf("reject: runID[%s]: %w", runID, err)
	}

	if !ok {
		return fmt.Errorf("reject: runID[%s]: %w", runID, ErrNotFound)
	}

	return nil
}
