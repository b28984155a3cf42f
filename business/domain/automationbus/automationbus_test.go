package automationbus_test

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/automationbus"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/sqldb"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/types/runstatus"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/logger"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/notify"
)

// memStore keeps automations and runs in memory and applies the client
// predicates the database store applies.
type memStore struct {
	autos      map[uuid.UUID]automationbus.Automation
	runs       map[uuid.UUID]automationbus.Run
	leakDrafts []automationbus.Draft
	lastLimit  int
}

func newMemStore() *memStore {
	return &memStore{
		autos: make(map[uuid.UUID]automationbus.Automation),
		runs:  make(map[uuid.UUID]automationbus.Run),
	}
}

func (m *memStore) NewWithTx(tx sqldb.CommitRollbacker) (automationbus.Storer, error) {
	return m, nil
}

func (m *memStore) QueryByID(ctx context.Context, id uuid.UUID, clientID uuid.UUID) (automationbus.Automation, error) {
	a, ok := m.autos[id]
	if !ok || a.ClientID != clientID {
		return automationbus.Automation{}, automationbus.ErrNotFound
	}
	return a, nil
}

func (m *memStore) QueryByClientID(ctx context.Context, clientID uuid.UUID) ([]automationbus.Automation, error) {
	var as []automationbus.Automation
	for _, a := range m.autos {
		if a.ClientID == clientID {
			as = append(as, a)
		}
	}
	return as, nil
}

func (m *memStore) QueryDrafts(ctx context.Context, clientID uuid.UUID) ([]automationbus.Draft, error) {
	var ds []automationbus.Draft
	for _, r := range m.runs {
		a := m.autos[r.AutomationID]
		if r.Status.Equal(runstatus.PendingApproval) && a.ClientID == clientID {
			ds = append(ds, automationbus.Draft{Run: r, ClientID: a.ClientID, AutomationName: a.Name})
		}
	}
	return append(ds, m.leakDrafts...), nil
}

func (m *memStore) QueryRuns(ctx context.Context, automationID uuid.UUID, limit int) ([]automationbus.Run, error) {
	m.lastLimit = limit
	return nil, nil
}

func (m *memStore) SetEnabled(ctx context.Context, id uuid.UUID, clientID uuid.UUID, enabled bool) (bool, error) {
	a, ok := m.autos[id]
	if !ok || a.ClientID != clientID {
		return false, nil
	}
	a.IsEnabled = enabled
	m.autos[id] = a
	return true, nil
}

func (m *memStore) Update(ctx context.Context, a automationbus.Automation) (bool, error) {
	cur, ok := m.autos[a.ID]
	if !ok || cur.ClientID != a.ClientID {
		return false, nil
	}
	m.autos[a.ID] = a
	return true, nil
}

func (m *memStore) transition(runID uuid.UUID, clientID uuid.UUID, to runstatus.Status) (automationbus.Run, bool) {
	r, ok := m.runs[runID]
	if !ok || !r.Status.Equal(runstatus.PendingApproval) || m.autos[r.AutomationID].ClientID != clientID {
		return automationbus.Run{}, false
	}
	r.Status = to
	return r, true
}

func (m *memStore) Approve(ctx context.Context, runID uuid.UUID, clientID uuid.UUID, content *string, at time.Time) (bool, error) {
	r, ok := m.transition(runID, clientID, runstatus.Approved)
	if !ok {
		return false, nil
	}
	if content != nil {
		r.DraftContent = *content
	}
	r.ProcessAfter = at
	m.runs[runID] = r
	return true, nil
}

func (m *memStore) Reject(ctx context.Context, runID uuid.UUID, clientID uuid.UUID) (bool, error) {
	r, ok := m.transition(runID, clientID, runstatus.Rejected)
	if !ok {
		return false, nil
	}
	m.runs[runID] = r
	return true, nil
}

type recorder struct {
	msgs []notify.Message
}

func (r *recorder) Send(_ context.Context, msg notify.Message) {
	r.msgs = append(r.msgs, msg)
}

type fixture struct {
	store   *memStore
	sender  *recorder
	core    *automationbus.Core
	clientA uuid.UUID
	clientB uuid.UUID
	autoA   automationbus.Automation
	autoB   automationbus.Automation
	runA    automationbus.Run
	runB    automationbus.Run
}

func newFixture() fixture {
	f := fixture{
		store:   newMemStore(),
		sender:  &recorder{},
		clientA: uuid.New(),
		clientB: uuid.New(),
	}

	f.autoA = automationbus.Automation{ID: uuid.New(), ClientID: f.clientA, Key: "review-reply", Name: "Review replies"}
	f.autoB = automationbus.Automation{ID: uuid.New(), ClientID: f.clientB, Key: "weekly-post", Name: "Weekly post"}
	f.store.autos[f.autoA.ID] = f.autoA
	f.store.autos[f.autoB.ID] = f.autoB

	f.runA = automationbus.Run{ID: uuid.New(), AutomationID: f.autoA.ID, Status: runstatus.PendingApproval, DraftContent: "Thanks!"}
	f.runB = automationbus.Run{ID: uuid.New(), AutomationID: f.autoB.ID, Status: runstatus.PendingApproval}
	f.store.runs[f.runA.ID] = f.runA
	f.store.runs[f.runB.ID] = f.runB

	f.core = automationbus.NewCore(logger.New(io.Discard, logger.LevelInfo, "TEST", nil), f.store, f.sender)

	return f
}

func TestToggle_ForeignClientIsNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	err := f.core.Toggle(ctx, f.autoA.ID, f.clientB, true)
	require.ErrorIs(t, err, automationbus.ErrNotFound)
	assert.False(t, f.store.autos[f.autoA.ID].IsEnabled, "foreign toggle must not change storage")

	err = f.core.Toggle(ctx, uuid.New(), f.clientA, true)
	assert.ErrorIs(t, err, automationbus.ErrNotFound)

	require.NoError(t, f.core.Toggle(ctx, f.autoA.ID, f.clientA, true))
	assert.True(t, f.store.autos[f.autoA.ID].IsEnabled)
}

func TestQueryDrafts_DropsForeignRuns(t *testing.T) {
	f := newFixture()

	f.store.leakDrafts = []automationbus.Draft{{Run: f.runB, ClientID: f.clientB}}

	drafts, err := f.core.QueryDrafts(context.Background(), f.clientA)
	require.NoError(t, err)

	require.Len(t, drafts, 1)
	assert.Equal(t, f.runA.ID, drafts[0].ID)
	assert.Equal(t, "Review replies", drafts[0].AutomationName)
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-1, 20},
		{0, 20},
		{1, 1},
		{20, 20},
		{50, 50},
		{51, 50},
		{1000, 50},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, automationbus.ClampLimit(tt.in), "limit %d", tt.in)
	}
}

func TestQueryRuns_ClampsLimit(t *testing.T) {
	f := newFixture()

	_, err := f.core.QueryRuns(context.Background(), f.autoA.ID, 500)
	require.NoError(t, err)
	assert.Equal(t, automationbus.MaxRunsLimit, f.store.lastLimit)
}

func TestApproveDraft(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	edited := "Thank you so much!"

	err := f.core.ApproveDraft(ctx, f.runA.ID, f.clientB, automationbus.Approval{DraftContent: &edited})
	require.ErrorIs(t, err, automationbus.ErrNotFound)
	assert.Empty(t, f.sender.msgs)

	require.NoError(t, f.core.ApproveDraft(ctx, f.runA.ID, f.clientA, automationbus.Approval{DraftContent: &edited}))

	got := f.store.runs[f.runA.ID]
	assert.True(t, got.Status.Equal(runstatus.Approved))
	assert.Equal(t, edited, got.DraftContent)
	assert.False(t, got.ProcessAfter.IsZero())
	assert.Len(t, f.sender.msgs, 1)

	err = f.core.ApproveDraft(ctx, f.runA.ID, f.clientA, automationbus.Approval{})
	assert.ErrorIs(t, err, automationbus.ErrNotFound, "an approved run is no longer pending")
}

func TestRejectDraft(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.ErrorIs(t, f.core.RejectDraft(ctx, f.runB.ID, f.clientA), automationbus.ErrNotFound)
	require.NoError(t, f.core.RejectDraft(ctx, f.runB.ID, f.clientB))
	assert.True(t, f.store.runs[f.runB.ID].Status.Equal(runstatus.Rejected))
}

func TestUpdate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	name := "Renamed"
	cfg := json.RawMessage(`{"tone":"friendly"}`)

	_, err := f.core.Update(ctx, f.autoA.ID, f.clientB, automationbus.UpdateAutomation{Name: &name})
	require.ErrorIs(t, err, automationbus.ErrNotFound)

	a, err := f.core.Update(ctx, f.autoA.ID, f.clientA, automationbus.UpdateAutomation{Name: &name, Config: cfg})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", a.Name)
	assert.JSONEq(t, `{"tone":"friendly"}`, string(f.store.autos[f.autoA.ID].Config))
}
