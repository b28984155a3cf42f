// Package automationapp maintains the app layer api for automations and
// their drafts.
package automationapp

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/sdk/errs"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/automationbus"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/web"
)

type app struct {
	automationBus *automationbus.Core
}

func newApp(automationBus *automationbus.Core) *app {
	return &app{
		automationBus: automationBus,
	}
}

func notFoundOr(err error, format string, v ...any) *errs.Error {
	if errors.Is(err, automationbus.ErrNotFound) {
		return errs.New(errs.NotFound, automationbus.ErrNotFound)
	}

	return errs.Errorf(errs.Internal, format, v...)
}

func (a *app) queryDrafts(ctx context.Context, r *http.Request) web.Encoder {
	clientID, err := uuid.Parse(r.URL.Query().Get("clientId"))
	if err != nil {
		return errs.NewFieldErrors("clientId", err)
	}

	drafts, err := a.automationBus.QueryDrafts(ctx, clientID)
	if err != nil {
		return errs.Errorf(errs.Internal, "query drafts: %s", err)
	}

	return toAppDrafts(drafts)
}

func (a *app) queryRuns(ctx context.Context, r *http.Request) web.Encoder {
	qp := r.URL.Query()

	automationID, err := uuid.Parse(qp.Get("automation_id"))
	if err != nil {
		return errs.NewFieldErrors("automation_id", err)
	}

	var limit int
	if v := qp.Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil {
			return errs.NewFieldErrors("limit", err)
		}
	}

	runs, err := a.automationBus.QueryRuns(ctx, automationID, limit)
	if err != nil {
		return errs.Errorf(errs.Internal, "query runs: %s", err)
	}

	return toAppRuns(runs)
}

func (a *app) queryByClientID(ctx context.Context, r *http.Request) web.Encoder {
	clientID, err := uuid.Parse(web.Param(r, "client_id"))
	if err != nil {
		return errs.NewFieldErrors("client_id", err)
	}

	autos, err := a.automationBus.QueryByClientID(ctx, clientID)
	if err != nil {
		return errs.Errorf(errs.Internal, "query automations: %s", err)
	}

	return toAppAutomations(autos)
}

func (a *app) toggle(ctx context.Context, r *http.Request) web.Encoder {
	var app Toggle
	if err := web.Decode(r, &app); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	automationID := uuid.MustParse(app.AutomationID)
	clientID := uuid.MustParse(app.ClientID)

	if err := a.automationBus.Toggle(ctx, automationID, clientID, *app.IsEnabled); err != nil {
		return notFoundOr(err, "toggle: %s", err)
	}

	return Toggled{OK: true, IsEnabled: *app.IsEnabled}
}

func (a *app) approveDraft(ctx context.Context, r *http.Request) web.Encoder {
	var app DraftDecision
	if err := web.Decode(r, &app); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	runID := uuid.MustParse(app.RunID)
	clientID := uuid.MustParse(app.ClientID)

	ap := automationbus.Approval{DraftContent: app.DraftContent}

	if err := a.automationBus.ApproveDraft(ctx, runID, clientID, ap); err != nil {
		return notFoundOr(err, "approve: %s", err)
	}

	return OK{OK: true}
}

func (a *app) rejectDraft(ctx context.Context, r *http.Request) web.Encoder {
	var app DraftDecision
	if err := web.Decode(r, &app); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	runID := uuid.MustParse(app.RunID)
	clientID := uuid.MustParse(app.ClientID)

	if err := a.automationBus.RejectDraft(ctx, runID, clientID); err != nil {
		return notFoundOr(err, "reject: %s", err)
	}

	return OK{OK: true}
}

func (a *app) update(ctx context.Context, r *http.Request) web.Encoder {
	var app UpdateAutomation
	if err := web.Decode(r, &app); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	automationID, err := uuid.Parse(web.Param(r, "automation_id"))
	if err != nil {
		return errs.NewFieldErrors("automation_id", err)
	}

	clientID, ua := toBusUpdateAutomation(app)

	auto, err := a.automationBus.Update(ctx, automationID, clientID, ua)
	if err != nil {
		return notFoundOr(err, "update: %s", err)
	}

	return toAppAutomation(auto)
}
