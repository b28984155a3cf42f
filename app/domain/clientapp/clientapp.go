// Package clientapp maintains the app layer api for the client domain.
package clientapp

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/sdk/errs"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/sdk/mid"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/clientbus"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/web"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/types/slug"
)

type app struct {
	clientBus *clientbus.Core
}

func newApp(clientBus *clientbus.Core) *app {
	return &app{
		clientBus: clientBus,
	}
}

func parseClientID(r *http.Request) (uuid.UUID, *errs.Error) {
	clientID, err := uuid.Parse(web.Param(r, "client_id"))
	if err != nil {
		return uuid.Nil, errs.NewFieldErrors("client_id", err)
	}

	return clientID, nil
}

func parseSlug(r *http.Request) (string, *errs.Error) {
	s, err := slug.Parse(web.Param(r, "slug"))
	if err != nil {
		return "", errs.NewFieldErrors("slug", err)
	}

	return s.String(), nil
}

func (a *app) queryByID(ctx context.Context, r *http.Request) web.Encoder {
	clientID, appErr := parseClientID(r)
	if appErr != nil {
		return appErr
	}

	clt, err := a.clientBus.QueryByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, clientbus.ErrNotFound) {
			return errs.New(errs.NotFound, clientbus.ErrNotFound)
		}
		return errs.Errorf(errs.Internal, "querybyid: clientID[%s]: %s", clientID, err)
	}

	return toAppClient(clt)
}

// update runs inside the request transaction.
func (a *app) update(ctx context.Context, r *http.Request) web.Encoder {
	var app UpdateClient
	if err := web.Decode(r, &app); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	clientID, appErr := parseClientID(r)
	if appErr != nil {
		return appErr
	}

	uc, err := toBusUpdateClient(app)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	tx, err := mid.GetTran(ctx)
	if err != nil {
		return errs.Errorf(errs.Internal, "transaction missing in context: %s", err)
	}

	clientBus, err := a.clientBus.NewWithTx(tx)
	if err != nil {
		return errs.Errorf(errs.Internal, "newwithtx: %s", err)
	}

	clt, err := clientBus.QueryByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, clientbus.ErrNotFound) {
			return errs.New(errs.NotFound, clientbus.ErrNotFound)
		}
		return errs.Errorf(errs.Internal, "querybyid: clientID[%s]: %s", clientID, err)
	}

	updClt, err := clientBus.Update(ctx, clt, uc)
	if err != nil {
		if errors.Is(err, clientbus.ErrNotFound) {
			return errs.New(errs.NotFound, clientbus.ErrNotFound)
		}
		return errs.Errorf(errs.Internal, "update: clientID[%s]: %s", clientID, err)
	}

	return toAppClient(updClt)
}

func (a *app) migratePINs(ctx context.Context, r *http.Request) web.Encoder {
	n, err := a.clientBus.MigratePINs(ctx)
	if err != nil {
		return errs.Errorf(errs.Internal, "migrate pins: migrated[%d]: %s", n, err)
	}

	return Migrated{Migrated: n}
}

func (a *app) branding(ctx context.Context, r *http.Request) web.Encoder {
	s, appErr := parseSlug(r)
	if appErr != nil {
		return appErr
	}

	b, err := a.clientBus.QueryBranding(ctx, s)
	if err != nil {
		if errors.Is(err, clientbus.ErrNotFound) {
			return errs.New(errs.NotFound, clientbus.ErrNotFound)
		}
		return errs.Errorf(errs.Internal, "branding: slug[%s]: %s", s, err)
	}

	return toAppBranding(b)
}

func (a *app) verifyPIN(ctx context.Context, r *http.Request) web.Encoder {
	var app VerifyPIN
	if err := web.Decode(r, &app); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	s, appErr := parseSlug(r)
	if appErr != nil {
		return appErr
	}

	ok, err := a.clientBus.VerifyPIN(ctx, s, app.PIN)
	if err != nil {
		if errors.Is(err, clientbus.ErrNotFound) {
			return errs.New(errs.NotFound, clientbus.ErrNotFound)
		}
		return errs.Errorf(errs.Internal, "verify pin: slug[%s]: %s", s, err)
	}

	return Verified{OK: ok}
}
