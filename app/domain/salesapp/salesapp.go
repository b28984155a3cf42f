// Package salesapp maintains the app layer api for the sales sync summary.
package salesapp

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/sdk/auth"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/sdk/errs"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/sdk/mid"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/salesbus"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/web"
)

type app struct {
	salesBus *salesbus.Core
}

func newApp(salesBus *salesbus.Core) *app {
	return &app{
		salesBus: salesBus,
	}
}

func (a *app) syncInfo(ctx context.Context, r *http.Request) web.Encoder {
	clientID, err := uuid.Parse(web.Param(r, "client_id"))
	if err != nil {
		return errs.NewFieldErrors("client_id", err)
	}

	info, err := a.salesBus.QuerySyncInfo(ctx, clientID)
	if err != nil {
		return errs.Errorf(errs.Internal, "sync info: %s", err)
	}

	return toAppSyncInfo(info)
}

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Auth     *auth.Auth
	SalesBus *salesbus.Core
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	const group = "api"

	api := newApp(cfg.SalesBus)

	app.HandlerFunc(http.MethodGet, group, "/admin/clients/{client_id}/sync-info", api.syncInfo, mid.Authenticate(cfg.Auth))
}
