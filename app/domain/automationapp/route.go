package automationapp

import (
	"net/http"

	"github.com/victor-shvetsov/getd-cmd-sub002/app/sdk/auth"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/sdk/mid"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/automationbus"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/web"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Auth          *auth.Auth
	AutomationBus *automationbus.Core
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	const group = "api"

	authen := mid.Authenticate(cfg.Auth)

	api := newApp(cfg.AutomationBus)

	// Client facing, scoped by the client id in the request.
	app.HandlerFunc(http.MethodGet, group, "/automations/drafts", api.queryDrafts)
	app.HandlerFunc(http.MethodPost, group, "/automations/toggle", api.toggle)
	app.HandlerFunc(http.MethodPost, group, "/automations/drafts/approve", api.approveDraft)
	app.HandlerFunc(http.MethodPost, group, "/automations/drafts/reject", api.rejectDraft)

	app.HandlerFunc(http.MethodGet, group, "/automations/runs", api.queryRuns, authen)
	app.HandlerFunc(http.MethodGet, group, "/admin/clients/{client_id}/automations", api.queryByClientID, authen)
	app.HandlerFunc(http.MethodPut, group, "/admin/automations/{automation_id}", api.update, authen)
}
