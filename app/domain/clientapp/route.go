package clientapp

import (
	"net/http"

	"github.com/victor-shvetsov/getd-cmd-sub002/app/sdk/auth"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/sdk/mid"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/clientbus"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/sqldb"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/web"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/logger"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log       *logger.Logger
	Auth      *auth.Auth
	Beginner  sqldb.Beginner
	ClientBus *clientbus.Core
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	const group = "api"

	authen := mid.Authenticate(cfg.Auth)
	transaction := mid.BeginCommitRollback(cfg.Log, cfg.Beginner)

	api := newApp(cfg.ClientBus)

	app.HandlerFunc(http.MethodGet, group, "/admin/clients/{client_id}", api.queryByID, authen)
	app.HandlerFunc(http.MethodPut, group, "/admin/clients/{client_id}", api.update, authen, transaction)
	app.HandlerFunc(http.MethodPost, group, "/admin/clients/migrate-pins", api.migratePINs, authen)

	app.HandlerFunc(http.MethodGet, group, "/clients/{slug}", api.branding)
	app.HandlerFunc(http.MethodPost, group, "/clients/{slug}/verify-pin", api.verifyPIN)
}
