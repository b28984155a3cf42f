package authapp

import (
	"net/http"

	"github.com/victor-shvetsov/getd-cmd-sub002/app/sdk/auth"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/web"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Auth *auth.Auth
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	const group = "api"

	api := newApp(cfg.Auth)

	app.HandlerFunc(http.MethodPost, group, "/admin/auth", api.login)
	app.HandlerFunc(http.MethodGet, group, "/admin/auth", api.status)
}
