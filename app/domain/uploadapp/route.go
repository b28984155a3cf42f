package uploadapp

import (
	"net/http"

	"github.com/victor-shvetsov/getd-cmd-sub002/app/sdk/auth"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/sdk/mid"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/assetbus"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/web"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Auth         *auth.Auth
	LogoBus      *assetbus.Core
	KnowledgeBus *assetbus.Core
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	const group = "api"

	authen := mid.Authenticate(cfg.Auth)

	logo := newApp(cfg.LogoBus)
	knowledge := newApp(cfg.KnowledgeBus)

	app.HandlerFunc(http.MethodPost, group, "/admin/upload", logo.upload, authen)
	app.HandlerFunc(http.MethodPost, group, "/admin/knowledge/upload", knowledge.upload, authen)
}
