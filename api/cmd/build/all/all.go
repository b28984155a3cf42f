// Package all binds all the routes into the specified app.
package all

import (
	"github.com/victor-shvetsov/getd-cmd-sub002/app/domain/authapp"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/domain/automationapp"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/domain/checkapp"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/domain/clientapp"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/domain/salesapp"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/domain/subscriptionapp"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/domain/uploadapp"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/sdk/mux"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/assetbus"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/automationbus"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/automationbus/stores/automationdb"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/clientbus"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/clientbus/stores/clientcache"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/clientbus/stores/clientdb"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/salesbus"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/salesbus/stores/salesdb"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/subscriptionbus"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/subscriptionbus/stores/subscriptiondb"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/sqldb"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/web"
)

// Routes constructs the add value which provides the implementation of
// of RouteAdder for specifying what routes to bind to this instance.
func Routes() add {
	return add{}
}

type add struct{}

// Add implements the RouteAdder interface.
func (add) Add(app *web.App, cfg mux.Config) {

	// Construct the business domain packages we need here so we are using the
	// sames instances for the different set of domain apis.
	clientBus := clientbus.NewCore(cfg.Log, clientcache.NewStore(cfg.Log, clientdb.NewStore(cfg.Log, cfg.DB), cfg.BrandingCache))
	automationBus := automationbus.NewCore(cfg.Log, automationdb.NewStore(cfg.Log, cfg.DB), cfg.Notifier)
	salesBus := salesbus.NewCore(cfg.Log, salesdb.NewStore(cfg.Log, cfg.DB))
	subscriptionBus := subscriptionbus.NewCore(cfg.Log, subscriptiondb.NewStore(cfg.Log, cfg.DB), cfg.Notifier)
	logoBus := assetbus.NewCore(cfg.Log, cfg.Blob, assetbus.LogoPolicy)
	knowledgeBus := assetbus.NewCore(cfg.Log, cfg.Blob, assetbus.KnowledgePolicy)

	checkapp.Routes(app, checkapp.Config{
		Build: cfg.Build,
		Log:   cfg.Log,
		DB:    cfg.DB,
	})

	authapp.Routes(app, authapp.Config{
		Auth: cfg.Auth,
	})

	clientapp.Routes(app, clientapp.Config{
		Log:       cfg.Log,
		Auth:      cfg.Auth,
		Beginner:  sqldb.NewBeginner(cfg.DB),
		ClientBus: clientBus,
	})

	automationapp.Routes(app, automationapp.Config{
		Auth:          cfg.Auth,
		AutomationBus: automationBus,
	})

	salesapp.Routes(app, salesapp.Config{
		Auth:     cfg.Auth,
		SalesBus: salesBus,
	})

	subscriptionapp.Routes(app, subscriptionapp.Config{
		SubscriptionBus: subscriptionBus,
	})

	uploadapp.Routes(app, uploadapp.Config{
		Auth:         cfg.Auth,
		LogoBus:      logoBus,
		KnowledgeBus: knowledgeBus,
	})
}
