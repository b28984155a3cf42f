// Package subscriptionapp maintains the app layer api for subscriptions.
package subscriptionapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/sdk/errs"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/subscriptionbus"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/web"
)

// AcceptTerms identifies the subscription whose terms are accepted.
type AcceptTerms struct {
	SubscriptionID string `json:"subscriptionId" validate:"required,uuid"`
}

// Decode implements the web.Decoder interface.
func (app *AcceptTerms) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app AcceptTerms) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("validate: %w", err))
	}
	return nil
}

// Accepted is returned once the terms are on record.
type Accepted struct {
	OK bool `json:"ok"`
}

// Encode implements the web.Encoder interface.
func (app Accepted) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

// =============================================================================

type app struct {
	subscriptionBus *subscriptionbus.Core
}

func newApp(subscriptionBus *subscriptionbus.Core) *app {
	return &app{
		subscriptionBus: subscriptionBus,
	}
}

func (a *app) acceptTerms(ctx context.Context, r *http.Request) web.Encoder {
	var app AcceptTerms
	if err := web.Decode(r, &app); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	err := a.subscriptionBus.AcceptTerms(ctx, uuid.MustParse(app.SubscriptionID))
	if err != nil {
		switch {
		case errors.Is(err, subscriptionbus.ErrNotFound):
			return errs.New(errs.NotFound, subscriptionbus.ErrNotFound)
		case errors.Is(err, subscriptionbus.ErrNoTerms):
			return errs.New(errs.FailedPrecondition, subscriptionbus.ErrNoTerms)
		}
		return errs.Errorf(errs.Internal, "accept terms: %s", err)
	}

	return Accepted{OK: true}
}

// =============================================================================

// Config contains all the mandatory systems required by handlers.
type Config struct {
	SubscriptionBus *subscriptionbus.Core
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	const group = "api"

	api := newApp(cfg.SubscriptionBus)

	app.HandlerFunc(http.MethodPost, group, "/subscribe/accept-terms", api.acceptTerms)
}
