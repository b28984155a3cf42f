// Package authapp maintains the app layer api for the admin login.
package authapp

import (
	"context"
	"net/http"

	"github.com/victor-shvetsov/getd-cmd-sub002/app/sdk/auth"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/sdk/errs"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/web"
)

type app struct {
	auth *auth.Auth
}

func newApp(auth *auth.Auth) *app {
	return &app{
		auth: auth,
	}
}

// login exchanges the admin password for the bearer token.
func (a *app) login(ctx context.Context, r *http.Request) web.Encoder {
	var req Login
	if err := web.Decode(r, &req); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	token, err := a.auth.Login(req.Password)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	return toAppToken(token)
}

// status reports whether the request carries a valid admin token. It never
// fails.
func (a *app) status(ctx context.Context, r *http.Request) web.Encoder {
	return Status{
		Authenticated: a.auth.Check(r.Header.Get("authorization")),
	}
}
