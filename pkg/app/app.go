// Package app assembles the HTTP kernel and process lifecycle.
//
//	app.New().
//	    Authenticator(signer, session.OptionsFor(config.IsProduction())).
//	    Routes(routes.API(deps)).
//	    Serve(ctx)
package app

import (
	"context"
	"net/http"

	"github.com/neubistro/bistro/config"
	"github.com/neubistro/bistro/internal/server"
	"github.com/neubistro/bistro/pkg/middleware"
	"github.com/neubistro/bistro/pkg/router"
	"github.com/neubistro/bistro/pkg/session"
)

// Application collects route registrations and the session verifier, then
// builds the handler.
type Application struct {
	routesFns []func(*router.Router)
	verifier  middleware.TokenVerifier
	cookie    session.Options
}

func New() *Application {
	return &Application{cookie: session.DefaultOptions()}
}

// Routes adds a route-registration callback. Callbacks run in order.
func (a *Application) Routes(fn func(*router.Router)) *Application {
	a.routesFns = append(a.routesFns, fn)
	return a
}

// Authenticator sets how the session cookie is read and verified.
func (a *Application) Authenticator(v middleware.TokenVerifier, cookie session.Options) *Application {
	a.verifier = v
	a.cookie = cookie
	return a
}

// RouteList returns every route the callbacks register.
func (a *Application) RouteList() []router.RouteInfo {
	r := router.New()
	for _, fn := range a.routesFns {
		fn(r)
	}
	return r.Routes()
}

// Handler builds the full middleware stack and routes. Background work the
// stack starts stops when ctx is done.
func (a *Application) Handler(ctx context.Context) (http.Handler, error) {
	return buildHandler(ctx, a)
}

// Serve listens on APP_PORT until ctx is cancelled, then drains in-flight
// requests.
func (a *Application) Serve(ctx context.Context) error {
	h, err := a.Handler(ctx)
	if err != nil {
		return err
	}
	return server.Start(ctx, ":"+config.AppPort(), h)
}
