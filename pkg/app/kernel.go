package app

import (
	"context"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/neubistro/bistro/config"
	"github.com/neubistro/bistro/pkg/metrics"
	"github.com/neubistro/bistro/pkg/middleware"
	"github.com/neubistro/bistro/pkg/reqid"
	"github.com/neubistro/bistro/pkg/response"
	"github.com/neubistro/bistro/pkg/router"
)

func buildHandler(ctx context.Context, a *Application) (http.Handler, error) {
	limit, err := middleware.RateLimit(ctx, config.RateLimitPerMinute(), time.Minute, config.TrustedProxies()...)
	if err != nil {
		return nil, err
	}

	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics, for total latency
	//  2. Recovery
	//  3. Request ID, before anything logs
	//  4. Logger
	//  5. Timeout, bounds every request context
	//  6. CORS
	//  7. Rate limiter
	//  8. Session, resolves the cookie into a user id
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(chimw.Timeout(config.RequestTimeout()))
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.ClientOrigins()...)))
	r.Use(limit)
	if a.verifier != nil {
		r.Use(middleware.Authenticate(a.verifier, a.cookie))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.HandleFunc("/metrics", metrics.Handler())

	for _, fn := range a.routesFns {
		fn(r)
	}

	return r.Handler(), nil
}
