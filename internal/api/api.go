// Package api is the HTTP surface of the service. It mounts the notes, users
// and subscription handlers under /api behind bearer token authentication
// and tenant resolution, and maps domain errors to JSON error responses.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/notekit/handler"
	"github.com/dmitrymomot/notekit/internal/tenant"
	"github.com/dmitrymomot/notekit/pkg/cors"
	"github.com/dmitrymomot/notekit/pkg/environment"
	"github.com/dmitrymomot/notekit/pkg/jwt"
	"github.com/dmitrymomot/notekit/pkg/logger"
	"github.com/dmitrymomot/notekit/pkg/metrics"
	"github.com/dmitrymomot/notekit/pkg/requestid"
)

// Mountable is a sub-router.
type Mountable interface {
	Handle() http.Handler
}

// RouterOptions wires the router. Notes, Users and Subscription are mounted
// only when set. Metrics, when set, instruments every request and serves
// /metrics.
type RouterOptions struct {
	Environment    environment.Environment
	AllowedOrigins string
	Logger         *slog.Logger
	Metrics        *metrics.Metrics

	JWT     *jwt.Service
	Tenants *tenant.Service

	Health       Mountable
	Notes        Mountable
	Users        Mountable
	Subscription Mountable
}

// NewErrorHandler is the JSON error handler shared by every API handler.
func NewErrorHandler(log *slog.Logger, m *metrics.Metrics) handler.ErrorHandler[handler.Context] {
	var obs DenialObserver
	if m != nil {
		obs = m
	}
	return handler.NewErrorHandler(log, NewErrorMapper(obs))
}

// Router builds the application router.
//
//	r := api.Router(api.RouterOptions{
//		Environment: env,
//		JWT:         tokens,
//		Tenants:     tenants,
//		Health:      api.NewHealthHandler(store.Ping, env),
//		Notes:       api.NewNotesHandler(notesSvc, errorHandler),
//	})
func Router(opts RouterOptions) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	errorHandler := NewErrorHandler(log, opts.Metrics)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(environment.Middleware(opts.Environment))
	r.Use(Recoverer(log, errorHandler))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errorHandler(handler.NewContext(w, r), handler.NewHTTPError(http.StatusNotFound, "Not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		errorHandler(handler.NewContext(w, r), handler.NewHTTPError(http.StatusMethodNotAllowed, "Method not allowed"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Middleware(cors.ForEnvironment(opts.Environment, opts.AllowedOrigins)))

		if opts.Health != nil {
			r.Mount("/health", opts.Health.Handle())
		}

		r.Group(func(r chi.Router) {
			if opts.JWT != nil {
				r.Use(jwt.Middleware(opts.JWT))
			}
			if opts.Tenants != nil {
				r.Use(tenant.Middleware(opts.Tenants, IdentityFromClaims, func(w http.ResponseWriter, r *http.Request, err error) {
					errorHandler(handler.NewContext(w, r), err)
				}))
			}

			if opts.Notes != nil {
				r.Mount("/notes", opts.Notes.Handle())
			}
			if opts.Users != nil {
				r.Mount("/users", opts.Users.Handle())
			}
			if opts.Subscription != nil {
				r.Mount("/subscription", opts.Subscription.Handle())
			}
		})
	})

	return r
}

// IdentityFromClaims reads the identity verified by the jwt middleware.
func IdentityFromClaims(r *http.Request) (tenant.Identity, bool) {
	claims, ok := jwt.ClaimsFromContext(r.Context())
	if !ok {
		return tenant.Identity{}, false
	}
	id, err := claims.UserID()
	if err != nil {
		return tenant.Identity{}, false
	}
	return tenant.Identity{UserID: id, Email: claims.Email}, true
}

// actor returns the profile resolved for the request.
func actor(ctx handler.Context) (tenant.Profile, error) {
	p, ok := tenant.ProfileFromContext(ctx)
	if !ok {
		return tenant.Profile{}, tenant.ErrNoProfileInContext
	}
	return p, nil
}

type successResponse struct {
	Success bool `json:"success"`
}

func success() handler.Response {
	return handler.JSON(successResponse{Success: true})
}
