package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/notekit/handler"
	"github.com/dmitrymomot/notekit/pkg/environment"
)

// HealthHandler reports database connectivity.
type HealthHandler struct {
	ping func(context.Context) error
	env  environment.Environment
	now  func() time.Time
}

// NewHealthHandler creates the health endpoint. ping checks the store and, when
// configured, the cache.
func NewHealthHandler(ping func(context.Context) error, env environment.Environment) *HealthHandler {
	return &HealthHandler{ping: ping, env: env, now: time.Now}
}

type healthResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Database    string `json:"database"`
	Environment string `json:"environment,omitempty"`
	Error       string `json:"error,omitempty"`
}

func (h *HealthHandler) Handle() http.Handler {
	r := chi.NewRouter()
	r.Get("/", handler.Wrap(h.health))
	return r
}

func (h *HealthHandler) health(ctx handler.Context, _ struct{}) handler.Response {
	ts := h.now().UTC().Format(time.RFC3339Nano)

	if h.ping != nil {
		if err := h.ping(ctx); err != nil {
			return handler.JSON(healthResponse{
				Status:    "unhealthy",
				Timestamp: ts,
				Database:  "disconnected",
				Error:     err.Error(),
			}, handler.WithJSONStatus(http.StatusInternalServerError))
		}
	}

	return handler.JSON(healthResponse{
		Status:      "healthy",
		Timestamp:   ts,
		Database:    "connected",
		Environment: h.env.String(),
	})
}
