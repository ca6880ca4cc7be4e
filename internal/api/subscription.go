package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/notekit/binder"
	"github.com/dmitrymomot/notekit/handler"
	"github.com/dmitrymomot/notekit/internal/subscription"
	"github.com/dmitrymomot/notekit/internal/tenant"
)

// SubscriptionHandler serves /api/subscription.
type SubscriptionHandler struct {
	svc          *subscription.Service
	errorHandler handler.ErrorHandler[handler.Context]
}

// NewSubscriptionHandler creates the subscription routes.
func NewSubscriptionHandler(svc *subscription.Service, errorHandler handler.ErrorHandler[handler.Context]) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc, errorHandler: errorHandler}
}

type profileResponse struct {
	Profile tenant.Profile `json:"profile"`
}

func (h *SubscriptionHandler) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/limits", handler.Wrap(h.limits,
		handler.WithErrorHandler[handler.Context, struct{}](h.errorHandler),
	))
	r.Post("/upgrade", handler.Wrap(h.upgrade,
		handler.WithBinders[handler.Context, subscription.UpgradeInput](binder.JSON()),
		handler.WithErrorHandler[handler.Context, subscription.UpgradeInput](h.errorHandler),
	))

	return r
}

func (h *SubscriptionHandler) limits(ctx handler.Context, _ struct{}) handler.Response {
	p, err := actor(ctx)
	if err != nil {
		return handler.Error(err)
	}
	overview, err := h.svc.Limits(ctx, p)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(overview)
}

func (h *SubscriptionHandler) upgrade(ctx handler.Context, req subscription.UpgradeInput) handler.Response {
	p, err := actor(ctx)
	if err != nil {
		return handler.Error(err)
	}
	updated, err := h.svc.Upgrade(ctx, p, req)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(profileResponse{Profile: updated})
}
