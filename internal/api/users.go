package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/notekit/binder"
	"github.com/dmitrymomot/notekit/handler"
	"github.com/dmitrymomot/notekit/internal/tenant"
	"github.com/dmitrymomot/notekit/internal/users"
)

// UsersHandler serves /api/users.
type UsersHandler struct {
	svc          *users.Service
	errorHandler handler.ErrorHandler[handler.Context]
}

// NewUsersHandler creates the user management routes.
func NewUsersHandler(svc *users.Service, errorHandler handler.ErrorHandler[handler.Context]) *UsersHandler {
	return &UsersHandler{svc: svc, errorHandler: errorHandler}
}

// UserIDRequest addresses a single user.
type UserIDRequest struct {
	ID uuid.UUID `path:"id" json:"-"`
}

// UpdateUserRequest changes a user's role and/or plan.
type UpdateUserRequest struct {
	ID uuid.UUID `path:"id" json:"-"`
	users.UpdateInput
}

type userResponse struct {
	User tenant.Profile `json:"user"`
}

type usersResponse struct {
	Users []tenant.Profile `json:"users"`
}

func (h *UsersHandler) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/", handler.Wrap(h.list,
		handler.WithErrorHandler[handler.Context, struct{}](h.errorHandler),
	))
	r.Post("/", handler.Wrap(h.invite,
		handler.WithBinders[handler.Context, users.InviteInput](binder.JSON()),
		handler.WithErrorHandler[handler.Context, users.InviteInput](h.errorHandler),
	))
	r.Put("/{id}", handler.Wrap(h.update,
		handler.WithBinders[handler.Context, UpdateUserRequest](binder.Path(chi.URLParam), binder.JSON()),
		handler.WithErrorHandler[handler.Context, UpdateUserRequest](h.errorHandler),
	))
	r.Delete("/{id}", handler.Wrap(h.delete,
		handler.WithBinders[handler.Context, UserIDRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, UserIDRequest](h.errorHandler),
	))

	return r
}

func (h *UsersHandler) list(ctx handler.Context, _ struct{}) handler.Response {
	p, err := actor(ctx)
	if err != nil {
		return handler.Error(err)
	}
	list, err := h.svc.List(ctx, p)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(usersResponse{Users: list})
}

func (h *UsersHandler) invite(ctx handler.Context, req users.InviteInput) handler.Response {
	p, err := actor(ctx)
	if err != nil {
		return handler.Error(err)
	}
	invited, err := h.svc.Invite(ctx, p, req)
	if err != nil {
		return handler.Error(err)
	}
	return handler.Created(userResponse{User: invited})
}

func (h *UsersHandler) update(ctx handler.Context, req UpdateUserRequest) handler.Response {
	p, err := actor(ctx)
	if err != nil {
		return handler.Error(err)
	}
	updated, err := h.svc.Update(ctx, p, req.ID, req.UpdateInput)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(userResponse{User: updated})
}

func (h *UsersHandler) delete(ctx handler.Context, req UserIDRequest) handler.Response {
	p, err := actor(ctx)
	if err != nil {
		return handler.Error(err)
	}
	if err := h.svc.Delete(ctx, p, req.ID); err != nil {
		return handler.Error(err)
	}
	return success()
}
