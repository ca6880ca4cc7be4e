package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/notekit/binder"
	"github.com/dmitrymomot/notekit/handler"
	"github.com/dmitrymomot/notekit/internal/notes"
)

// NotesHandler serves /api/notes.
type NotesHandler struct {
	svc          *notes.Service
	errorHandler handler.ErrorHandler[handler.Context]
}

// NewNotesHandler creates the notes routes.
func NewNotesHandler(svc *notes.Service, errorHandler handler.ErrorHandler[handler.Context]) *NotesHandler {
	return &NotesHandler{svc: svc, errorHandler: errorHandler}
}

// NoteIDRequest addresses a single note.
type NoteIDRequest struct {
	ID uuid.UUID `path:"id" json:"-"`
}

// UpdateNoteRequest is a partial note update.
type UpdateNoteRequest struct {
	ID uuid.UUID `path:"id" json:"-"`
	notes.UpdateInput
}

// ExportRequest selects the export format.
type ExportRequest struct {
	Format string `query:"format"`
}

type noteResponse struct {
	Note notes.Note `json:"note"`
}

type tagsResponse struct {
	Tags []string `json:"tags"`
}

type exportResponse struct {
	Notes []notes.Note `json:"notes"`
}

func (h *NotesHandler) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/", handler.Wrap(h.list,
		handler.WithBinders[handler.Context, notes.ListQuery](binder.Query()),
		handler.WithErrorHandler[handler.Context, notes.ListQuery](h.errorHandler),
	))
	r.Post("/", handler.Wrap(h.create,
		handler.WithBinders[handler.Context, notes.CreateInput](binder.JSON()),
		handler.WithErrorHandler[handler.Context, notes.CreateInput](h.errorHandler),
	))

	// Registered before /{id} so the literals win.
	r.Get("/tags", handler.Wrap(h.tags,
		handler.WithErrorHandler[handler.Context, struct{}](h.errorHandler),
	))
	r.Get("/export", handler.Wrap(h.export,
		handler.WithBinders[handler.Context, ExportRequest](binder.Query()),
		handler.WithErrorHandler[handler.Context, ExportRequest](h.errorHandler),
	))

	r.Get("/{id}", handler.Wrap(h.get,
		handler.WithBinders[handler.Context, NoteIDRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, NoteIDRequest](h.errorHandler),
	))
	r.Put("/{id}", handler.Wrap(h.update,
		handler.WithBinders[handler.Context, UpdateNoteRequest](binder.Path(chi.URLParam), binder.JSON()),
		handler.WithErrorHandler[handler.Context, UpdateNoteRequest](h.errorHandler),
	))
	r.Delete("/{id}", handler.Wrap(h.delete,
		handler.WithBinders[handler.Context, NoteIDRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, NoteIDRequest](h.errorHandler),
	))

	return r
}

func (h *NotesHandler) list(ctx handler.Context, req notes.ListQuery) handler.Response {
	p, err := actor(ctx)
	if err != nil {
		return handler.Error(err)
	}
	page, err := h.svc.List(ctx, p, req)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(page)
}

func (h *NotesHandler) create(ctx handler.Context, req notes.CreateInput) handler.Response {
	p, err := actor(ctx)
	if err != nil {
		return handler.Error(err)
	}
	n, err := h.svc.Create(ctx, p, req)
	if err != nil {
		return handler.Error(err)
	}
	return handler.Created(noteResponse{Note: n})
}

func (h *NotesHandler) get(ctx handler.Context, req NoteIDRequest) handler.Response {
	p, err := actor(ctx)
	if err != nil {
		return handler.Error(err)
	}
	n, err := h.svc.Get(ctx, p, req.ID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(noteResponse{Note: n})
}

func (h *NotesHandler) update(ctx handler.Context, req UpdateNoteRequest) handler.Response {
	p, err := actor(ctx)
	if err != nil {
		return handler.Error(err)
	}
	n, err := h.svc.Update(ctx, p, req.ID, req.UpdateInput)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(noteResponse{Note: n})
}

func (h *NotesHandler) delete(ctx handler.Context, req NoteIDRequest) handler.Response {
	p, err := actor(ctx)
	if err != nil {
		return handler.Error(err)
	}
	if err := h.svc.Delete(ctx, p, req.ID); err != nil {
		return handler.Error(err)
	}
	return success()
}

func (h *NotesHandler) tags(ctx handler.Context, _ struct{}) handler.Response {
	p, err := actor(ctx)
	if err != nil {
		return handler.Error(err)
	}
	tags, err := h.svc.Tags(ctx, p)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(tagsResponse{Tags: tags})
}

func (h *NotesHandler) export(ctx handler.Context, req ExportRequest) handler.Response {
	p, err := actor(ctx)
	if err != nil {
		return handler.Error(err)
	}
	exp, err := h.svc.Export(ctx, p, req.Format)
	if err != nil {
		return handler.Error(err)
	}
	if exp.Format == notes.FormatCSV {
		return handler.CSV("notes.csv", notes.CSV(exp.Notes))
	}
	return handler.JSON(exportResponse{Notes: exp.Notes})
}
