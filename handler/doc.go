// Package handler provides type-safe HTTP handlers for JSON APIs.
//
// A HandlerFunc receives a Context and a request value populated by binders,
// and returns a Response that renders itself:
//
//	type GetNoteRequest struct {
//		ID uuid.UUID `path:"id"`
//	}
//
//	func getNote(ctx handler.Context, req GetNoteRequest) handler.Response {
//		note, err := svc.Get(ctx, actor, req.ID)
//		if err != nil {
//			return handler.Error(err)
//		}
//		return handler.JSON(map[string]any{"note": note})
//	}
//
//	r.Get("/notes/{id}", handler.Wrap(getNote,
//		handler.WithBinders[handler.Context, GetNoteRequest](binder.Path(chi.URLParam)),
//		handler.WithErrorHandler[handler.Context, GetNoteRequest](errorHandler),
//	))
//
// Errors returned by binders, by Error responses and by failed renders all go
// through the configured ErrorHandler. NewErrorHandler builds one that maps
// errors to HTTPError values and writes the JSON body
// {"error": "...", "details": "..."}.
package handler
