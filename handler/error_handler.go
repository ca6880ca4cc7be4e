package handler

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/notekit/pkg/logger"
)

// ErrorMapper converts an error into the HTTPError sent to the client.
type ErrorMapper func(error) HTTPError

// NewErrorHandler returns an ErrorHandler that maps err, logs client errors at
// WARN and server errors at ERROR, and writes the JSON ErrorBody. A nil
// mapper uses AsHTTPError.
func NewErrorHandler(log *slog.Logger, mapper ErrorMapper) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}
	if mapper == nil {
		mapper = AsHTTPError
	}
	log = log.With(logger.Component("error_handler"))

	return func(ctx Context, err error) {
		he := mapper(err)
		r := ctx.Request()

		level := slog.LevelError
		if he.Code < http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		log.LogAttrs(r.Context(), level, "request error",
			logger.Error(err),
			slog.Int("status_code", he.Code),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)

		body := ErrorBody{Error: he.Message, Details: he.Details}
		if rerr := JSON(body, WithJSONStatus(he.Code)).Render(ctx.ResponseWriter(), r); rerr != nil {
			log.ErrorContext(r.Context(), "failed to write error response", logger.Error(rerr))
		}
	}
}
