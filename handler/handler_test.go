package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notekit/handler"
	"github.com/dmitrymomot/notekit/pkg/logger"
)

type createRequest struct {
	Title string `json:"title"`
}

func bindTitle(r *http.Request, v any) error {
	req := v.(*createRequest)
	req.Title = r.URL.Query().Get("title")
	if req.Title == "bad" {
		return handler.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}
	return nil
}

func TestWrap(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	errHandler := handler.NewErrorHandler(logger.New(logger.WithOutput(&logs)), nil)

	h := handler.Wrap(
		func(ctx handler.Context, req createRequest) handler.Response {
			switch req.Title {
			case "boom":
				return handler.Error(errors.New("db down"))
			case "nil":
				return nil
			case "denied":
				return handler.Error(handler.NewHTTPError(http.StatusForbidden, "Notes limit reached").
					WithDetails("You have reached your limit of 5 notes. Please upgrade your subscription."))
			}
			return handler.Created(map[string]string{"title": req.Title})
		},
		handler.WithBinders[handler.Context, createRequest](bindTitle),
		handler.WithErrorHandler[handler.Context, createRequest](errHandler),
	)

	tests := []struct {
		title      string
		wantStatus int
		wantBody   map[string]string
	}{
		{"hello", http.StatusCreated, map[string]string{"title": "hello"}},
		{"bad", http.StatusBadRequest, map[string]string{"error": "Invalid request"}},
		{"boom", http.StatusInternalServerError, map[string]string{"error": "Internal server error"}},
		{"nil", http.StatusInternalServerError, map[string]string{"error": "Internal server error"}},
		{"denied", http.StatusForbidden, map[string]string{
			"error":   "Notes limit reached",
			"details": "You have reached your limit of 5 notes. Please upgrade your subscription.",
		}},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodPost, "/?title="+tt.title, nil))

		assert.Equal(t, tt.wantStatus, w.Code, tt.title)
		assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
		var got map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, tt.wantBody, got, tt.title)
	}

	assert.NotContains(t, logs.String(), `"error":"Internal server error"`)
	assert.Contains(t, logs.String(), "db down")
	assert.Contains(t, logs.String(), `"level":"WARN"`)
	assert.Contains(t, logs.String(), `"level":"ERROR"`)
}

func TestWrap_Decorators(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) handler.Decorator[handler.Context, struct{}] {
		return func(next handler.HandlerFunc[handler.Context, struct{}]) handler.HandlerFunc[handler.Context, struct{}] {
			return func(ctx handler.Context, req struct{}) handler.Response {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}

	h := handler.Wrap(
		func(ctx handler.Context, _ struct{}) handler.Response {
			order = append(order, "handler")
			return handler.JSON(map[string]bool{"success": true})
		},
		handler.WithDecorators(mark("outer"), mark("inner")),
	)

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
}

func TestDefaultErrorHandler_PlainText(t *testing.T) {
	t.Parallel()

	h := handler.Wrap(func(ctx handler.Context, _ struct{}) handler.Response {
		return handler.Error(handler.NewHTTPError(http.StatusNotFound, "Note not found"))
	})
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Note not found", strings.TrimSpace(w.Body.String()))
}

func TestHTTPError(t *testing.T) {
	t.Parallel()

	cause := errors.New("cause")
	he := handler.NewHTTPError(http.StatusBadRequest, "Bad").WithCause(cause)
	assert.ErrorIs(t, he, cause)
	assert.Equal(t, "Bad: cause", he.Error())

	wrapped := errors.Join(errors.New("outer"), he)
	assert.Equal(t, http.StatusBadRequest, handler.AsHTTPError(wrapped).Code)

	internal := handler.AsHTTPError(cause)
	assert.Equal(t, http.StatusInternalServerError, internal.Code)
	assert.Equal(t, "Internal server error", internal.Message)
	assert.ErrorIs(t, internal, cause)
}

func TestCSV(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	body := []byte("ID,Title\n\"1\",\"x\"")
	require.NoError(t, handler.CSV("notes.csv", body).Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=notes.csv", w.Header().Get("Content-Disposition"))
	assert.Equal(t, body, w.Body.Bytes())
}

func TestContext(t *testing.T) {
	t.Parallel()

	type key struct{}
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(context.WithValue(r.Context(), key{}, "v"))
	w := httptest.NewRecorder()

	ctx := handler.NewContext(w, r)
	assert.Equal(t, "v", ctx.Value(key{}))
	assert.Same(t, r, ctx.Request())
	assert.NoError(t, ctx.Err())
}
