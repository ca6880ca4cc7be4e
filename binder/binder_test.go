package binder_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notekit/binder"
)

type listRequest struct {
	Page   int      `query:"page"`
	Search string   `query:"search"`
	Tags   []string `query:"tags"`
	Format *string  `query:"format"`
	Hidden string
}

func TestQuery(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/notes?page=2&search=foo&tags=work,%20urgent&tags=home&tags=", nil)
	var req listRequest
	require.NoError(t, binder.Query()(r, &req))

	assert.Equal(t, 2, req.Page)
	assert.Equal(t, "foo", req.Search)
	assert.Equal(t, []string{"work", "urgent", "home"}, req.Tags)
	assert.Nil(t, req.Format)
	assert.Empty(t, req.Hidden)
}

func TestQuery_Errors(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/notes?page=abc", nil)
	var req listRequest
	assert.ErrorIs(t, binder.Query()(r, &req), binder.ErrInvalidQuery)

	assert.ErrorIs(t, binder.Query()(r, req), binder.ErrInvalidTarget)
}

type noteRequest struct {
	ID    uuid.UUID `path:"id"`
	Title *string   `json:"title"`
	Tags  *[]string `json:"tags"`
}

func TestPath_WithChi(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	var got noteRequest
	var bindErr error

	router := chi.NewRouter()
	router.Put("/notes/{id}", func(w http.ResponseWriter, r *http.Request) {
		bindErr = binder.Path(chi.URLParam)(r, &got)
		if bindErr == nil {
			bindErr = binder.JSON()(r, &got)
		}
	})

	r := httptest.NewRequest(http.MethodPut, "/notes/"+id.String(), strings.NewReader(`{"title":"x","extra":1}`))
	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	router.ServeHTTP(httptest.NewRecorder(), r)

	require.NoError(t, bindErr)
	assert.Equal(t, id, got.ID)
	require.NotNil(t, got.Title)
	assert.Equal(t, "x", *got.Title)
	assert.Nil(t, got.Tags)

	router2 := chi.NewRouter()
	router2.Get("/notes/{id}", func(w http.ResponseWriter, r *http.Request) {
		bindErr = binder.Path(chi.URLParam)(r, &got)
	})
	router2.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/notes/not-a-uuid", nil))
	assert.ErrorIs(t, bindErr, binder.ErrInvalidPath)
}

func TestJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		body        string
		wantErr     error
	}{
		{"valid", "application/json", `{"title":"a"}`, nil},
		{"no content type", "", `{"title":"a"}`, nil},
		{"wrong media type", "text/plain", `{"title":"a"}`, binder.ErrUnsupportedMediaType},
		{"empty body", "application/json", ``, binder.ErrInvalidJSON},
		{"malformed", "application/json", `{"title":`, binder.ErrInvalidJSON},
		{"type mismatch", "application/json", `{"title":1}`, binder.ErrInvalidJSON},
		{"trailing data", "application/json", `{"title":"a"}{}`, binder.ErrInvalidJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}
			var req noteRequest
			err := binder.JSON()(r, &req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "a", *req.Title)
		})
	}
}
