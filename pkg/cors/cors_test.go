package cors_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/notekit/pkg/cors"
	"github.com/dmitrymomot/notekit/pkg/environment"
)

func TestForEnvironment(t *testing.T) {
	t.Parallel()

	prod := cors.ForEnvironment(environment.Production, " https://a.io, ,https://b.io ")
	assert.Equal(t, []string{"https://a.io", "https://b.io"}, prod.AllowOrigins)

	prodDefault := cors.ForEnvironment(environment.Production, "")
	assert.Equal(t, []string{cors.DefaultProductionOrigin}, prodDefault.AllowOrigins)

	dev := cors.ForEnvironment(environment.Development, "https://ignored.io")
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000", "*"}, dev.AllowOrigins)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		env        environment.Environment
		method     string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{"production allowed", environment.Production, http.MethodGet, "https://yourdomain.com", http.StatusOK, "https://yourdomain.com"},
		{"production rejected", environment.Production, http.MethodGet, "https://evil.io", http.StatusOK, ""},
		{"development wildcard echoes", environment.Development, http.MethodGet, "https://anything.io", http.StatusOK, "https://anything.io"},
		{"preflight", environment.Development, http.MethodOptions, "http://localhost:3000", http.StatusNoContent, "http://localhost:3000"},
		{"preflight rejected origin", environment.Production, http.MethodOptions, "https://evil.io", http.StatusNoContent, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := cors.Middleware(cors.ForEnvironment(tt.env, ""))(next)
			r := httptest.NewRequest(tt.method, "/api/notes", nil)
			r.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			if tt.wantOrigin != "" {
				assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
				assert.Equal(t, "Content-Type, Authorization, X-Requested-With", w.Header().Get("Access-Control-Allow-Headers"))
				assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
				assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
			}
		})
	}
}
