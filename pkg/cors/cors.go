// Package cors answers cross-origin requests with a fixed header set.
package cors

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrymomot/notekit/pkg/environment"
)

// DefaultProductionOrigin is used in production when no origins are configured.
const DefaultProductionOrigin = "https://yourdomain.com"

// Config holds CORS settings. An "*" entry in AllowOrigins echoes any
// request origin.
type Config struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	AllowCredentials bool
	MaxAge           int
}

// DefaultConfig returns the method, header and credential settings shared by
// every environment, without origins.
func DefaultConfig() Config {
	return Config{
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           86400,
	}
}

// ForEnvironment builds the config for env. In production origins come from
// allowedOrigins (comma separated); elsewhere local dev origins and "*" are
// allowed.
func ForEnvironment(env environment.Environment, allowedOrigins string) Config {
	cfg := DefaultConfig()
	if env.IsProduction() {
		cfg.AllowOrigins = ParseOrigins(allowedOrigins)
		if len(cfg.AllowOrigins) == 0 {
			cfg.AllowOrigins = []string{DefaultProductionOrigin}
		}
		return cfg
	}
	cfg.AllowOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000", "*"}
	return cfg
}

// ParseOrigins splits a comma separated list, dropping blanks.
func ParseOrigins(s string) []string {
	var out []string
	for o := range strings.SplitSeq(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// AllowedOrigin returns the value for Access-Control-Allow-Origin, or ""
// when origin is not allowed.
func (c Config) AllowedOrigin(origin string) string {
	if origin == "" {
		return ""
	}
	if slices.Contains(c.AllowOrigins, origin) || slices.Contains(c.AllowOrigins, "*") {
		return origin
	}
	return ""
}

// Middleware sets CORS headers for allowed origins and answers every
// preflight with 204.
func Middleware(cfg Config) func(http.Handler) http.Handler {
	methods := strings.Join(cfg.AllowMethods, ", ")
	headers := strings.Join(cfg.AllowHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Add("Vary", "Origin")

			if origin := cfg.AllowedOrigin(r.Header.Get("Origin")); origin != "" {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				if cfg.AllowCredentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				if cfg.MaxAge > 0 {
					h.Set("Access-Control-Max-Age", maxAge)
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
