package jwt

import (
	"net/http"
	"strings"
)

// TokenExtractorFunc extracts a raw token from a request.
type TokenExtractorFunc func(r *http.Request) (string, error)

// Middleware verifies the bearer token, when present, and stores its claims
// in the request context. Missing or invalid tokens leave the context
// untouched.
func Middleware(svc *Service) func(http.Handler) http.Handler {
	return MiddlewareWithExtractor(svc, BearerTokenExtractor)
}

// MiddlewareWithExtractor is Middleware with a custom token source.
func MiddlewareWithExtractor(svc *Service, extract TokenExtractorFunc) func(http.Handler) http.Handler {
	if extract == nil {
		extract = BearerTokenExtractor
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := extract(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := svc.Parse(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireClaims rejects requests that carry no verified claims by calling
// onMissing.
func RequireClaims(onMissing http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := ClaimsFromContext(r.Context()); !ok {
				onMissing.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BearerTokenExtractor reads "Authorization: Bearer <token>".
func BearerTokenExtractor(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrInvalidToken
	}
	return strings.TrimSpace(token), nil
}
