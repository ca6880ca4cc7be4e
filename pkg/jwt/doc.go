// Package jwt verifies HS256 bearer tokens issued by the external identity
// service and exposes the authenticated identity to HTTP handlers.
//
// The Service wraps github.com/golang-jwt/jwt/v5 with a fixed signing method
// and a fixed claims shape: the subject is the user id and the email travels
// in a private "email" claim. Middleware extracts the token, verifies it and
// stores the claims in the request context:
//
//	svc, err := jwt.New(cfg.Secret)
//	r.Use(jwt.Middleware(svc))
//
//	claims, ok := jwt.ClaimsFromContext(r.Context())
//
// Requests without a valid token are passed through without claims so that
// the caller decides how to answer; use RequireClaims to reject them early.
package jwt
