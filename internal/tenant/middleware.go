package tenant

import "net/http"

// IdentityFunc returns the authenticated identity of the request.
type IdentityFunc func(r *http.Request) (Identity, bool)

// ErrorHandler writes the response when resolution fails.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Middleware resolves the request identity to a profile and stores it in the
// request context. Requests without an identity get ErrNoIdentity.
func Middleware(svc *Service, identify IdentityFunc, onError ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := identify(r)
			if !ok {
				onError(w, r, ErrNoIdentity)
				return
			}
			p, err := svc.Resolve(r.Context(), id)
			if err != nil {
				onError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithProfile(r.Context(), p)))
		})
	}
}
