package binder

import "net/http"

// Query binds fields tagged `query:"name"`. Slice fields accept repeated
// parameters and comma separated values.
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		q := r.URL.Query()
		return bindValues(v, "query", func(name string) []string {
			var out []string
			for _, s := range q[name] {
				if s != "" {
					out = append(out, s)
				}
			}
			return out
		}, ErrInvalidQuery)
	}
}
