package viewx

import (
	"net/http"
	"strings"
)

// Middleware returns the core net/http middleware. It builds a RenderContext
// per request, derives the view ID for requests falling under the view
// mapping, attaches the context for downstream handlers and commits the
// buffered response once the chain returns. The framework adaptors wrap
// this constructor rather than reimplementing it.
func Middleware(opts ...Option) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rc := New(w, r, opts...)
			if p := strings.TrimPrefix(r.URL.Path, rc.app.ContextPath()); rc.viewID == "" && rc.MatchesMapping(p) {
				rc.SetViewID(rc.NormalizeViewID(p))
			}
			req := r.WithContext(Attach(r.Context(), rc))
			rc.r = req
			next.ServeHTTP(rc.w, req)
			_ = rc.w.commit()
		})
	}
}
