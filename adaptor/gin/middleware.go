package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kcmvp/viewx"
)

// Middleware wraps the core viewx middleware for use with the Gin framework.
// It accepts the same options as the core middleware.
func Middleware(opts ...viewx.Option) gin.HandlerFunc {
	core := viewx.Middleware(append(opts, viewx.WithVendor(viewx.VendorGin))...)

	return func(c *gin.Context) {
		// The handler that Gin would call next, wrapped so the core
		// middleware can call it. The core middleware replaces the request
		// context; Gin's context has to pick up the new request.
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
		})

		core(next).ServeHTTP(c.Writer, c.Request)

		if c.IsAborted() {
			return
		}
	}
}

// Current resolves the render context from the Gin context. It returns nil
// when Middleware did not run for this route.
func Current(c *gin.Context) *viewx.RenderContext {
	return viewx.Current(c.Request.Context())
}
