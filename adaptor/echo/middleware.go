package echo

import (
	"github.com/kcmvp/viewx"
	"github.com/labstack/echo/v4"
)

// Middleware creates an Echo middleware that binds a render context to every
// request. It leverages the core viewx middleware and wraps it with Echo's
// built-in adapter.
func Middleware(opts ...viewx.Option) echo.MiddlewareFunc {
	return echo.WrapMiddleware(viewx.Middleware(append(opts, viewx.WithVendor(viewx.VendorEcho))...))
}

// Current resolves the render context from the Echo context. It returns nil
// when Middleware did not run for this route.
func Current(c echo.Context) *viewx.RenderContext {
	return viewx.Current(c.Request().Context())
}
