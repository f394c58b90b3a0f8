package fiber

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/kcmvp/viewx"
)

// Middleware provides a Fiber-compatible middleware that binds a render
// context to every request, using Fiber's built-in adapter to convert the
// core net/http middleware.
func Middleware(opts ...viewx.Option) fiber.Handler {
	return adaptor.HTTPMiddleware(viewx.Middleware(append(opts, viewx.WithVendor(viewx.VendorFiber))...))
}

// Current resolves the render context from the Fiber context. It returns nil
// when Middleware did not run for this route. The fasthttp request context
// implements context.Context; the adapter copies the render-context key into
// its user values.
func Current(c fiber.Ctx) *viewx.RenderContext {
	return viewx.Current(c.RequestCtx())
}
