package fiber

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/kcmvp/viewx"
	"github.com/kcmvp/viewx/app"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	fa := fiber.New()
	fa.Use(Middleware(viewx.WithApp(app.New(app.WithMapping(".xhtml")))))
	fa.Get("/greet.xhtml", func(c fiber.Ctx) error {
		rc := Current(c)
		require.NotNil(t, rc)
		require.Equal(t, viewx.VendorFiber, rc.Vendor())
		require.Equal(t, "/greet.html", rc.ViewID())
		return c.SendString("hello")
	})

	resp, err := fa.Test(httptest.NewRequest(http.MethodGet, "/greet.xhtml", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "hello", string(body))
}
