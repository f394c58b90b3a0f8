package viewx

import (
	"context"
	"net/http"
	"testing"

	"github.com/kcmvp/viewx/app"
	"github.com/stretchr/testify/require"
)

func TestAttachCurrent(t *testing.T) {
	rc, _ := newTestContext(t, "/home", WithApp(app.New()))

	ctx := context.Background()
	require.False(t, HasCurrent(ctx))
	require.Nil(t, Current(ctx))

	ctx = Attach(ctx, rc)
	require.True(t, HasCurrent(ctx))
	require.Same(t, rc, Current(ctx))

	require.Panics(t, func() { Attach(context.Background(), nil) })
}

func TestAs(t *testing.T) {
	rc, _ := newTestContext(t, "/home", WithApp(app.New()))
	rc.SetRequestAttribute("count", 42)
	ctx := Attach(context.Background(), rc)

	require.Equal(t, 42, RequestAttribute[int](ctx, "count").MustGet())
	require.True(t, RequestAttribute[int](ctx, "missing").IsAbsent())
	// Wrong type is a programming error, not an absent value.
	require.Panics(t, func() { RequestAttribute[string](ctx, "count") })
}

func TestShortcutsDelegate(t *testing.T) {
	a := app.New(app.WithMapping("/ui"), app.WithParam("viewx.greeting", "hi"))
	rc, _ := newTestContext(t, "/ui/home", WithApp(a))
	ctx := Attach(context.Background(), rc)

	SetContextAttribute(ctx, "stage", "render")
	require.Equal(t, "render", ContextAttribute[string](ctx, "stage").MustGet())
	require.Equal(t, rc.Attributes(), Attributes(ctx))

	SetRequestAttribute(ctx, "id", int64(7))
	require.Equal(t, int64(7), RemoveRequestAttribute[int64](ctx, "id").MustGet())

	SetViewID(ctx, "/home")
	require.Equal(t, "/home", ViewID(ctx))
	require.Equal(t, "/ui", Mapping(ctx))
	require.True(t, MatchesMapping(ctx, "/ui/other"))
	require.Equal(t, "/other", NormalizeViewID(ctx, "/ui/other"))

	require.Same(t, rc.Request(), Request(ctx))
	require.Same(t, a, Application(ctx))
	require.Equal(t, "hi", InitParameter(ctx, "viewx.greeting").MustGet())
	require.Equal(t, a.InitParameterMap(), InitParameterMap(ctx))

	SetResponseStatus(ctx, http.StatusAccepted)
	require.Equal(t, http.StatusAccepted, rc.w.Status())
	require.False(t, IsResponseCommitted(ctx))
	require.NoError(t, ResponseReset(ctx))
	require.Equal(t, http.StatusOK, rc.w.Status())
}
