package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	a := New(
		WithParam(ParamDefaultLocale, "de"),
		WithContextPath("/shop"),
		WithMapping("/ui"),
		WithNavigationRule("checkout", "/cart/summary"),
		WithNavigationRule("login", "redirect:login"),
	)

	require.Equal(t, "de", a.InitParameter(ParamDefaultLocale).MustGet())
	require.Equal(t, "/shop", a.ContextPath())
	require.Equal(t, "/ui", a.Mapping())
	require.Equal(t, "/cart/summary", a.NavigationRule("checkout").MustGet())
	require.Equal(t, "redirect:login", a.NavigationRule("login").MustGet())
	require.True(t, a.NavigationRule("unknown").IsAbsent())
	require.True(t, a.InitParameter("nope").IsAbsent())
}

func TestOptionValidation(t *testing.T) {
	require.Panics(t, func() { New(WithParam("", "v")) })
	require.Panics(t, func() { New(WithContextPath("shop")) })
	require.Panics(t, func() { New(WithMapping("")) })
	require.Panics(t, func() { New(WithNavigationRule("", "/x")) })
	require.Panics(t, func() { New(WithNavigationRule("ok", "")) })
	require.NotPanics(t, func() { New(WithContextPath("")) })
}

func TestDefaultViewSuffix(t *testing.T) {
	require.Equal(t, DefaultSuffix, New().DefaultViewSuffix())
	require.Equal(t, ".xhtml", New(WithParam(ParamDefaultSuffix, ".xhtml")).DefaultViewSuffix())
}

func TestInitParameterMapIsACopy(t *testing.T) {
	a := New(WithParam(ParamMapping, "/ui"))
	m := a.InitParameterMap()
	m[ParamMapping] = "/other"
	require.Equal(t, "/ui", a.Mapping())
}

func TestDefault(t *testing.T) {
	a := Default()
	require.NotNil(t, a)
	require.Same(t, a, Default())
}
