// Package viewx is a collection of shortcuts for the per-request render
// context of the view layer. It flattens the hierarchy of nested objects:
// request and response attributes, view identifiers, navigation, application
// init parameters, cookies, sessions and downloads are all one call away.
//
// The package-level functions resolve the render context from a
// context.Context, where the framework adaptors carry it under a private
// key. When client code needs several shortcuts for the same request it can
// resolve the context once with Current and call the equivalent methods on
// *RenderContext directly, skipping the repeated lookup:
//
//	user := viewx.SessionAttribute[User](ctx, "user")
//	id := viewx.RequestAttribute[int64](ctx, "id")
//
//	// or, resolved once:
//	rc := viewx.Current(ctx)
//	rc.SetRequestAttribute("id", 42)
//	rc.Navigate("success")
//
// Every package function is a one-line delegation to the method of the same
// name; no logic lives here.
package viewx

import (
	"context"
	"net/http"

	"github.com/kcmvp/viewx/app"
	"github.com/kcmvp/viewx/internal"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Attach returns a context carrying the render context. Adaptors call this
// once per request; tests use it to stage a render context by hand.
func Attach(ctx context.Context, rc *RenderContext) context.Context {
	lo.Assert(rc != nil, "viewx: render context must not be nil")
	return context.WithValue(ctx, internal.RenderContextKey, rc)
}

// Current returns the render context carried by ctx, or nil when there is
// none. Use HasCurrent to probe before calling shortcuts that would
// otherwise dereference nil.
func Current(ctx context.Context) *RenderContext {
	if rc, ok := ctx.Value(internal.RenderContextKey).(*RenderContext); ok {
		return rc
	}
	return nil
}

// HasCurrent reports whether ctx carries a render context.
func HasCurrent(ctx context.Context) bool {
	return Current(ctx) != nil
}

// IsPrefixMapping reports whether the given view mapping is a prefix mapping
// (e.g. "/ui") rather than a suffix mapping (e.g. ".html"). Use this in
// preference to re-deriving the mapping when it has already been obtained
// from Mapping. It panics when the mapping is empty.
func IsPrefixMapping(mapping string) bool {
	lo.Assert(mapping != "", "viewx: mapping must not be empty")
	return mapping[0] == '/'
}

// As narrows an untyped attribute Option to T. It panics when the value is
// present but of the wrong type, which is a programming error on the caller
// side.
func As[T any](opt mo.Option[any]) mo.Option[T] {
	v, ok := opt.Get()
	if !ok {
		return mo.None[T]()
	}
	typed, ok := v.(T)
	lo.Assertf(ok, "viewx: value has wrong type: expected %T, got %T", *new(T), v)
	return mo.Some(typed)
}

// Request returns the HTTP request of the current render context.
func Request(ctx context.Context) *http.Request {
	return Current(ctx).Request()
}

// Writer returns the buffered response writer of the current render context.
func Writer(ctx context.Context) http.ResponseWriter {
	return Current(ctx).Writer()
}

// Application returns the application scope of the current render context.
func Application(ctx context.Context) *app.App {
	return Current(ctx).Application()
}

// Attributes returns the render-pipeline attribute map.
func Attributes(ctx context.Context) map[string]any {
	return Current(ctx).Attributes()
}

// ContextAttribute returns the attribute value associated with the name.
func ContextAttribute[T any](ctx context.Context, name string) mo.Option[T] {
	return As[T](Current(ctx).ContextAttribute(name))
}

// SetContextAttribute sets the attribute value associated with the name.
func SetContextAttribute(ctx context.Context, name string, value any) {
	Current(ctx).SetContextAttribute(name, value)
}

// RequestScope returns the request scope map.
func RequestScope(ctx context.Context) map[string]any {
	return Current(ctx).RequestScope()
}

// RequestAttribute returns the request scope value associated with the name.
func RequestAttribute[T any](ctx context.Context, name string) mo.Option[T] {
	return As[T](Current(ctx).RequestAttribute(name))
}

// SetRequestAttribute sets the request scope value associated with the name.
func SetRequestAttribute(ctx context.Context, name string, value any) {
	Current(ctx).SetRequestAttribute(name, value)
}

// RemoveRequestAttribute removes the request scope value associated with the
// name and returns the value previously held.
func RemoveRequestAttribute[T any](ctx context.Context, name string) mo.Option[T] {
	return As[T](Current(ctx).RemoveRequestAttribute(name))
}

// ViewID returns the identifier of the current view, or "" when there is no
// view.
func ViewID(ctx context.Context) string {
	return Current(ctx).ViewID()
}

// SetViewID switches the current view.
func SetViewID(ctx context.Context, viewID string) {
	Current(ctx).SetViewID(viewID)
}

// Mapping returns the view mapping in effect for the current request.
func Mapping(ctx context.Context) string {
	return Current(ctx).Mapping()
}

// MatchesMapping reports whether the path falls under the view mapping.
func MatchesMapping(ctx context.Context, path string) bool {
	return Current(ctx).MatchesMapping(path)
}

// NormalizeViewID normalizes the path as a valid view ID based on the
// current mapping.
func NormalizeViewID(ctx context.Context, path string) string {
	return Current(ctx).NormalizeViewID(path)
}

// Navigate hands the outcome to the navigator.
func Navigate(ctx context.Context, outcome string) {
	Current(ctx).Navigate(outcome)
}

// SetResponseStatus sets the HTTP status code of the buffered response.
func SetResponseStatus(ctx context.Context, status int) {
	Current(ctx).SetResponseStatus(status)
}

// ResponseReset clears headers and unwritten data of the buffered response.
// It returns ErrResponseCommitted when the response is already committed.
func ResponseReset(ctx context.Context) error {
	return Current(ctx).ResponseReset()
}

// IsResponseCommitted reports whether the response has been flushed to the
// client.
func IsResponseCommitted(ctx context.Context) bool {
	return Current(ctx).IsResponseCommitted()
}

// InitParameterMap returns the application init-parameter map.
func InitParameterMap(ctx context.Context) map[string]string {
	return Current(ctx).InitParameterMap()
}

// InitParameter returns the application init parameter for the given name.
func InitParameter(ctx context.Context, name string) mo.Option[string] {
	return Current(ctx).InitParameter(name)
}

// RequestCookie returns the value of the request cookie with the given name.
func RequestCookie(ctx context.Context, name string) mo.Option[string] {
	return Current(ctx).RequestCookie(name)
}

// AddResponseCookie adds the cookie to the buffered response.
func AddResponseCookie(ctx context.Context, c *http.Cookie) {
	Current(ctx).AddResponseCookie(c)
}

// Locale returns the locale of the current request with sane fallbacks.
func Locale(ctx context.Context) string {
	return Current(ctx).Locale()
}

// Redirect sends a temporary redirect. See RenderContext.Redirect for the
// path and argument semantics.
func Redirect(ctx context.Context, path string, args ...any) error {
	return Current(ctx).Redirect(path, args...)
}
