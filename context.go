package viewx

import (
	"net/http"
	"path"
	"strings"

	"github.com/kcmvp/viewx/app"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/tidwall/match"
)

// Vendor identifies the framework integration a render context was built by.
// The asset bookkeeping format differs per vendor; see assets.go and the
// hacks package.
type Vendor string

const (
	VendorNone  Vendor = ""
	VendorGin   Vendor = "gin"
	VendorEcho  Vendor = "echo"
	VendorFiber Vendor = "fiber"
)

// RenderContext is the per-request context of the view layer. It bundles the
// buffered response writer, the original request, the attribute maps, the
// current view identifier and the application scope.
//
// Every method here has a package-level twin that resolves the render
// context from a context.Context first; the method set is for callers that
// already hold the context and want to skip the repeated lookup. The
// package functions are delegation only, they add no logic of their own.
//
// A RenderContext is bound to a single request and, like the request itself,
// must not be shared across goroutines without external coordination.
type RenderContext struct {
	w      *ResponseBuffer
	r      *http.Request
	app    *app.App
	vendor Vendor
	attrs  map[string]any
	scope  map[string]any
	viewID string

	store   SessionStore
	session Session
	nav     Navigator

	body     []byte
	bodyRead bool
}

// Option configures a RenderContext during construction.
type Option func(*RenderContext)

// WithApp binds an application scope; defaults to app.Default().
func WithApp(a *app.App) Option {
	return func(rc *RenderContext) {
		lo.Assert(a != nil, "viewx: app must not be nil")
		rc.app = a
	}
}

// WithVendor records the framework integration constructing the context.
func WithVendor(v Vendor) Option {
	return func(rc *RenderContext) { rc.vendor = v }
}

// WithSessionStore overrides the default in-memory session store.
func WithSessionStore(s SessionStore) Option {
	return func(rc *RenderContext) {
		lo.Assert(s != nil, "viewx: session store must not be nil")
		rc.store = s
	}
}

// WithNavigator overrides the rule-based navigator.
func WithNavigator(n Navigator) Option {
	return func(rc *RenderContext) {
		lo.Assert(n != nil, "viewx: navigator must not be nil")
		rc.nav = n
	}
}

// WithViewID presets the view identifier.
func WithViewID(viewID string) Option {
	return func(rc *RenderContext) { rc.viewID = viewID }
}

// New builds a RenderContext for the given response writer and request.
// Framework adaptors call this once per request; plain net/http callers go
// through Middleware instead.
func New(w http.ResponseWriter, r *http.Request, opts ...Option) *RenderContext {
	lo.Assert(w != nil, "viewx: response writer must not be nil")
	lo.Assert(r != nil, "viewx: request must not be nil")
	rc := &RenderContext{
		w:     NewResponseBuffer(w),
		r:     r,
		attrs: map[string]any{},
		scope: map[string]any{},
	}
	for _, opt := range opts {
		opt(rc)
	}
	if rc.app == nil {
		rc.app = app.Default()
	}
	if rc.store == nil {
		rc.store = defaultStore
	}
	if rc.nav == nil {
		rc.nav = RuleNavigator{}
	}
	return rc
}

// Request returns the original HTTP request.
func (rc *RenderContext) Request() *http.Request {
	return rc.r
}

// Writer returns the buffered response writer.
func (rc *RenderContext) Writer() http.ResponseWriter {
	return rc.w
}

// Application returns the application scope.
func (rc *RenderContext) Application() *app.App {
	return rc.app
}

// Vendor returns the framework integration that built this context.
func (rc *RenderContext) Vendor() Vendor {
	return rc.vendor
}

// Attributes returns the render-pipeline attribute map. Unlike the request
// scope this map carries framework bookkeeping, not application data.
func (rc *RenderContext) Attributes() map[string]any {
	return rc.attrs
}

// ContextAttribute returns the attribute value associated with the name.
func (rc *RenderContext) ContextAttribute(name string) mo.Option[any] {
	return optionAt(rc.attrs, name)
}

// SetContextAttribute sets the attribute value associated with the name.
func (rc *RenderContext) SetContextAttribute(name string, value any) {
	rc.attrs[name] = value
}

// RequestScope returns the request scope map.
func (rc *RenderContext) RequestScope() map[string]any {
	return rc.scope
}

// RequestAttribute returns the request scope value associated with the name.
func (rc *RenderContext) RequestAttribute(name string) mo.Option[any] {
	return optionAt(rc.scope, name)
}

// SetRequestAttribute sets the request scope value associated with the name.
func (rc *RenderContext) SetRequestAttribute(name string, value any) {
	rc.scope[name] = value
}

// RemoveRequestAttribute removes the request scope value associated with the
// name and returns the value previously held.
func (rc *RenderContext) RemoveRequestAttribute(name string) mo.Option[any] {
	prior := optionAt(rc.scope, name)
	delete(rc.scope, name)
	return prior
}

// ViewID returns the identifier of the current view, or "" when there is no
// view.
func (rc *RenderContext) ViewID() string {
	return rc.viewID
}

// SetViewID switches the current view.
func (rc *RenderContext) SetViewID(viewID string) {
	rc.viewID = viewID
}

// Mapping returns the view mapping in effect for this request. A configured
// mapping wins; otherwise it is derived from the request path: a path with
// an extension means suffix style (the extension), anything else prefix
// style (the first path segment with a leading slash).
func (rc *RenderContext) Mapping() string {
	if m := rc.app.Mapping(); m != "" {
		return m
	}
	p := strings.TrimPrefix(rc.r.URL.Path, rc.app.ContextPath())
	if ext := path.Ext(p); ext != "" {
		return ext
	}
	p = strings.TrimPrefix(p, "/")
	if i := strings.Index(p, "/"); i >= 0 {
		p = p[:i]
	}
	return "/" + p
}

// MatchesMapping reports whether the given request path falls under the view
// mapping, i.e. whether the request would be served by the view layer.
func (rc *RenderContext) MatchesMapping(p string) bool {
	m := rc.Mapping()
	if IsPrefixMapping(m) {
		return p == m || match.Match(p, m+"/*")
	}
	return match.Match(p, "*"+m)
}

// NormalizeViewID normalizes the given path as a valid view ID based on the
// current mapping:
//   - prefix mapping and the path starts with it: the prefix is stripped
//   - suffix mapping and the path ends with it: the extension is replaced
//     with the configured default view suffix
//
// Any other path is returned untouched.
func (rc *RenderContext) NormalizeViewID(p string) string {
	m := rc.Mapping()
	if IsPrefixMapping(m) {
		if strings.HasPrefix(p, m) {
			return p[len(m):]
		}
	} else if strings.HasSuffix(p, m) {
		return p[:strings.LastIndex(p, ".")] + rc.app.DefaultViewSuffix()
	}
	return p
}

// Navigate hands the outcome to the navigator.
func (rc *RenderContext) Navigate(outcome string) {
	rc.nav.HandleNavigation(rc, outcome)
}

// SetResponseStatus sets the HTTP status code of the buffered response, e.g.
// rc.SetResponseStatus(http.StatusBadRequest).
func (rc *RenderContext) SetResponseStatus(status int) {
	rc.w.SetStatus(status)
}

// ResponseReset clears any headers which have been set and any data written
// to the response buffer. It returns ErrResponseCommitted when the response
// has already been committed.
func (rc *RenderContext) ResponseReset() error {
	return rc.w.Reset()
}

// IsResponseCommitted reports whether the response has been flushed to the
// client.
func (rc *RenderContext) IsResponseCommitted() bool {
	return rc.w.Committed()
}

// InitParameterMap returns the application init-parameter map.
func (rc *RenderContext) InitParameterMap() map[string]string {
	return rc.app.InitParameterMap()
}

// InitParameter returns the application init parameter for the given name.
func (rc *RenderContext) InitParameter(name string) mo.Option[string] {
	return rc.app.InitParameter(name)
}

// RequestCookie returns the value of the request cookie with the given name.
func (rc *RenderContext) RequestCookie(name string) mo.Option[string] {
	c, err := rc.r.Cookie(name)
	if err != nil {
		return mo.None[string]()
	}
	return mo.Some(c.Value)
}

// AddResponseCookie adds the cookie to the buffered response.
func (rc *RenderContext) AddResponseCookie(c *http.Cookie) {
	http.SetCookie(rc.w, c)
}

// Locale returns the locale of the current request with sane fallbacks: the
// first Accept-Language entry, else the configured default locale, else "en".
func (rc *RenderContext) Locale() string {
	header := rc.r.Header.Get("Accept-Language")
	first := strings.TrimSpace(strings.Split(strings.Split(header, ",")[0], ";")[0])
	if first == "*" {
		first = ""
	}
	return lo.CoalesceOrEmpty(first, rc.app.InitParameter(app.ParamDefaultLocale).OrElse(""), "en")
}

// optionAt lifts a map lookup into an Option.
func optionAt(m map[string]any, name string) mo.Option[any] {
	v, ok := m[name]
	return lo.Ternary(ok, mo.Some(v), mo.None[any]())
}
