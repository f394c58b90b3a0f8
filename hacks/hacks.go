// Package hacks is a collection of framework integration specific hacks.
package hacks

import (
	"net/http"

	"github.com/kcmvp/viewx"
)

// Bookkeeping keys the integrations leave in the render-context attribute
// map after asset rendering. They are internals of the respective adaptors,
// hard-coded here by literal value.
const (
	echoRenderedScriptResourcesKey     = "github.com/kcmvp/viewx/adaptor/echo.RENDERED_SCRIPT_RESOURCES"
	echoRenderedStylesheetResourcesKey = "github.com/kcmvp/viewx/adaptor/echo.RENDERED_STYLESHEET_RESOURCES"
	processedResourceDependenciesKey   = "github.com/kcmvp/viewx.PROCESSED_RESOURCE_DEPENDENCIES"
	renderedResourcesKey               = "github.com/kcmvp/viewx.RENDERED_RESOURCES"
)

var resourceDependencyKeys = []string{
	processedResourceDependenciesKey,
	echoRenderedScriptResourcesKey,
	echoRenderedStylesheetResourcesKey,
	renderedResourcesKey,
}

// RemoveResourceDependencyState removes the resource dependency processing
// related attributes from the given render context, so that a subsequent
// render pass emits all assets again.
func RemoveResourceDependencyState(rc *viewx.RenderContext) {
	// The core and echo integrations remember processed resource
	// dependencies in sets.
	attrs := rc.Attributes()
	for _, key := range resourceDependencyKeys {
		delete(attrs, key)
	}

	// A "<name><library>=true" entry is recorded for every processed
	// resource dependency.
	// TODO: this may possibly conflict with other keys with value=true. So
	// far tested, this is harmless.
	for key, value := range attrs {
		if flag, ok := value.(bool); ok && flag {
			delete(attrs, key)
		}
	}
}

// UnwrapResponseWriter returns the response writer wrapped by w, or nil when
// w exposes no Unwrap method. Some integrations stack writer wrappers that
// hide the one carrying the buffered response; this walks one level down,
// following the convention used by http.ResponseController.
func UnwrapResponseWriter(w http.ResponseWriter) http.ResponseWriter {
	if u, ok := w.(interface{ Unwrap() http.ResponseWriter }); ok {
		return u.Unwrap()
	}
	return nil
}
