package viewx

import (
	"context"

	"github.com/samber/lo"
)

// Attribute keys under which asset bookkeeping accumulates. The gin and
// fiber integrations run the plain core middleware and share one combined
// set; the echo integration tracks scripts and stylesheets separately. The
// hacks package knows these keys and strips them between render passes.
const (
	processedResourcesKey      = "github.com/kcmvp/viewx.PROCESSED_RESOURCE_DEPENDENCIES"
	echoRenderedScriptsKey     = "github.com/kcmvp/viewx/adaptor/echo.RENDERED_SCRIPT_RESOURCES"
	echoRenderedStylesheetsKey = "github.com/kcmvp/viewx/adaptor/echo.RENDERED_STYLESHEET_RESOURCES"
	renderedAssetsKey          = "github.com/kcmvp/viewx.RENDERED_RESOURCES"
)

// AssetKind distinguishes script from stylesheet resources.
type AssetKind string

const (
	AssetScript     AssetKind = "script"
	AssetStylesheet AssetKind = "stylesheet"
)

// Asset identifies a script or stylesheet resource by library and name.
type Asset struct {
	Library string
	Name    string
	Kind    AssetKind
}

func (a Asset) key() string {
	return lo.Ternary(a.Library == "", a.Name, a.Library+":"+a.Name)
}

// AddScriptResource registers a script resource dependency for the current
// view. A given resource is emitted at most once per view; the return value
// reports whether this call was the first.
func (rc *RenderContext) AddScriptResource(library, name string) bool {
	return rc.addAsset(Asset{Library: library, Name: name, Kind: AssetScript})
}

// AddStylesheetResource registers a stylesheet resource dependency for the
// current view, with the same at-most-once semantics as AddScriptResource.
func (rc *RenderContext) AddStylesheetResource(library, name string) bool {
	return rc.addAsset(Asset{Library: library, Name: name, Kind: AssetStylesheet})
}

// RenderedAssets returns the resources registered so far, in emit order.
func (rc *RenderContext) RenderedAssets() []Asset {
	list, _ := rc.attrs[renderedAssetsKey].([]Asset)
	return list
}

func (rc *RenderContext) addAsset(a Asset) bool {
	lo.Assert(a.Name != "", "viewx: asset name must not be empty")
	set := rc.assetSet(a.Kind)
	if _, done := set[a.key()]; done {
		return false
	}
	set[a.key()] = struct{}{}
	// Per-asset "<name><library>=true" flag, kept for component libraries
	// layered on top that test it.
	rc.attrs[a.Name+a.Library] = true
	list, _ := rc.attrs[renderedAssetsKey].([]Asset)
	rc.attrs[renderedAssetsKey] = append(list, a)
	return true
}

func (rc *RenderContext) assetSet(kind AssetKind) map[string]struct{} {
	key := processedResourcesKey
	if rc.vendor == VendorEcho {
		key = lo.Ternary(kind == AssetScript, echoRenderedScriptsKey, echoRenderedStylesheetsKey)
	}
	set, ok := rc.attrs[key].(map[string]struct{})
	if !ok {
		set = map[string]struct{}{}
		rc.attrs[key] = set
	}
	return set
}

// AddScriptResource registers a script resource dependency on the current
// render context.
func AddScriptResource(ctx context.Context, library, name string) bool {
	return Current(ctx).AddScriptResource(library, name)
}

// AddStylesheetResource registers a stylesheet resource dependency on the
// current render context.
func AddStylesheetResource(ctx context.Context, library, name string) bool {
	return Current(ctx).AddStylesheetResource(library, name)
}

// RenderedAssets returns the resources registered on the current render
// context, in emit order.
func RenderedAssets(ctx context.Context) []Asset {
	return Current(ctx).RenderedAssets()
}
