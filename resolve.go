package viewx

import (
	"context"
	"reflect"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// ResolveIn evaluates a dot-path expression against the scope chain of the
// render context, searching request scope, then context attributes, then
// session attributes, then application init parameters for the first path
// segment and traversing the rest through nested maps and slices:
//
//	user := viewx.ResolveIn[string](rc, "order.customer.name")
//	item := viewx.ResolveIn[any](rc, "cart.items.0")
//
// A missing segment yields None; a present final value of the wrong type
// panics, as that is a programming error on the caller side.
func ResolveIn[T any](rc *RenderContext, expr string) mo.Option[T] {
	lo.Assert(expr != "", "viewx: expression must not be empty")
	// A dotted name may be a literal key in one of the scopes, the way init
	// parameters are conventionally named ("viewx.locale"). The literal wins
	// over traversal.
	if v, ok := rc.scopeLookup(expr); ok {
		return narrow[T](expr, v)
	}
	parts := strings.Split(expr, ".")
	root, ok := rc.scopeLookup(parts[0])
	if !ok {
		return mo.None[T]()
	}
	current := root
	for _, part := range parts[1:] {
		if current == nil {
			return mo.None[T]()
		}
		if m, isMap := current.(map[string]any); isMap {
			next, exists := m[part]
			if !exists {
				return mo.None[T]()
			}
			current = next
			continue
		}
		val := reflect.ValueOf(current)
		if val.Kind() == reflect.Slice {
			index, err := strconv.Atoi(part)
			lo.Assertf(err == nil, "viewx: path part '%s' in '%s' is not a valid slice index", part, expr)
			if index < 0 || index >= val.Len() {
				return mo.None[T]()
			}
			current = val.Index(index).Interface()
			continue
		}
		// Traversing into a primitive from a non-final segment.
		return mo.None[T]()
	}
	return narrow[T](expr, current)
}

func narrow[T any](expr string, v any) mo.Option[T] {
	typed, ok := v.(T)
	lo.Assertf(ok, "viewx: expression '%s' has wrong type: expected %T, got %T", expr, *new(T), v)
	return mo.Some(typed)
}

// Resolve evaluates a dot-path expression against the scope chain of the
// current render context. See ResolveIn.
func Resolve[T any](ctx context.Context, expr string) mo.Option[T] {
	return ResolveIn[T](Current(ctx), expr)
}

// scopeLookup finds the root value of an expression, walking the scopes from
// narrowest to widest.
func (rc *RenderContext) scopeLookup(name string) (any, bool) {
	if v, ok := rc.scope[name]; ok {
		return v, true
	}
	if v, ok := rc.attrs[name]; ok {
		return v, true
	}
	if sess := rc.Session(false); sess != nil {
		if v, ok := sess.Attribute(name).Get(); ok {
			return v, true
		}
	}
	if v, ok := rc.app.InitParameter(name).Get(); ok {
		return v, true
	}
	return nil, false
}
