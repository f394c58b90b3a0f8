package internal

// A private type to prevent key collisions in context.
type renderContextKeyType struct{}

// RenderContextKey is the key under which the per-request render context is
// carried in a request's context.Context.
var RenderContextKey = renderContextKeyType{}
