package viewx

import (
	"bytes"
	"context"
	"io"

	"github.com/samber/mo"
	"github.com/tidwall/gjson"
)

// Body returns the raw request body. The body is read once and cached on the
// render context; the request's Body is replaced so that downstream binding
// still sees the full payload.
func (rc *RenderContext) Body() ([]byte, error) {
	if rc.bodyRead {
		return rc.body, nil
	}
	b, err := io.ReadAll(rc.r.Body)
	if err != nil {
		return nil, err
	}
	_ = rc.r.Body.Close()
	rc.r.Body = io.NopCloser(bytes.NewReader(b))
	rc.body = b
	rc.bodyRead = true
	return b, nil
}

// BodyJSON extracts a single value from a JSON request body by gjson path,
// without binding the whole payload:
//
//	name := rc.BodyJSON("customer.name")
//
// None is returned when the body cannot be read or the path does not exist.
func (rc *RenderContext) BodyJSON(path string) mo.Option[gjson.Result] {
	b, err := rc.Body()
	if err != nil {
		return mo.None[gjson.Result]()
	}
	res := gjson.GetBytes(b, path)
	if !res.Exists() {
		return mo.None[gjson.Result]()
	}
	return mo.Some(res)
}

// Body returns the raw request body of the current render context.
func Body(ctx context.Context) ([]byte, error) {
	return Current(ctx).Body()
}

// BodyJSON extracts a single value from the JSON request body of the current
// render context by gjson path.
func BodyJSON(ctx context.Context, path string) mo.Option[gjson.Result] {
	return Current(ctx).BodyJSON(path)
}
