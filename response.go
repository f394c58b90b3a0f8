package viewx

import (
	"bytes"
	"errors"
	"net/http"
)

// ErrResponseCommitted is returned by ResponseBuffer.Reset once the buffered
// response has been flushed to the client.
var ErrResponseCommitted = errors.New("viewx: response is already committed")

// ResponseBuffer is the http.ResponseWriter handed to handlers running under
// Middleware. It holds status, headers and body until the middleware commits,
// so that SetResponseStatus and ResponseReset keep working for the whole
// handler chain. Flush commits early and forfeits resettability.
type ResponseBuffer struct {
	dst       http.ResponseWriter
	header    http.Header
	status    int
	body      bytes.Buffer
	committed bool
}

var _ http.ResponseWriter = (*ResponseBuffer)(nil)
var _ http.Flusher = (*ResponseBuffer)(nil)

// NewResponseBuffer wraps the destination writer.
func NewResponseBuffer(dst http.ResponseWriter) *ResponseBuffer {
	return &ResponseBuffer{dst: dst, header: http.Header{}, status: http.StatusOK}
}

// Header returns the buffered header map.
func (b *ResponseBuffer) Header() http.Header {
	return b.header
}

// Write appends to the buffered body.
func (b *ResponseBuffer) Write(p []byte) (int, error) {
	if b.committed {
		return b.dst.Write(p)
	}
	return b.body.Write(p)
}

// WriteHeader records the status code. Unlike the stock ResponseWriter it
// stays mutable until commit.
func (b *ResponseBuffer) WriteHeader(status int) {
	if b.committed {
		return
	}
	b.status = status
}

// SetStatus is an alias of WriteHeader matching the setter naming used by
// the render context.
func (b *ResponseBuffer) SetStatus(status int) {
	b.WriteHeader(status)
}

// Status returns the status code the response will be (or was) sent with.
func (b *ResponseBuffer) Status() int {
	return b.status
}

// Committed reports whether the response has been flushed to the client.
func (b *ResponseBuffer) Committed() bool {
	return b.committed
}

// Reset clears the buffered status, headers and body. It fails once the
// response is committed, as there is nothing left to take back.
func (b *ResponseBuffer) Reset() error {
	if b.committed {
		return ErrResponseCommitted
	}
	b.status = http.StatusOK
	b.header = http.Header{}
	b.body.Reset()
	return nil
}

// Flush commits the buffered response and flushes the destination when it
// supports flushing.
func (b *ResponseBuffer) Flush() {
	_ = b.commit()
	if f, ok := b.dst.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the destination writer, following the convention used by
// http.ResponseController.
func (b *ResponseBuffer) Unwrap() http.ResponseWriter {
	return b.dst
}

// commit writes status, headers and body through to the destination. It is
// idempotent; Middleware calls it after the handler chain returns.
func (b *ResponseBuffer) commit() error {
	if b.committed {
		return nil
	}
	b.committed = true
	if b.status == http.StatusOK && len(b.header) == 0 && b.body.Len() == 0 {
		// Nothing recorded; the handler wrote straight to the destination.
		return nil
	}
	dst := b.dst.Header()
	for k, vs := range b.header {
		dst[k] = vs
	}
	b.dst.WriteHeader(b.status)
	_, err := b.dst.Write(b.body.Bytes())
	return err
}
