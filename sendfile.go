package viewx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/samber/lo"
)

const (
	defaultMimeType       = "application/octet-stream"
	sendFileBufferSize    = 10240
	contentDispositionFmt = "%s;filename=\"%[2]s\"; filename*=UTF-8''%[3]s"
)

// SendFile serves the file at the given path as a download to the client,
// inline or as attachment. Content type is derived from the file extension,
// content length from the file size.
func (rc *RenderContext) SendFile(path string, attachment bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	return rc.send(f, filepath.Base(path), info.Size(), attachment)
}

// SendBytes serves the given bytes as a download with the given file name.
func (rc *RenderContext) SendBytes(content []byte, filename string, attachment bool) error {
	return rc.send(bytes.NewReader(content), filename, int64(len(content)), attachment)
}

// SendStream serves the given reader as a download with the given file name.
// The content length is unknown, so the response streams without one.
func (rc *RenderContext) SendStream(r io.Reader, filename string, attachment bool) error {
	return rc.send(r, filename, -1, attachment)
}

func (rc *RenderContext) send(r io.Reader, filename string, size int64, attachment bool) error {
	lo.Assert(filename != "", "viewx: file name must not be empty")
	if rc.w.Committed() {
		return ErrResponseCommitted
	}
	_ = rc.w.Reset()
	header := rc.w.Header()
	header.Set("Content-Type", lo.CoalesceOrEmpty(mime.TypeByExtension(filepath.Ext(filename)), defaultMimeType))
	disposition := lo.Ternary(attachment, "attachment", "inline")
	header.Set("Content-Disposition", fmt.Sprintf(contentDispositionFmt, disposition, filename, url.PathEscape(filename)))
	if size >= 0 {
		header.Set("Content-Length", strconv.FormatInt(size, 10))
	}
	_, err := io.CopyBuffer(rc.w, r, make([]byte, sendFileBufferSize))
	return err
}

// SendFile serves a file through the current render context.
func SendFile(ctx context.Context, path string, attachment bool) error {
	return Current(ctx).SendFile(path, attachment)
}

// SendBytes serves bytes through the current render context.
func SendBytes(ctx context.Context, content []byte, filename string, attachment bool) error {
	return Current(ctx).SendBytes(content, filename, attachment)
}

// SendStream serves a reader through the current render context.
func SendStream(ctx context.Context, r io.Reader, filename string, attachment bool) error {
	return Current(ctx).SendStream(r, filename, attachment)
}
