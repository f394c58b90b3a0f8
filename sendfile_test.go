package viewx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kcmvp/viewx/app"
	"github.com/stretchr/testify/require"
)

func TestSendBytes(t *testing.T) {
	t.Run("attachment", func(t *testing.T) {
		rc, rec := newTestContext(t, "/download", WithApp(app.New()))
		require.NoError(t, rc.SendBytes([]byte("%PDF-fake"), "report 2024.pdf", true))
		require.NoError(t, rc.w.commit())

		require.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		require.Equal(t, "9", rec.Header().Get("Content-Length"))
		disposition := rec.Header().Get("Content-Disposition")
		require.True(t, strings.HasPrefix(disposition, "attachment;"))
		require.Contains(t, disposition, `filename="report 2024.pdf"`)
		require.Contains(t, disposition, "filename*=UTF-8''report%202024.pdf")
		require.Equal(t, "%PDF-fake", rec.Body.String())
	})
	t.Run("inline", func(t *testing.T) {
		rc, rec := newTestContext(t, "/download", WithApp(app.New()))
		require.NoError(t, rc.SendBytes([]byte("body"), "note.txt", false))
		require.NoError(t, rc.w.commit())
		require.True(t, strings.HasPrefix(rec.Header().Get("Content-Disposition"), "inline;"))
	})
	t.Run("unknown_extension_falls_back", func(t *testing.T) {
		rc, rec := newTestContext(t, "/download", WithApp(app.New()))
		require.NoError(t, rc.SendBytes([]byte{0x1}, "blob.weird-ext", true))
		require.NoError(t, rc.w.commit())
		require.Equal(t, defaultMimeType, rec.Header().Get("Content-Type"))
	})
}

func TestSendFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greeting.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello, file"), 0o644))

	rc, rec := newTestContext(t, "/download", WithApp(app.New()))
	require.NoError(t, rc.SendFile(path, true))
	require.NoError(t, rc.w.commit())

	require.Equal(t, "hello, file", rec.Body.String())
	require.Equal(t, "11", rec.Header().Get("Content-Length"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), `filename="greeting.txt"`)

	require.Error(t, rc.SendFile(filepath.Join(dir, "missing.txt"), true))
}

func TestSendStream(t *testing.T) {
	rc, rec := newTestContext(t, "/download", WithApp(app.New()))
	require.NoError(t, rc.SendStream(strings.NewReader("streamed"), "log.txt", false))
	require.NoError(t, rc.w.commit())
	require.Equal(t, "streamed", rec.Body.String())
	require.Empty(t, rec.Header().Get("Content-Length"))
}
