package viewx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResponseBuffer(t *testing.T) {
	t.Run("buffers_until_commit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		b := NewResponseBuffer(rec)
		b.WriteHeader(http.StatusCreated)
		b.Header().Set("X-Probe", "yes")
		_, err := b.Write([]byte("payload"))
		require.NoError(t, err)

		require.Empty(t, rec.Body.String())
		require.NoError(t, b.commit())
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, "yes", rec.Header().Get("X-Probe"))
		require.Equal(t, "payload", rec.Body.String())
	})
	t.Run("status_stays_mutable", func(t *testing.T) {
		b := NewResponseBuffer(httptest.NewRecorder())
		b.WriteHeader(http.StatusNotFound)
		b.WriteHeader(http.StatusOK)
		require.Equal(t, http.StatusOK, b.Status())
	})
	t.Run("reset", func(t *testing.T) {
		rec := httptest.NewRecorder()
		b := NewResponseBuffer(rec)
		b.WriteHeader(http.StatusInternalServerError)
		b.Header().Set("X-Probe", "yes")
		_, _ = b.Write([]byte("broken"))

		require.NoError(t, b.Reset())
		_, _ = b.Write([]byte("fixed"))
		require.NoError(t, b.commit())
		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, rec.Header().Get("X-Probe"))
		require.Equal(t, "fixed", rec.Body.String())
	})
	t.Run("reset_after_commit_fails", func(t *testing.T) {
		b := NewResponseBuffer(httptest.NewRecorder())
		_, _ = b.Write([]byte("sent"))
		require.NoError(t, b.commit())
		require.True(t, b.Committed())
		require.ErrorIs(t, b.Reset(), ErrResponseCommitted)
	})
	t.Run("write_after_commit_passes_through", func(t *testing.T) {
		rec := httptest.NewRecorder()
		b := NewResponseBuffer(rec)
		_, _ = b.Write([]byte("first"))
		require.NoError(t, b.commit())
		_, _ = b.Write([]byte(" second"))
		require.Equal(t, "first second", rec.Body.String())
	})
	t.Run("empty_commit_writes_nothing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		b := NewResponseBuffer(rec)
		require.NoError(t, b.commit())
		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, rec.Body.String())
	})
	t.Run("unwrap", func(t *testing.T) {
		rec := httptest.NewRecorder()
		b := NewResponseBuffer(rec)
		require.Equal(t, http.ResponseWriter(rec), b.Unwrap())
	})
}
