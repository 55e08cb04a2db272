package upload

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gipicihuy/kumpulan-prompt-ai/internal/config"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/apperr"
)

// pngBytes is a minimal PNG header, enough for content sniffing.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newTestService(primary, fallback string) *Service {
	return NewService(config.UploadOptions{
		MaxSizeMB:   1,
		PrimaryURL:  primary,
		FallbackURL: fallback,
	}, zap.NewNop())
}

func TestStoreUsesPrimaryHost(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.NotEmpty(t, header.Filename)
		w.Write([]byte(`{"data":{"url":"https://files.example/abc"}}`))
	}))
	defer primary.Close()

	svc := newTestService(primary.URL, "http://unreachable.invalid")
	url, err := svc.Store(context.Background(), pngBytes)
	require.NoError(t, err)
	assert.Equal(t, "https://files.example/abc", url)
}

func TestStoreRewritesTmpfilesURL(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"url":"https://tmpfiles.org/123/pic.png"}}`))
	}))
	defer primary.Close()

	svc := newTestService(primary.URL, "http://unreachable.invalid")
	url, err := svc.Store(context.Background(), pngBytes)
	require.NoError(t, err)
	assert.Equal(t, "https://tmpfiles.org/dl/123/pic.png", url)
}

func TestStoreFallsBackOnce(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer primary.Close()

	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"src":"/file/xyz.png"}]`))
	}))
	defer fallback.Close()

	svc := newTestService(primary.URL, fallback.URL+"/upload")
	url, err := svc.Store(context.Background(), pngBytes)
	require.NoError(t, err)
	assert.Equal(t, fallback.URL+"/file/xyz.png", url)
}

func TestStoreFailsWhenBothHostsFail(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"boom"}`))
	}))
	defer failing.Close()

	svc := newTestService("http://unreachable.invalid", failing.URL+"/upload")
	_, err := svc.Store(context.Background(), pngBytes)
	assert.True(t, apperr.IsKind(err, apperr.KindUpstream))
}

func TestStoreRejectsNonImage(t *testing.T) {
	svc := newTestService("http://unreachable.invalid", "http://unreachable.invalid")

	_, err := svc.Store(context.Background(), []byte("%PDF-1.4 not an image"))
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))

	_, err = svc.Store(context.Background(), nil)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
}

func TestStoreRejectsOversize(t *testing.T) {
	svc := newTestService("http://unreachable.invalid", "http://unreachable.invalid")

	big := make([]byte, (1<<20)+1)
	copy(big, pngBytes)
	_, err := svc.Store(context.Background(), big)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
}
