package captcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyDisabledAlwaysPasses(t *testing.T) {
	ok, err := New(false, "", "").Verify(context.Background(), "", "")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyEmptyTokenRejected(t *testing.T) {
	ok, err := New(true, "s", "http://unused.test").Verify(context.Background(), "  ", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPostsFormAndReadsResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "secret-key", r.PostForm.Get("secret"))
		assert.Equal(t, "tok", r.PostForm.Get("response"))
		assert.Equal(t, "1.2.3.4", r.PostForm.Get("remoteip"))
		_, _ = w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	ok, err := New(true, "secret-key", srv.URL).Verify(context.Background(), "tok", "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyServiceRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false}`))
	}))
	defer srv.Close()

	ok, err := New(true, "s", srv.URL).Verify(context.Background(), "tok", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyUnconfigured(t *testing.T) {
	_, err := New(true, "", "").Verify(context.Background(), "tok", "")
	assert.Error(t, err)
}
