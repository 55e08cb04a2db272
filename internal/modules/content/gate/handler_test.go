package gate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gipicihuy/kumpulan-prompt-ai/internal/models"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api"), nil)
	return r, svc
}

func doJSON(r *gin.Engine, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder, slug string) *http.Cookie {
	t.Helper()
	res := w.Result()
	defer res.Body.Close()
	for _, c := range res.Cookies() {
		if c.Name == cookieName(slug) {
			return c
		}
	}
	return nil
}

func TestUnlockFlow(t *testing.T) {
	r, svc := newTestRouter(t)
	savePrompt(t, svc, models.PromptModel{Slug: "foo", Title: "Foo", Body: "the goods", Password: "secret"})

	// Fresh protected prompt: password required, nothing leaks.
	w := doJSON(r, http.MethodGet, "/api/prompts/foo", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["locked"])
	assert.NotContains(t, body, "body")
	assert.NotContains(t, body, "password")

	// Wrong password: rejected, no cookie issued.
	w = doJSON(r, http.MethodPost, "/api/prompts/foo/unlock", `{"password":"wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, sessionCookie(t, w, "foo"))

	// Correct password: success, session cookie set, no content payload.
	w = doJSON(r, http.MethodPost, "/api/prompts/foo/unlock", `{"password":"secret"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w, "foo")
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Zero(t, cookie.MaxAge, "session-lifetime cookie, no max-age")
	body = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotContains(t, body, "body")
	assert.NotContains(t, body, "password")

	// Gate with the cookie: full content, views becomes 1.
	w = doJSON(r, http.MethodGet, "/api/prompts/foo", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "the goods", body["body"])
	assert.NotContains(t, body, "locked")

	snap, err := svc.analytics.Get(context.Background(), "foo")
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.Views)
}

func TestDetailClearsStaleCookie(t *testing.T) {
	r, svc := newTestRouter(t)
	savePrompt(t, svc, models.PromptModel{Slug: "foo", Title: "Foo", Body: "b", Password: "secret"})

	stale := &http.Cookie{Name: cookieName("foo"), Value: "expired-token"}
	w := doJSON(r, http.MethodGet, "/api/prompts/foo", "", stale)
	require.Equal(t, http.StatusOK, w.Code)

	cleared := sessionCookie(t, w, "foo")
	require.NotNil(t, cleared, "stale cookie must be overwritten")
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["locked"])
}

func TestDetailUnknownSlug(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(r, http.MethodGet, "/api/prompts/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnlockUnprotected(t *testing.T) {
	r, svc := newTestRouter(t)
	savePrompt(t, svc, models.PromptModel{Slug: "open", Title: "Open", Body: "b"})

	w := doJSON(r, http.MethodPost, "/api/prompts/open/unlock", `{"password":"x"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
