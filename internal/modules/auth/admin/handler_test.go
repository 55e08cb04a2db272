package admin

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

	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/apperr"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/store"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/store/storetest"
)

const testSecret = "static-admin-secret"

func newTestService(t *testing.T) (*Service, *storetest.MemoryKV) {
	t.Helper()
	kv := storetest.NewMemoryKV()
	require.NoError(t, kv.HSet(context.Background(), "user:gipi", map[string]interface{}{
		"password":   "hunter2",
		"profileUrl": "https://img.example/gipi.png",
	}))
	return NewService(store.NewUserStore(kv), testSecret), kv
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, "gipi", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, testSecret, result.Token)
	assert.Equal(t, "https://img.example/gipi.png", result.ProfileURL)

	_, err = svc.Login(ctx, "gipi", "wrong")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

	// Unknown user reads the same as a wrong password.
	_, err = svc.Login(ctx, "nobody", "hunter2")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

	_, err = svc.Login(ctx, "", "")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
}

func TestLoginEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api"), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"gipi","password":"hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, testSecret, body["token"])

	req = httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"gipi","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
