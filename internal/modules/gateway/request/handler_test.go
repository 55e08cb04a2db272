package request

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
	"go.uber.org/zap"

	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/apperr"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/captcha"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/telegram"
)

func newRelayServer(t *testing.T, ok bool, got *map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		if ok {
			w.Write([]byte(`{"ok":true}`))
		} else {
			w.Write([]byte(`{"ok":false}`))
		}
	}))
}

func TestSubmitRelaysMessage(t *testing.T) {
	var got map[string]interface{}
	relay := newRelayServer(t, true, &got)
	defer relay.Close()

	svc := NewService(
		telegram.New("bot-token", "chat-1", relay.URL),
		captcha.New(false, "", ""),
		zap.NewNop(),
	)

	err := svc.Submit(context.Background(), RequestDTO{
		Title:    "Resep nasi goreng",
		Category: "Masak",
		Body:     "tuliskan resep lengkap",
	}, "1.2.3.4")
	require.NoError(t, err)

	assert.Equal(t, "chat-1", got["chat_id"])
	text, _ := got["text"].(string)
	assert.Contains(t, text, "Resep nasi goreng")
	assert.Contains(t, text, "Masak")
}

func TestSubmitValidation(t *testing.T) {
	svc := NewService(telegram.New("", "", ""), captcha.New(false, "", ""), zap.NewNop())

	err := svc.Submit(context.Background(), RequestDTO{Title: "x"}, "")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
}

func TestSubmitUnconfiguredRelay(t *testing.T) {
	svc := NewService(telegram.New("", "", ""), captcha.New(false, "", ""), zap.NewNop())

	err := svc.Submit(context.Background(), RequestDTO{Title: "t", Category: "c", Body: "b"}, "")
	assert.True(t, apperr.IsKind(err, apperr.KindUpstream))
}

func TestSubmitRelayRejection(t *testing.T) {
	relay := newRelayServer(t, false, nil)
	defer relay.Close()

	svc := NewService(telegram.New("bot", "chat", relay.URL), captcha.New(false, "", ""), zap.NewNop())
	err := svc.Submit(context.Background(), RequestDTO{Title: "t", Category: "c", Body: "b"}, "")
	assert.True(t, apperr.IsKind(err, apperr.KindUpstream))
}

func TestSubmitCaptchaRejection(t *testing.T) {
	verify := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false}`))
	}))
	defer verify.Close()

	relay := newRelayServer(t, true, nil)
	defer relay.Close()

	svc := NewService(
		telegram.New("bot", "chat", relay.URL),
		captcha.New(true, "secret", verify.URL),
		zap.NewNop(),
	)

	err := svc.Submit(context.Background(), RequestDTO{Title: "t", Category: "c", Body: "b", CaptchaToken: "tok"}, "")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

	// An empty token never reaches the relay either.
	err = svc.Submit(context.Background(), RequestDTO{Title: "t", Category: "c", Body: "b"}, "")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}

func TestSubmitEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	relay := newRelayServer(t, true, nil)
	defer relay.Close()

	svc := NewService(telegram.New("bot", "chat", relay.URL), captcha.New(false, "", ""), zap.NewNop())
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api"), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/request-prompt",
		strings.NewReader(`{"title":"t","category":"c","body":"b"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
