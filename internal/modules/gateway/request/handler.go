// Package request implements the public "request a prompt" form: validated
// input, optional human verification, then a relay to the notification chat.
package request

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/apperr"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/captcha"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/response"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/telegram"
)

type Service struct {
	notifier *telegram.Client
	verifier *captcha.Verifier
	logger   *zap.Logger
}

func NewService(notifier *telegram.Client, verifier *captcha.Verifier, logger *zap.Logger) *Service {
	return &Service{notifier: notifier, verifier: verifier, logger: logger}
}

// RequestDTO is the public form payload.
type RequestDTO struct {
	Title        string `json:"title"`
	Category     string `json:"category"`
	Body         string `json:"body"`
	CaptchaToken string `json:"captchaToken"`
}

// Submit relays one prompt request. Unlike the analytics side effects this
// relay is the whole point of the call, so its failure fails the request.
func (s *Service) Submit(ctx context.Context, dto RequestDTO, remoteIP string) error {
	title := strings.TrimSpace(dto.Title)
	category := strings.TrimSpace(dto.Category)
	body := strings.TrimSpace(dto.Body)
	if title == "" || category == "" || body == "" {
		return apperr.InvalidArgument("title, category and body are required")
	}

	ok, err := s.verifier.Verify(ctx, dto.CaptchaToken, remoteIP)
	if err != nil {
		return apperr.Upstream("captcha verification failed", err)
	}
	if !ok {
		return apperr.Unauthorized("captcha verification failed")
	}

	if !s.notifier.Configured() {
		return apperr.Upstream("notification relay is not configured", nil)
	}

	text := fmt.Sprintf("*New prompt request*\n\n*Title:* %s\n*Category:* %s\n\n*Body:*\n```\n%s\n```",
		title, category, body)
	if err := s.notifier.Send(text); err != nil {
		s.logger.Error("failed relaying prompt request", zap.Error(err))
		return apperr.Upstream("failed relaying prompt request", err)
	}
	return nil
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, _ gin.HandlerFunc) {
	rg.POST("/request-prompt", h.submit)
}

func (h *Handler) submit(c *gin.Context) {
	var dto RequestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "title, category and body are required")
		return
	}
	if err := h.svc.Submit(c.Request.Context(), dto, c.ClientIP()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "request sent"})
}
