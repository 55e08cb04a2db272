// Package upload implements the admin image upload: multipart file in,
// public URL out, via a chain of third-party hosts with one fallback
// attempt.
package upload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gipicihuy/kumpulan-prompt-ai/internal/config"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/apperr"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/response"
)

var imageExt = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/bmp":     ".bmp",
	"image/svg+xml": ".svg",
}

type Service struct {
	hosts    []Host
	maxBytes int64
	logger   *zap.Logger
}

// NewService wires the host chain from config: S3 when fully configured,
// otherwise the pomf-style primary, then the telegraph-style fallback.
func NewService(opts config.UploadOptions, logger *zap.Logger) *Service {
	var primary Host
	if opts.S3.Enabled() {
		primary = newS3Host(opts.S3)
	} else {
		primary = newPomfHost(opts.PrimaryURL)
	}
	return &Service{
		hosts:    []Host{primary, newTelegraphHost(opts.FallbackURL)},
		maxBytes: int64(opts.MaxSizeMB) << 20,
		logger:   logger,
	}
}

// Store sniffs and validates the payload, then walks the host chain. One
// fallback attempt, no further retries.
func (s *Service) Store(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", apperr.InvalidArgument("no file uploaded")
	}
	if int64(len(data)) > s.maxBytes {
		return "", apperr.InvalidArgument("file exceeds the %d MB limit", s.maxBytes>>20)
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExt[contentType]
	if !ok || !strings.HasPrefix(contentType, "image/") {
		return "", apperr.InvalidArgument("only image files are allowed")
	}

	filename := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)

	var lastErr error
	for _, host := range s.hosts {
		url, err := host.Upload(ctx, filename, contentType, data)
		if err == nil {
			return url, nil
		}
		s.logger.Warn("image host upload failed",
			zap.String("host", host.Name()), zap.Error(err))
		lastErr = err
	}
	return "", apperr.Upstream("all image hosts failed", lastErr)
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/admin/upload", authMW, h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "no file uploaded")
		return
	}
	if file.Size > h.svc.maxBytes {
		response.BadRequest(c, fmt.Sprintf("file exceeds the %d MB limit", h.svc.maxBytes>>20))
		return
	}

	src, err := file.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, h.svc.maxBytes+1))
	if err != nil {
		response.InternalError(c)
		return
	}

	url, err := h.svc.Store(c.Request.Context(), data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"imageUrl": url})
}
