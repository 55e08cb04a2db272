// Package analytics exposes the public engagement counters: a write-only
// track endpoint and a per-slug snapshot read.
package analytics

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/gipicihuy/kumpulan-prompt-ai/internal/models"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/apperr"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/response"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/store"
)

type Service struct {
	analytics *store.AnalyticsStore
}

func NewService(analytics *store.AnalyticsStore) *Service {
	return &Service{analytics: analytics}
}

// Track validates the action against the closed set and applies exactly one
// atomic increment, returning the post-increment snapshot.
func (s *Service) Track(ctx context.Context, slug string, action models.AnalyticsAction) (models.AnalyticsSnapshot, error) {
	if slug == "" {
		return models.AnalyticsSnapshot{}, apperr.InvalidArgument("slug is required")
	}
	field := action.CounterField()
	if field == "" {
		return models.AnalyticsSnapshot{}, apperr.InvalidArgument("unknown action %q", string(action))
	}
	return s.analytics.Increment(ctx, slug, field)
}

// Snapshot returns the counters for slug; never-tracked slugs read all-zero.
func (s *Service) Snapshot(ctx context.Context, slug string) (models.AnalyticsSnapshot, error) {
	return s.analytics.Get(ctx, slug)
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, _ gin.HandlerFunc) {
	a := rg.Group("/analytics")
	a.POST("/track", h.track)
	a.GET("/:slug", h.snapshot)
}

type trackDTO struct {
	Slug   string `json:"slug"`
	Action string `json:"action"`
}

func (h *Handler) track(c *gin.Context) {
	var dto trackDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "slug and action are required")
		return
	}
	snap, err := h.svc.Track(c.Request.Context(), dto.Slug, models.AnalyticsAction(dto.Action))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"analytics": snap})
}

func (h *Handler) snapshot(c *gin.Context) {
	snap, err := h.svc.Snapshot(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"analytics": snap})
}
