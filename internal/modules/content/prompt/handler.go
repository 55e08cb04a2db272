package prompt

import (
	"github.com/gin-gonic/gin"

	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/response"
)

type Handler struct {
	svc     *Service
	cacheMW gin.HandlerFunc
}

// NewHandler builds the handler. cacheMW, when non-nil, is applied to the
// public list route only; gated and admin routes must never be cached.
func NewHandler(svc *Service, cacheMW gin.HandlerFunc) *Handler {
	return &Handler{svc: svc, cacheMW: cacheMW}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	if h.cacheMW != nil {
		rg.GET("/prompts", h.cacheMW, h.publicList)
	} else {
		rg.GET("/prompts", h.publicList)
	}

	a := rg.Group("/admin/prompts", authMW)
	a.GET("", h.adminList)
	a.POST("", h.create)
	a.GET("/check-slug", h.checkSlug)
	a.PUT("/:slug", h.update)
	a.DELETE("/:slug", h.delete)
}

func (h *Handler) publicList(c *gin.Context) {
	items, err := h.svc.PublicList(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"prompts": items})
}

func (h *Handler) adminList(c *gin.Context) {
	items, err := h.svc.AdminList(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"prompts": items})
}

func (h *Handler) create(c *gin.Context) {
	var dto CreatePromptDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "slug, title and body are required")
		return
	}
	record, err := h.svc.Create(c.Request.Context(), dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"slug": record.Slug, "message": "prompt created"})
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdatePromptDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "title and body are required")
		return
	}
	_, changed, err := h.svc.Update(c.Request.Context(), c.Param("slug"), dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	message := "no changes"
	if changed {
		message = "prompt updated"
	}
	response.OK(c, gin.H{"slug": c.Param("slug"), "message": message})
}

func (h *Handler) delete(c *gin.Context) {
	title, err := h.svc.Delete(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "deleted " + title})
}

func (h *Handler) checkSlug(c *gin.Context) {
	slug := c.Query("slug")
	if slug == "" {
		response.BadRequest(c, "slug is required")
		return
	}
	record, taken, err := h.svc.CheckSlug(c.Request.Context(), slug)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !taken {
		response.OK(c, gin.H{"available": true})
		return
	}
	response.OK(c, gin.H{
		"available":  false,
		"title":      record.Title,
		"category":   record.Category,
		"uploadedBy": record.UploadedBy,
		"createdAt":  record.CreatedAt,
	})
}
