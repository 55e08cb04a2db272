package gate

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/response"
)

const cookiePrefix = "prompt_session_"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, _ gin.HandlerFunc) {
	p := rg.Group("/prompts")
	p.GET("/:slug", h.detail)
	p.POST("/:slug/unlock", h.unlock)
}

func cookieName(slug string) string { return cookiePrefix + slug }

func (h *Handler) detail(c *gin.Context) {
	slug := c.Param("slug")

	token, err := c.Cookie(cookieName(slug))
	hasCookie := err == nil

	res, err := h.svc.Resolve(c.Request.Context(), slug, token, hasCookie)
	if err != nil {
		response.Error(c, err)
		return
	}

	if res.ClearCookie {
		c.SetCookie(cookieName(slug), "", -1, "/", "", false, true)
	}

	p := res.Prompt
	body := gin.H{
		"slug":       p.Slug,
		"title":      p.Title,
		"category":   p.Category,
		"uploadedBy": p.UploadedBy,
		"createdAt":  p.CreatedAt,
		"timestamp":  p.Timestamp,
		"analytics":  res.Analytics,
	}
	if p.ImageURL != "" {
		body["imageUrl"] = p.ImageURL
	}
	if res.ProfileURL != "" {
		body["profileUrl"] = res.ProfileURL
	}
	if res.Locked {
		body["locked"] = true
	} else {
		body["body"] = p.Body
		if p.Description != "" {
			body["description"] = p.Description
		}
	}
	response.OK(c, body)
}

type unlockDTO struct {
	Password string `json:"password"`
}

func (h *Handler) unlock(c *gin.Context) {
	slug := c.Param("slug")

	var dto unlockDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "password is required")
		return
	}

	token, err := h.svc.Unlock(c.Request.Context(), slug, dto.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Session-lifetime cookie: the server-side grant TTL does the real
	// re-locking.
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(cookieName(slug), token, 0, "/", "", false, true)
	response.OK(c, gin.H{"message": "unlocked"})
}
