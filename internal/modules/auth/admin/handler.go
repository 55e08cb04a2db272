// Package admin implements the admin login: a username/password pair checked
// by plaintext equality against the stored account, returning the static
// shared secret as the bearer token for every subsequent admin call. There
// is no session and no expiry.
package admin

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/apperr"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/response"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/store"
)

type Service struct {
	users       *store.UserStore
	adminSecret string
}

func NewService(users *store.UserStore, adminSecret string) *Service {
	return &Service{users: users, adminSecret: adminSecret}
}

// LoginResult is the successful login payload.
type LoginResult struct {
	Token      string
	ProfileURL string
}

// Login checks the credentials. A missing account and a wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, apperr.InvalidArgument("username and password are required")
	}

	user, err := s.users.Get(ctx, username)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.Unauthorized("login failed")
		}
		return nil, err
	}
	if user.Password == "" || user.Password != password {
		return nil, apperr.Unauthorized("login failed")
	}

	return &LoginResult{Token: s.adminSecret, ProfileURL: user.ProfileURL}, nil
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, _ gin.HandlerFunc) {
	rg.POST("/auth/login", h.login)
}

type loginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var dto loginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "username and password are required")
		return
	}
	result, err := h.svc.Login(c.Request.Context(), dto.Username, dto.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"token": result.Token, "profileUrl": result.ProfileURL})
}
