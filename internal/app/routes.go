package app

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gipicihuy/kumpulan-prompt-ai/internal/middleware"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/modules/auth/admin"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/modules/content/gate"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/modules/content/prompt"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/modules/gateway/request"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/modules/stats/analytics"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/modules/storage/upload"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/captcha"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/response"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/telegram"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/store"
)

var processStart = time.Now()

func (a *App) registerRoutes() {
	r := a.router
	cfg := a.cfg

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "not found")
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	// Shared infrastructure
	notifier := telegram.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.APIBase)
	verifier := captcha.New(cfg.Captcha.Enable, cfg.Captcha.Secret, cfg.Captcha.VerifyURL)

	promptStore := store.NewPromptStore(a.rc)
	analyticsStore := store.NewAnalyticsStore(a.rc)
	sessionStore := store.NewSessionStore(a.rc, cfg.SessionTTL)
	userStore := store.NewUserStore(a.rc)

	authMW := middleware.AdminAuth(cfg.AdminSecret)
	listCache := middleware.HTTPCache(a.rc.Raw(), middleware.HTTPCacheOptions{
		Disable: cfg.IsDev(),
	})

	// Rate limiting and idempotence run on every route (requires Redis).
	r.Use(middleware.MarkAdmin(cfg.AdminSecret))
	r.Use(middleware.RateLimit(a.rc.Raw(), notifier))
	r.Use(middleware.Idempotence(a.rc.Raw()))

	api := r.Group("/api")

	api.GET("/ping", func(c *gin.Context) {
		response.OK(c, gin.H{"message": "pong"})
	})
	api.GET("", func(c *gin.Context) {
		response.OK(c, gin.H{
			"name":    "kumpulan-prompt-ai",
			"version": "1.0.0",
			"uptime":  time.Since(processStart).Truncate(time.Second).String(),
		})
	})

	promptSvc := prompt.NewService(promptStore, analyticsStore, sessionStore, userStore, notifier, cfg.Location(), a.logger)
	prompt.NewHandler(promptSvc, listCache).RegisterRoutes(api, authMW)

	gateSvc := gate.NewService(promptStore, analyticsStore, sessionStore, userStore, a.logger)
	gate.NewHandler(gateSvc).RegisterRoutes(api, authMW)

	analyticsSvc := analytics.NewService(analyticsStore)
	analytics.NewHandler(analyticsSvc).RegisterRoutes(api, authMW)

	adminSvc := admin.NewService(userStore, cfg.AdminSecret)
	admin.NewHandler(adminSvc).RegisterRoutes(api, authMW)

	uploadSvc := upload.NewService(cfg.Upload, a.logger)
	upload.NewHandler(uploadSvc).RegisterRoutes(api, authMW)

	requestSvc := request.NewService(notifier, verifier, a.logger)
	request.NewHandler(requestSvc).RegisterRoutes(api, authMW)
}
