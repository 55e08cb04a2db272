// Package gate decides, per request, whether a prompt renders as not found,
// password required, or full content, and issues the session grants that
// unlock protected prompts.
package gate

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/gipicihuy/kumpulan-prompt-ai/internal/models"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/apperr"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/store"
)

type Service struct {
	prompts   *store.PromptStore
	analytics *store.AnalyticsStore
	sessions  *store.SessionStore
	users     *store.UserStore
	logger    *zap.Logger
}

func NewService(
	prompts *store.PromptStore,
	analytics *store.AnalyticsStore,
	sessions *store.SessionStore,
	users *store.UserStore,
	logger *zap.Logger,
) *Service {
	return &Service{
		prompts:   prompts,
		analytics: analytics,
		sessions:  sessions,
		users:     users,
		logger:    logger,
	}
}

// Result is one gate decision. When Locked is set the caller must not expose
// body, description or password; ClearCookie additionally tells the client
// to drop its stale session cookie.
type Result struct {
	Prompt      *models.PromptModel
	Analytics   models.AnalyticsSnapshot
	ProfileURL  string
	Locked      bool
	ClearCookie bool
}

// Resolve runs the access-gate decision for slug. token is the session
// cookie value; hasCookie distinguishes an absent cookie from an empty one.
// Unauthenticated lookups at a protected prompt never touch view counters.
func (s *Service) Resolve(ctx context.Context, slug, token string, hasCookie bool) (*Result, error) {
	record, err := s.prompts.Get(ctx, slug)
	if err != nil {
		return nil, err
	}

	res := &Result{Prompt: record, ProfileURL: s.profileURL(ctx, record.UploadedBy)}

	if record.IsProtected {
		if !hasCookie {
			res.Locked = true
			return res, s.attachCounters(ctx, res)
		}
		valid, err := s.sessions.Validate(ctx, slug, token)
		if err != nil {
			return nil, err
		}
		if !valid {
			res.Locked = true
			res.ClearCookie = true
			return res, s.attachCounters(ctx, res)
		}
	}

	s.trackView(ctx, slug)
	return res, s.attachCounters(ctx, res)
}

// Unlock verifies the submitted password and mints a session grant. The
// comparison is byte-exact after trimming; nothing beyond the token ever
// leaves this function, in particular never the stored password.
func (s *Service) Unlock(ctx context.Context, slug, password string) (string, error) {
	password = strings.TrimSpace(password)
	if password == "" {
		return "", apperr.InvalidArgument("password is required")
	}

	record, err := s.prompts.Get(ctx, slug)
	if err != nil {
		return "", err
	}
	if !record.IsProtected {
		return "", apperr.InvalidState("prompt %q is not protected", slug)
	}
	// A protected record without a stored password is corrupt; fail closed.
	if record.Password == "" || record.Password != password {
		return "", apperr.Unauthorized("wrong password")
	}

	return s.sessions.Issue(ctx, slug)
}

// trackView bumps the view counter, best-effort. Counter failures are logged
// and swallowed so they can never fail the read itself.
func (s *Service) trackView(ctx context.Context, slug string) {
	if _, err := s.analytics.Increment(ctx, slug, "views"); err != nil {
		s.logger.Warn("failed incrementing view counter", zap.String("slug", slug), zap.Error(err))
	}
}

func (s *Service) attachCounters(ctx context.Context, res *Result) error {
	snap, err := s.analytics.Get(ctx, res.Prompt.Slug)
	if err != nil {
		s.logger.Warn("failed loading analytics for gate", zap.String("slug", res.Prompt.Slug), zap.Error(err))
		return nil
	}
	res.Analytics = snap
	return nil
}

func (s *Service) profileURL(ctx context.Context, uploader string) string {
	user, err := s.users.Get(ctx, uploader)
	if err != nil {
		if !apperr.IsKind(err, apperr.KindNotFound) {
			s.logger.Warn("failed loading uploader profile", zap.String("user", uploader), zap.Error(err))
		}
		return ""
	}
	return user.ProfileURL
}
