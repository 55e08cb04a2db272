package prompt

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gipicihuy/kumpulan-prompt-ai/internal/models"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/apperr"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/telegram"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/store"
)

// enrichWorkers caps the read-only fan-out used to attach analytics to list
// responses.
const enrichWorkers = 8

type Service struct {
	prompts   *store.PromptStore
	analytics *store.AnalyticsStore
	sessions  *store.SessionStore
	users     *store.UserStore
	notifier  *telegram.Client
	loc       *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(
	prompts *store.PromptStore,
	analytics *store.AnalyticsStore,
	sessions *store.SessionStore,
	users *store.UserStore,
	notifier *telegram.Client,
	loc *time.Location,
	logger *zap.Logger,
) *Service {
	return &Service{
		prompts:   prompts,
		analytics: analytics,
		sessions:  sessions,
		users:     users,
		notifier:  notifier,
		loc:       loc,
		logger:    logger,
		now:       time.Now,
	}
}

// Create stores a new record. The slug is claimed forever: creating over an
// existing slug is a conflict, never an overwrite.
func (s *Service) Create(ctx context.Context, dto CreatePromptDTO) (*models.PromptModel, error) {
	if strings.TrimSpace(dto.Slug) == "" || strings.TrimSpace(dto.Title) == "" || strings.TrimSpace(dto.Body) == "" {
		return nil, apperr.InvalidArgument("slug, title and body are required")
	}

	record := newRecord(dto, s.now(), s.loc)

	taken, err := s.prompts.Exists(ctx, record.Slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("slug %q is already in use", record.Slug)
	}

	if err := s.prompts.Save(ctx, &record); err != nil {
		return nil, err
	}

	s.notifyNew(record)
	return &record, nil
}

// Update applies a full-replacement edit. The stored timestamp survives and
// the edited marker only appears when something visible really changed.
func (s *Service) Update(ctx context.Context, slug string, dto UpdatePromptDTO) (*models.PromptModel, bool, error) {
	if strings.TrimSpace(dto.Title) == "" || strings.TrimSpace(dto.Body) == "" {
		return nil, false, apperr.InvalidArgument("title and body are required")
	}

	old, err := s.prompts.Get(ctx, slug)
	if err != nil {
		return nil, false, err
	}

	next, changed := applyEdit(*old, dto, formatDisplayTime(s.now(), s.loc))
	if err := s.prompts.Save(ctx, &next); err != nil {
		return nil, false, err
	}
	return &next, changed, nil
}

// Delete removes the record together with its analytics and every live
// session grant, and returns the deleted title for confirmation messages.
func (s *Service) Delete(ctx context.Context, slug string) (string, error) {
	record, err := s.prompts.Get(ctx, slug)
	if err != nil {
		return "", err
	}

	if err := s.prompts.Delete(ctx, slug); err != nil {
		return "", err
	}
	if err := s.analytics.Delete(ctx, slug); err != nil {
		s.logger.Warn("failed deleting analytics record", zap.String("slug", slug), zap.Error(err))
	}
	if err := s.sessions.RevokeAll(ctx, slug); err != nil {
		s.logger.Warn("failed revoking session grants", zap.String("slug", slug), zap.Error(err))
	}
	return record.Title, nil
}

// CheckSlug reports whether a slug is taken, echoing the existing record for
// display in the admin form.
func (s *Service) CheckSlug(ctx context.Context, slug string) (*models.PromptModel, bool, error) {
	record, err := s.prompts.Get(ctx, slug)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return record, true, nil
}

// AdminList returns every record, protected bodies and passwords included,
// newest first.
func (s *Service) AdminList(ctx context.Context) ([]AdminItem, error) {
	records, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]AdminItem, len(records))
	for i, r := range records {
		items[i] = AdminItem{PromptModel: r, Password: r.Password}
	}
	s.attachAnalytics(ctx, len(items), func(i int) string { return items[i].Slug },
		func(i int, snap models.AnalyticsSnapshot) { items[i].Analytics = snap })
	return items, nil
}

// PublicList returns every record newest first, with protected bodies and
// descriptions redacted. Analytics and uploader profiles are attached via a
// bounded read-only fan-out.
func (s *Service) PublicList(ctx context.Context) ([]ListItem, error) {
	records, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	profiles := s.loadProfiles(ctx, records)

	items := make([]ListItem, len(records))
	for i, r := range records {
		item := ListItem{PromptModel: r, ProfileURL: profiles[r.UploadedBy]}
		if r.IsProtected {
			item.Body = ""
			item.Description = ""
			item.Locked = true
		}
		items[i] = item
	}
	s.attachAnalytics(ctx, len(items), func(i int) string { return items[i].Slug },
		func(i int, snap models.AnalyticsSnapshot) { items[i].Analytics = snap })
	return items, nil
}

func (s *Service) loadAll(ctx context.Context) ([]models.PromptModel, error) {
	slugs, err := s.prompts.Slugs(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]models.PromptModel, 0, len(slugs))
	for _, slug := range slugs {
		record, err := s.prompts.Get(ctx, slug)
		if err != nil {
			// Skip half-written hashes instead of failing the whole list.
			if apperr.IsKind(err, apperr.KindNotFound) {
				continue
			}
			return nil, err
		}
		records = append(records, *record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp > records[j].Timestamp
	})
	return records, nil
}

// attachAnalytics fills counter snapshots for n items concurrently. Failures
// leave zero counters; the list itself still renders.
func (s *Service) attachAnalytics(ctx context.Context, n int, slugAt func(int) string, set func(int, models.AnalyticsSnapshot)) {
	if n == 0 {
		return
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, enrichWorkers)
	for i := 0; i < n; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			snap, err := s.analytics.Get(ctx, slugAt(i))
			if err != nil {
				s.logger.Warn("failed loading analytics for list", zap.String("slug", slugAt(i)), zap.Error(err))
				return
			}
			set(i, snap)
		}(i)
	}
	wg.Wait()
}

// loadProfiles resolves profile URLs for the distinct uploaders of records.
// Missing accounts are fine; attribution simply has no picture.
func (s *Service) loadProfiles(ctx context.Context, records []models.PromptModel) map[string]string {
	profiles := make(map[string]string)
	for _, r := range records {
		if _, seen := profiles[r.UploadedBy]; seen {
			continue
		}
		profiles[r.UploadedBy] = ""
		user, err := s.users.Get(ctx, r.UploadedBy)
		if err != nil {
			if !apperr.IsKind(err, apperr.KindNotFound) {
				s.logger.Warn("failed loading uploader profile", zap.String("user", r.UploadedBy), zap.Error(err))
			}
			continue
		}
		profiles[r.UploadedBy] = user.ProfileURL
	}
	return profiles
}

func (s *Service) notifyNew(record models.PromptModel) {
	if s.notifier == nil || !s.notifier.Configured() {
		return
	}
	text := fmt.Sprintf("*New prompt published*\n\n*%s* (%s)\nby %s", record.Title, record.Category, record.UploadedBy)
	go func() {
		if err := s.notifier.Send(text); err != nil {
			s.logger.Warn("failed sending new prompt notification", zap.Error(err))
		}
	}()
}
