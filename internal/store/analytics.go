package store

import (
	"context"
	"strconv"

	"github.com/gipicihuy/kumpulan-prompt-ai/internal/models"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/apperr"
)

// AnalyticsStore tracks per-slug engagement counters. The record is created
// lazily by the first increment; counters only ever grow, except when the
// whole record is deleted together with its prompt.
type AnalyticsStore struct {
	kv KV
}

func NewAnalyticsStore(kv KV) *AnalyticsStore { return &AnalyticsStore{kv: kv} }

// Increment bumps one counter field by exactly 1 using the store's atomic
// increment, then returns the full snapshot.
func (s *AnalyticsStore) Increment(ctx context.Context, slug, field string) (models.AnalyticsSnapshot, error) {
	if _, err := s.kv.HIncrBy(ctx, analyticsKey(slug), field, 1); err != nil {
		return models.AnalyticsSnapshot{}, apperr.Upstream("error incrementing analytics counter", err)
	}
	return s.Get(ctx, slug)
}

// Get returns the current snapshot. A slug that was never tracked yields
// all-zero counters, not an error.
func (s *AnalyticsStore) Get(ctx context.Context, slug string) (models.AnalyticsSnapshot, error) {
	fields, err := s.kv.HGetAll(ctx, analyticsKey(slug))
	if err != nil {
		return models.AnalyticsSnapshot{}, apperr.Upstream("error loading analytics record", err)
	}
	return models.AnalyticsSnapshot{
		Views:     counterValue(fields, "views"),
		Copies:    counterValue(fields, "copies"),
		Downloads: counterValue(fields, "downloads"),
	}, nil
}

// Delete removes the whole analytics record.
func (s *AnalyticsStore) Delete(ctx context.Context, slug string) error {
	if err := s.kv.Del(ctx, analyticsKey(slug)); err != nil {
		return apperr.Upstream("error deleting analytics record", err)
	}
	return nil
}

func counterValue(fields map[string]string, name string) int64 {
	v, err := strconv.ParseInt(fields[name], 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
