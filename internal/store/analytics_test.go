package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gipicihuy/kumpulan-prompt-ai/internal/models"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/store"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/store/storetest"
)

func TestAnalyticsUntrackedSlugReadsZero(t *testing.T) {
	as := store.NewAnalyticsStore(storetest.NewMemoryKV())

	snap, err := as.Get(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Equal(t, models.AnalyticsSnapshot{}, snap)
}

func TestAnalyticsCountersAreAdditive(t *testing.T) {
	as := store.NewAnalyticsStore(storetest.NewMemoryKV())
	ctx := context.Background()

	var snap models.AnalyticsSnapshot
	var err error
	for i := 0; i < 3; i++ {
		snap, err = as.Increment(ctx, "bar", "views")
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		snap, err = as.Increment(ctx, "bar", "copies")
		require.NoError(t, err)
	}

	assert.Equal(t, models.AnalyticsSnapshot{Views: 3, Copies: 2, Downloads: 0}, snap)
}

func TestAnalyticsCountersIndependentPerSlug(t *testing.T) {
	as := store.NewAnalyticsStore(storetest.NewMemoryKV())
	ctx := context.Background()

	_, err := as.Increment(ctx, "one", "downloads")
	require.NoError(t, err)

	snap, err := as.Get(ctx, "two")
	require.NoError(t, err)
	assert.Equal(t, models.AnalyticsSnapshot{}, snap)
}

func TestAnalyticsDeleteResetsRecord(t *testing.T) {
	as := store.NewAnalyticsStore(storetest.NewMemoryKV())
	ctx := context.Background()

	_, err := as.Increment(ctx, "bar", "views")
	require.NoError(t, err)
	require.NoError(t, as.Delete(ctx, "bar"))

	snap, err := as.Get(ctx, "bar")
	require.NoError(t, err)
	assert.Equal(t, models.AnalyticsSnapshot{}, snap)
}

func TestAnalyticsActionCounterField(t *testing.T) {
	assert.Equal(t, "views", models.ActionView.CounterField())
	assert.Equal(t, "copies", models.ActionCopy.CounterField())
	assert.Equal(t, "downloads", models.ActionDownload.CounterField())
	assert.Empty(t, models.AnalyticsAction("like").CounterField())
}
