package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gipicihuy/kumpulan-prompt-ai/internal/store"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/store/storetest"
)

func TestSessionIssueAndValidate(t *testing.T) {
	kv := storetest.NewMemoryKV()
	ss := store.NewSessionStore(kv, 5*time.Minute)
	ctx := context.Background()

	token, err := ss.Issue(ctx, "foo")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// bearer capability: repeated reads succeed until expiry
	for i := 0; i < 3; i++ {
		ok, err := ss.Validate(ctx, "foo", token)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestSessionTokensAreUnique(t *testing.T) {
	ss := store.NewSessionStore(storetest.NewMemoryKV(), time.Minute)
	ctx := context.Background()

	t1, err := ss.Issue(ctx, "foo")
	require.NoError(t, err)
	t2, err := ss.Issue(ctx, "foo")
	require.NoError(t, err)
	assert.NotEqual(t, t1, t2)
}

func TestSessionGrantScopedToSlug(t *testing.T) {
	ss := store.NewSessionStore(storetest.NewMemoryKV(), time.Minute)
	ctx := context.Background()

	token, err := ss.Issue(ctx, "foo")
	require.NoError(t, err)

	ok, err := ss.Validate(ctx, "other", token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionGrantExpires(t *testing.T) {
	kv := storetest.NewMemoryKV()
	ss := store.NewSessionStore(kv, 5*time.Minute)
	ctx := context.Background()

	token, err := ss.Issue(ctx, "foo")
	require.NoError(t, err)

	kv.Advance(5*time.Minute + time.Second)

	ok, err := ss.Validate(ctx, "foo", token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionValidateEmptyToken(t *testing.T) {
	ss := store.NewSessionStore(storetest.NewMemoryKV(), time.Minute)

	ok, err := ss.Validate(context.Background(), "foo", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionRevokeAll(t *testing.T) {
	ss := store.NewSessionStore(storetest.NewMemoryKV(), time.Minute)
	ctx := context.Background()

	t1, err := ss.Issue(ctx, "foo")
	require.NoError(t, err)
	t2, err := ss.Issue(ctx, "foo")
	require.NoError(t, err)
	other, err := ss.Issue(ctx, "bar")
	require.NoError(t, err)

	require.NoError(t, ss.RevokeAll(ctx, "foo"))

	for _, token := range []string{t1, t2} {
		ok, err := ss.Validate(ctx, "foo", token)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	ok, err := ss.Validate(ctx, "bar", other)
	require.NoError(t, err)
	assert.True(t, ok)
}
