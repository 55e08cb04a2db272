package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/apperr"
)

// sessionValid is the sentinel stored for a live grant. Anything else,
// including a missing key, fails validation.
const sessionValid = "valid"

// SessionStore manages the short-lived grants proving a client supplied the
// correct password for a protected slug. A grant is a bearer capability:
// any holder of the token may read repeatedly until the TTL elapses. The
// store's native expiry re-locks idle sessions; grants are never renewed.
type SessionStore struct {
	kv  KV
	ttl time.Duration
}

func NewSessionStore(kv KV, ttl time.Duration) *SessionStore {
	return &SessionStore{kv: kv, ttl: ttl}
}

// Issue mints a fresh grant for slug and returns its token. Tokens come from
// a cryptographically strong random source and are never reused.
func (s *SessionStore) Issue(ctx context.Context, slug string) (string, error) {
	token := uuid.NewString()
	if err := s.kv.SetEX(ctx, sessionKey(slug, token), sessionValid, s.ttl); err != nil {
		return "", apperr.Upstream("error storing session grant", err)
	}
	return token, nil
}

// Validate reports whether (slug, token) identifies a live grant.
func (s *SessionStore) Validate(ctx context.Context, slug, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	val, err := s.kv.Get(ctx, sessionKey(slug, token))
	if err != nil {
		return false, apperr.Upstream("error loading session grant", err)
	}
	return val == sessionValid, nil
}

// RevokeAll destroys every grant for slug. Used when the prompt itself is
// deleted; natural expiry handles everything else.
func (s *SessionStore) RevokeAll(ctx context.Context, slug string) error {
	keys, err := s.kv.Keys(ctx, sessionKeyPrefix+slug+":*")
	if err != nil {
		return apperr.Upstream("error scanning session grants", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.kv.Del(ctx, keys...); err != nil {
		return apperr.Upstream("error deleting session grants", err)
	}
	return nil
}
