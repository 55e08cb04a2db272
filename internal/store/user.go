package store

import (
	"context"

	"github.com/gipicihuy/kumpulan-prompt-ai/internal/models"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/apperr"
)

// UserStore reads admin accounts.
type UserStore struct {
	kv KV
}

func NewUserStore(kv KV) *UserStore { return &UserStore{kv: kv} }

// Get loads one admin account by username.
func (s *UserStore) Get(ctx context.Context, username string) (*models.UserModel, error) {
	fields, err := s.kv.HGetAll(ctx, userKey(username))
	if err != nil {
		return nil, apperr.Upstream("error loading user record", err)
	}
	if len(fields) == 0 {
		return nil, apperr.NotFound("user %q not found", username)
	}
	return &models.UserModel{
		Username:   username,
		Password:   fields["password"],
		ProfileURL: fields["profileUrl"],
	}, nil
}
