package store

import (
	"context"
	"strconv"
	"strings"

	"github.com/gipicihuy/kumpulan-prompt-ai/internal/models"
	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/apperr"
)

const (
	fieldTitle       = "title"
	fieldCategory    = "category"
	fieldBody        = "body"
	fieldDescription = "description"
	fieldImageURL    = "imageUrl"
	fieldUploadedBy  = "uploadedBy"
	fieldCreatedAt   = "createdAt"
	fieldUpdatedAt   = "updatedAt"
	fieldTimestamp   = "timestamp"
	fieldIsProtected = "isProtected"
	fieldPassword    = "password"
)

// PromptStore reads and writes prompt records.
type PromptStore struct {
	kv KV
}

func NewPromptStore(kv KV) *PromptStore { return &PromptStore{kv: kv} }

// Get loads one prompt record. A missing hash, or a hash without a title,
// is treated as non-existent.
func (s *PromptStore) Get(ctx context.Context, slug string) (*models.PromptModel, error) {
	fields, err := s.kv.HGetAll(ctx, promptKey(slug))
	if err != nil {
		return nil, apperr.Upstream("error loading prompt record", err)
	}
	if len(fields) == 0 || fields[fieldTitle] == "" {
		return nil, apperr.NotFound("prompt %q not found", slug)
	}
	return decodePrompt(slug, fields), nil
}

// Exists reports whether a record with a usable title is stored for slug.
func (s *PromptStore) Exists(ctx context.Context, slug string) (bool, error) {
	fields, err := s.kv.HGetAll(ctx, promptKey(slug))
	if err != nil {
		return false, apperr.Upstream("error checking prompt record", err)
	}
	return len(fields) > 0 && fields[fieldTitle] != "", nil
}

// Save overwrites the full record. Every field is written, including an
// empty password, so a protection downgrade cannot leave the old secret
// behind.
func (s *PromptStore) Save(ctx context.Context, p *models.PromptModel) error {
	fields := map[string]interface{}{
		fieldTitle:       p.Title,
		fieldCategory:    p.Category,
		fieldBody:        p.Body,
		fieldDescription: p.Description,
		fieldImageURL:    p.ImageURL,
		fieldUploadedBy:  p.UploadedBy,
		fieldCreatedAt:   p.CreatedAt,
		fieldUpdatedAt:   p.UpdatedAt,
		fieldTimestamp:   strconv.FormatInt(p.Timestamp, 10),
		fieldIsProtected: strconv.FormatBool(p.IsProtected),
		fieldPassword:    p.Password,
	}
	if err := s.kv.HSet(ctx, promptKey(p.Slug), fields); err != nil {
		return apperr.Upstream("error saving prompt record", err)
	}
	return nil
}

// Delete removes the record. It is idempotent.
func (s *PromptStore) Delete(ctx context.Context, slug string) error {
	if err := s.kv.Del(ctx, promptKey(slug)); err != nil {
		return apperr.Upstream("error deleting prompt record", err)
	}
	return nil
}

// Slugs returns every stored prompt slug via a full prefix scan. Sorting and
// filtering happen in the caller; the store has no secondary indexes.
func (s *PromptStore) Slugs(ctx context.Context) ([]string, error) {
	keys, err := s.kv.Keys(ctx, promptKeyPrefix+"*")
	if err != nil {
		return nil, apperr.Upstream("error scanning prompt keys", err)
	}
	slugs := make([]string, 0, len(keys))
	for _, key := range keys {
		slugs = append(slugs, strings.TrimPrefix(key, promptKeyPrefix))
	}
	return slugs, nil
}

func decodePrompt(slug string, fields map[string]string) *models.PromptModel {
	p := &models.PromptModel{
		Slug:        slug,
		Title:       fields[fieldTitle],
		Category:    fields[fieldCategory],
		Body:        fields[fieldBody],
		Description: fields[fieldDescription],
		ImageURL:    fields[fieldImageURL],
		UploadedBy:  fields[fieldUploadedBy],
		CreatedAt:   fields[fieldCreatedAt],
		UpdatedAt:   fields[fieldUpdatedAt],
		IsProtected: fields[fieldIsProtected] == "true",
		Password:    fields[fieldPassword],
	}
	if p.Category == "" {
		p.Category = models.DefaultCategory
	}
	if p.UploadedBy == "" {
		p.UploadedBy = models.DefaultUploader
	}
	if ts, err := strconv.ParseInt(fields[fieldTimestamp], 10, 64); err == nil {
		p.Timestamp = ts
	}
	return p
}
