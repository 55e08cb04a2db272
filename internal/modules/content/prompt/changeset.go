package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/gipicihuy/kumpulan-prompt-ai/internal/models"
)

const editedMarker = " (edited)"

// monthShortID holds the id-ID short month names used for display times.
var monthShortID = [...]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

// formatDisplayTime renders t in the configured timezone as the human
// display string stored on records, e.g. "02 Mei 2026 14.30 WIB".
func formatDisplayTime(t time.Time, loc *time.Location) string {
	t = t.In(loc)
	zone, _ := t.Zone()
	return fmt.Sprintf("%02d %s %d %02d.%02d %s",
		t.Day(), monthShortID[t.Month()-1], t.Year(), t.Hour(), t.Minute(), zone)
}

// stripEditedSuffix removes every trailing edited marker. Historical records
// may carry the marker more than once.
func stripEditedSuffix(s string) string {
	for {
		trimmed := strings.TrimRight(s, " ")
		if !strings.HasSuffix(trimmed, "(edited)") {
			return strings.TrimSpace(s)
		}
		s = strings.TrimSuffix(trimmed, "(edited)")
	}
}

// newRecord builds a fresh record from a create payload. Timestamp is the
// creation instant in epoch milliseconds and never changes afterwards.
func newRecord(dto CreatePromptDTO, now time.Time, loc *time.Location) models.PromptModel {
	p := models.PromptModel{
		Slug:        strings.TrimSpace(dto.Slug),
		Title:       strings.TrimSpace(dto.Title),
		Category:    strings.TrimSpace(dto.Category),
		Body:        strings.TrimSpace(dto.Body),
		Description: strings.TrimSpace(dto.Description),
		ImageURL:    strings.TrimSpace(dto.ImageURL),
		UploadedBy:  strings.TrimSpace(dto.UploadedBy),
		CreatedAt:   formatDisplayTime(now, loc),
		Timestamp:   now.UnixMilli(),
	}
	if p.Category == "" {
		p.Category = models.DefaultCategory
	}
	if p.UploadedBy == "" {
		p.UploadedBy = models.DefaultUploader
	}
	p.Password = strings.TrimSpace(dto.Password)
	p.IsProtected = p.Password != ""
	return p
}

// applyEdit merges an update onto the stored record and reports whether any
// reader-visible field actually changed. All string fields are compared
// trimmed and protection is compared as the derived boolean, so the decision
// cannot drift between callers. The original timestamp is always kept; the
// edited marker is appended to the original createdAt exactly once, and only
// on a real change. A no-op edit leaves createdAt byte-for-byte untouched.
func applyEdit(old models.PromptModel, in UpdatePromptDTO, editedAt string) (models.PromptModel, bool) {
	next := old
	next.Title = strings.TrimSpace(in.Title)
	next.Body = strings.TrimSpace(in.Body)
	if v := strings.TrimSpace(in.Category); v != "" {
		next.Category = v
	}
	if v := strings.TrimSpace(in.Description); v != "" {
		next.Description = v
	}
	if v := strings.TrimSpace(in.ImageURL); v != "" {
		next.ImageURL = v
	}
	next.Password = strings.TrimSpace(in.Password)
	next.IsProtected = next.Password != ""
	next.UpdatedAt = editedAt

	changed := next.Title != strings.TrimSpace(old.Title) ||
		next.Body != strings.TrimSpace(old.Body) ||
		next.Category != strings.TrimSpace(old.Category) ||
		next.Description != strings.TrimSpace(old.Description) ||
		next.ImageURL != strings.TrimSpace(old.ImageURL) ||
		next.IsProtected != old.IsProtected ||
		(next.IsProtected && next.Password != old.Password)

	if changed {
		next.CreatedAt = stripEditedSuffix(old.CreatedAt) + editedMarker
	} else {
		next.CreatedAt = old.CreatedAt
	}
	return next, changed
}
