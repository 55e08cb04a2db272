package prompt

import "github.com/gipicihuy/kumpulan-prompt-ai/internal/models"

// CreatePromptDTO is the admin create payload. Slug is chosen by the admin
// and immutable afterwards.
type CreatePromptDTO struct {
	Slug        string `json:"slug" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Category    string `json:"category"`
	Body        string `json:"body" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	UploadedBy  string `json:"uploadedBy"`
	Password    string `json:"password"`
}

// UpdatePromptDTO is a full-replacement edit payload. Empty category,
// description and imageUrl keep the stored value; an empty password removes
// protection.
type UpdatePromptDTO struct {
	Title       string `json:"title" binding:"required"`
	Category    string `json:"category"`
	Body        string `json:"body" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Password    string `json:"password"`
}

// ListItem is one public list entry. Protected entries carry Locked instead
// of their body and description.
type ListItem struct {
	models.PromptModel
	Analytics  models.AnalyticsSnapshot `json:"analytics"`
	ProfileURL string                   `json:"profileUrl,omitempty"`
	Locked     bool                     `json:"locked,omitempty"`
}

// AdminItem is one admin list entry: the full record including the stored
// password, protected or not.
type AdminItem struct {
	models.PromptModel
	Password  string                   `json:"password,omitempty"`
	Analytics models.AnalyticsSnapshot `json:"analytics"`
}
