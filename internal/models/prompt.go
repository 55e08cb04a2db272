package models

// PromptModel is one shareable prompt, stored as a Redis hash keyed by slug.
// Slug is assigned at creation and immutable. Timestamp is the numeric
// creation instant used for sorting and never changes after creation;
// CreatedAt is the display-formatted creation time and only ever gains an
// "(edited)" suffix.
type PromptModel struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Body        string `json:"body"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	UploadedBy  string `json:"uploadedBy"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
	Timestamp   int64  `json:"timestamp"`
	IsProtected bool   `json:"isProtected"`
	Password    string `json:"-"`
}

// DefaultUploader is the attribution fallback when a record has no uploader.
const DefaultUploader = "Admin"

// DefaultCategory is the category fallback for records saved without one.
const DefaultCategory = "Lainnya"
