package models

// UserModel is an admin account stored as a Redis hash keyed by username.
// Passwords are stored and compared in cleartext; the admin surface is gated
// by a single shared secret, not per-admin identity.
type UserModel struct {
	Username   string `json:"username"`
	Password   string `json:"-"`
	ProfileURL string `json:"profileUrl,omitempty"`
}
