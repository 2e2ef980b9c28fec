package domain

import (
	"time"
)

// User represents an end user of the assistant. Identity is anonymous and
// cookie-based; a user may hold several concurrent tab sessions.
type User struct {
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	LastSeenAt time.Time `json:"last_seen_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
