package domain

import (
	"time"
)

// AgentSession stores the persisted, compacted conversation history for one
// user tab session. TurnsJSON holds the serialized []Turn produced by the
// history compactor; the target size after compaction is roughly 4KB.
type AgentSession struct {
	UserID    string
	SessionID string
	TurnsJSON string
	CreatedAt time.Time
	UpdatedAt time.Time
}
