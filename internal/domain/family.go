package domain

import (
	"time"
)

// FamilyContact is one entry of the static authorization table for the
// family SMS remote-control path. The capability flags are the sole
// access-control boundary: they are enforced in code before any model call.
type FamilyContact struct {
	Number        string
	Name          string
	Relationship  string
	CanExecute    bool
	CanViewStatus bool
	CanDelete     bool
}

// FamilyAuditEntry records one processed family-remote request for the
// audit trail.
type FamilyAuditEntry struct {
	ID           string
	FromName     string
	Relationship string
	Message      string
	Reply        string
	CreatedAt    time.Time
}

// FamilyNotification is a pending summary of a family-remote interaction,
// queued for display in the primary user's chat window.
type FamilyNotification struct {
	ID               string    `json:"id"`
	FromName         string    `json:"from_name"`
	FromRelationship string    `json:"from_relationship"`
	OriginalMessage  string    `json:"original_message"`
	Result           string    `json:"result"`
	CreatedAt        time.Time `json:"created_at"`
}
