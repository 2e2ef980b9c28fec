// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/techpal/techpal/internal/domain"
)

// Repository defines the interface for persisting users, sessions, and the
// family-remote records.
type Repository interface {
	// GetUser retrieves a user by their user ID.
	GetUser(ctx context.Context, userID string) (*domain.User, error)

	// UpsertUser creates or updates a user record.
	UpsertUser(ctx context.Context, user *domain.User) error

	// UpdateLastSeen updates the last_seen_at timestamp for a user.
	UpdateLastSeen(ctx context.Context, userID string, lastSeen time.Time) error

	// GetAgentSession retrieves conversation state for one user tab session.
	GetAgentSession(ctx context.Context, userID, sessionID string) (*domain.AgentSession, error)

	// UpsertAgentSession creates or updates conversation state.
	UpsertAgentSession(ctx context.Context, session *domain.AgentSession) error

	// DeleteAgentSession removes conversation state for one tab session.
	DeleteAgentSession(ctx context.Context, userID, sessionID string) error

	// CleanupExpiredSessions removes sessions older than TTL.
	CleanupExpiredSessions(ctx context.Context, ttl time.Duration) (int64, error)

	// AppendFamilyAudit records one processed family-remote request.
	AppendFamilyAudit(ctx context.Context, entry *domain.FamilyAuditEntry) error

	// AppendFamilyNotification queues a family-remote summary for the
	// primary user's chat window.
	AppendFamilyNotification(ctx context.Context, n *domain.FamilyNotification) error

	// DrainFamilyNotifications returns all pending notifications and
	// removes them.
	DrainFamilyNotifications(ctx context.Context) ([]*domain.FamilyNotification, error)

	// AppendSentEmail records an outgoing email.
	AppendSentEmail(ctx context.Context, userID string, email *domain.OutgoingEmail) error

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
