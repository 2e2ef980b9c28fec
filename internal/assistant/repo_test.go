package assistant

import (
	"context"
	"time"

	"github.com/techpal/techpal/internal/domain"
)

// fakeRepo is an in-memory Repository for tests.
type fakeRepo struct {
	sessions      map[string]*domain.AgentSession
	audit         []*domain.FamilyAuditEntry
	notifications []*domain.FamilyNotification
	sentEmails    []*domain.OutgoingEmail
	getErr        error
	upsertErr     error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{sessions: make(map[string]*domain.AgentSession)}
}

func sessionKey(userID, sessionID string) string { return userID + ":" + sessionID }

func (f *fakeRepo) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return &domain.User{UserID: userID}, nil
}

func (f *fakeRepo) UpsertUser(ctx context.Context, user *domain.User) error { return nil }

func (f *fakeRepo) UpdateLastSeen(ctx context.Context, userID string, lastSeen time.Time) error {
	return nil
}

func (f *fakeRepo) GetAgentSession(ctx context.Context, userID, sessionID string) (*domain.AgentSession, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.sessions[sessionKey(userID, sessionID)], nil
}

func (f *fakeRepo) UpsertAgentSession(ctx context.Context, session *domain.AgentSession) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.sessions[sessionKey(session.UserID, session.SessionID)] = session
	return nil
}

func (f *fakeRepo) DeleteAgentSession(ctx context.Context, userID, sessionID string) error {
	delete(f.sessions, sessionKey(userID, sessionID))
	return nil
}

func (f *fakeRepo) CleanupExpiredSessions(ctx context.Context, ttl time.Duration) (int64, error) {
	return 0, nil
}

func (f *fakeRepo) AppendFamilyAudit(ctx context.Context, entry *domain.FamilyAuditEntry) error {
	f.audit = append(f.audit, entry)
	return nil
}

func (f *fakeRepo) AppendFamilyNotification(ctx context.Context, n *domain.FamilyNotification) error {
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeRepo) DrainFamilyNotifications(ctx context.Context) ([]*domain.FamilyNotification, error) {
	out := f.notifications
	f.notifications = nil
	return out, nil
}

func (f *fakeRepo) AppendSentEmail(ctx context.Context, userID string, email *domain.OutgoingEmail) error {
	f.sentEmails = append(f.sentEmails, email)
	return nil
}

func (f *fakeRepo) Ping(ctx context.Context) error { return nil }

func (f *fakeRepo) Close() error { return nil }
