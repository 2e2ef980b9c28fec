package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/techpal/techpal/internal/domain"
	"github.com/techpal/techpal/internal/shared"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db        *sql.DB
	sessionMu sync.Mutex // Mutex for session operations to prevent SQLITE_BUSY
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		last_seen_at INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS agent_sessions (
		user_id TEXT NOT NULL,
		session_id TEXT NOT NULL,
		turns_json TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (user_id, session_id)
	);
	CREATE INDEX IF NOT EXISTS idx_agent_sessions_updated ON agent_sessions(updated_at);

	CREATE TABLE IF NOT EXISTS family_audit (
		id TEXT PRIMARY KEY,
		from_name TEXT NOT NULL,
		relationship TEXT NOT NULL,
		message TEXT NOT NULL,
		reply TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS family_notifications (
		id TEXT PRIMARY KEY,
		from_name TEXT NOT NULL,
		relationship TEXT NOT NULL,
		message TEXT NOT NULL,
		result TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sent_emails (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		to_addr TEXT NOT NULL,
		subject TEXT NOT NULL,
		body TEXT NOT NULL,
		attachment TEXT,
		created_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetUser retrieves a user by their user ID.
func (s *SQLiteStore) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT user_id, username, last_seen_at, created_at, updated_at
		FROM users WHERE user_id = ?`

	row := s.db.QueryRowContext(ctx, query, userID)

	var user domain.User
	var lastSeen, createdAt, updatedAt int64

	err := row.Scan(&user.UserID, &user.Username, &lastSeen, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user row: %w", err)
	}

	user.LastSeenAt = time.Unix(lastSeen, 0)
	user.CreatedAt = time.Unix(createdAt, 0)
	user.UpdatedAt = time.Unix(updatedAt, 0)

	return &user, nil
}

// UpsertUser creates or updates a user record.
func (s *SQLiteStore) UpsertUser(ctx context.Context, user *domain.User) error {
	query := `
	INSERT INTO users (user_id, username, last_seen_at, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		username = excluded.username,
		last_seen_at = excluded.last_seen_at,
		updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		user.UserID, user.Username,
		user.LastSeenAt.Unix(), user.CreatedAt.Unix(), user.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// UpdateLastSeen updates the last_seen_at timestamp for a user.
func (s *SQLiteStore) UpdateLastSeen(ctx context.Context, userID string, lastSeen time.Time) error {
	query := `UPDATE users SET last_seen_at = ?, updated_at = ? WHERE user_id = ?`
	result, err := s.db.ExecContext(ctx, query, lastSeen.Unix(), time.Now().Unix(), userID)
	if err != nil {
		return fmt.Errorf("update last_seen: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		slog.Warn("UpdateLastSeen affected 0 rows", "user_id", userID)
	}

	return nil
}

// GetAgentSession retrieves conversation state for one user tab session.
func (s *SQLiteStore) GetAgentSession(ctx context.Context, userID, sessionID string) (*domain.AgentSession, error) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	query := `
		SELECT user_id, session_id, turns_json, created_at, updated_at
		FROM agent_sessions WHERE user_id = ? AND session_id = ?`

	row := s.db.QueryRowContext(ctx, query, userID, sessionID)

	var session domain.AgentSession
	var createdAt, updatedAt int64

	err := row.Scan(&session.UserID, &session.SessionID, &session.TurnsJSON, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan agent session: %w", err)
	}

	session.CreatedAt = time.Unix(createdAt, 0)
	session.UpdatedAt = time.Unix(updatedAt, 0)

	return &session, nil
}

// UpsertAgentSession creates or updates conversation state.
func (s *SQLiteStore) UpsertAgentSession(ctx context.Context, session *domain.AgentSession) error {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	query := `
		INSERT INTO agent_sessions (user_id, session_id, turns_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, session_id) DO UPDATE SET
			turns_json = excluded.turns_json,
			updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		session.UserID, session.SessionID, session.TurnsJSON,
		session.CreatedAt.Unix(), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert agent session: %w", err)
	}
	return nil
}

// DeleteAgentSession removes conversation state for one tab session.
// Implements retry logic with exponential backoff to handle SQLITE_BUSY errors.
func (s *SQLiteStore) DeleteAgentSession(ctx context.Context, userID, sessionID string) error {
	maxRetries := 3
	baseDelay := 100 * time.Millisecond

	for i := 0; i < maxRetries; i++ {
		err := s.deleteAgentSessionOnce(ctx, userID, sessionID)
		if err == nil {
			return nil
		}

		if shared.IsSQLiteConflictError(err) {
			if i < maxRetries-1 {
				delay := baseDelay * time.Duration(1<<i) // exponential backoff: 100ms, 200ms, 400ms
				slog.Debug("DeleteAgentSession failed with SQLITE_BUSY, retrying",
					"user_id", userID,
					"attempt", i+1,
					"delay", delay)
				time.Sleep(delay)
				continue
			}
		}

		// Non-retryable error or max retries exceeded
		return fmt.Errorf("failed to delete agent session for %s after %d attempts: %w", userID, maxRetries, err)
	}

	return nil
}

// deleteAgentSessionOnce performs a single delete attempt.
func (s *SQLiteStore) deleteAgentSessionOnce(ctx context.Context, userID, sessionID string) error {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	query := `DELETE FROM agent_sessions WHERE user_id = ? AND session_id = ?`
	_, err := s.db.ExecContext(ctx, query, userID, sessionID)
	if err != nil {
		return fmt.Errorf("delete agent session: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes sessions older than TTL.
func (s *SQLiteStore) CleanupExpiredSessions(ctx context.Context, ttl time.Duration) (int64, error) {
	threshold := time.Now().Add(-ttl).Unix()
	query := `DELETE FROM agent_sessions WHERE updated_at < ?`
	result, err := s.db.ExecContext(ctx, query, threshold)
	if err != nil {
		return 0, fmt.Errorf("cleanup expired sessions: %w", err)
	}
	return result.RowsAffected()
}

// AppendFamilyAudit records one processed family-remote request.
func (s *SQLiteStore) AppendFamilyAudit(ctx context.Context, entry *domain.FamilyAuditEntry) error {
	query := `
		INSERT INTO family_audit (id, from_name, relationship, message, reply, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.FromName, entry.Relationship,
		entry.Message, entry.Reply, entry.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("append family audit: %w", err)
	}
	return nil
}

// AppendFamilyNotification queues a family-remote summary.
func (s *SQLiteStore) AppendFamilyNotification(ctx context.Context, n *domain.FamilyNotification) error {
	query := `
		INSERT INTO family_notifications (id, from_name, relationship, message, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		n.ID, n.FromName, n.FromRelationship,
		n.OriginalMessage, n.Result, n.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("append family notification: %w", err)
	}
	return nil
}

// DrainFamilyNotifications returns all pending notifications and removes them.
func (s *SQLiteStore) DrainFamilyNotifications(ctx context.Context) ([]*domain.FamilyNotification, error) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	query := `
		SELECT id, from_name, relationship, message, result, created_at
		FROM family_notifications ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query family notifications: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close family notification rows", "error", closeErr)
		}
	}()

	var notifications []*domain.FamilyNotification
	for rows.Next() {
		var n domain.FamilyNotification
		var createdAt int64
		if err := rows.Scan(&n.ID, &n.FromName, &n.FromRelationship,
			&n.OriginalMessage, &n.Result, &createdAt); err != nil {
			return nil, fmt.Errorf("scan family notification row: %w", err)
		}
		n.CreatedAt = time.Unix(createdAt, 0)
		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate family notifications: %w", err)
	}

	if len(notifications) > 0 {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM family_notifications`); err != nil {
			return nil, fmt.Errorf("clear family notifications: %w", err)
		}
	}

	return notifications, nil
}

// AppendSentEmail records an outgoing email.
func (s *SQLiteStore) AppendSentEmail(ctx context.Context, userID string, email *domain.OutgoingEmail) error {
	query := `
		INSERT INTO sent_emails (user_id, to_addr, subject, body, attachment, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	var attachment interface{}
	if email.Attachment != "" {
		attachment = email.Attachment
	}

	_, err := s.db.ExecContext(ctx, query,
		userID, email.To, email.Subject, email.Body, attachment, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("append sent email: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
