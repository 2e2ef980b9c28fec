package assistant

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/techpal/techpal/internal/domain"
	"github.com/techpal/techpal/internal/model"
	"github.com/techpal/techpal/internal/store"
)

const (
	emptyMessageReply = "I didn't catch that. Could you say it again?"
	authErrorReply    = "I'm having trouble connecting right now. Let's try again in a moment."
	genericErrorReply = "Something went wrong on my end. Let's try that again."
)

// Tools that run their own model call (scam deep analysis) smuggle the
// model's reasoning back inside the tool result wrapped in these tags. The
// service strips them from the reply and surfaces them as thinking.
var thinkingTraceRe = regexp.MustCompile(`(?s)\[THINKING_TRACE\](.*?)\[/THINKING_TRACE\]`)

// ChatReply is the outcome of one chat exchange.
type ChatReply struct {
	Reply    string
	Thinking string
}

// Service orchestrates chat exchanges: it loads the session, runs the tool
// loop, compacts history, and persists the result.
type Service struct {
	repo       store.Repository
	runner     *Runner
	maxHistory int
	now        func() time.Time
}

// NewService builds the chat service.
func NewService(repo store.Repository, runner *Runner, maxHistory int) *Service {
	return &Service{repo: repo, runner: runner, maxHistory: maxHistory, now: time.Now}
}

// Chat processes one user message in the given session. It always returns a
// user-presentable reply; model failures degrade to friendly fallbacks.
func (s *Service) Chat(ctx context.Context, userID, sessionID, message string) ChatReply {
	message = strings.TrimSpace(message)
	if message == "" {
		return ChatReply{Reply: emptyMessageReply}
	}

	history := s.loadHistory(ctx, userID, sessionID)
	history = append(history, domain.TextTurn(domain.RoleUser, message))

	reply, thinking, history, err := s.runner.Run(ctx, SystemPrompt(s.now()), history)
	if err != nil {
		reply = fallbackReply(err)
		thinking = ""
		slog.Error("model call failed", "user_id", userID, "error", err)
		history = append(history, domain.TextTurn(domain.RoleAssistant, reply))
	}

	reply, toolThinking := extractToolThinking(reply)
	if thinking == "" {
		thinking = toolThinking
	}

	s.persistHistory(ctx, userID, sessionID, Compact(history, s.maxHistory))

	return ChatReply{Reply: reply, Thinking: thinking}
}

// Reset discards the session's conversation state.
func (s *Service) Reset(ctx context.Context, userID, sessionID string) error {
	return s.repo.DeleteAgentSession(ctx, userID, sessionID)
}

func (s *Service) loadHistory(ctx context.Context, userID, sessionID string) []domain.Turn {
	session, err := s.repo.GetAgentSession(ctx, userID, sessionID)
	if err != nil || session == nil {
		if err != nil {
			slog.Warn("failed to load session, starting fresh", "user_id", userID, "error", err)
		}
		return nil
	}
	history, err := domain.DecodeTurns(session.TurnsJSON)
	if err != nil {
		slog.Warn("corrupt session history, starting fresh", "user_id", userID, "error", err)
		return nil
	}
	return history
}

func (s *Service) persistHistory(ctx context.Context, userID, sessionID string, history []domain.Turn) {
	turnsJSON, err := domain.EncodeTurns(history)
	if err != nil {
		slog.Error("failed to encode session history", "user_id", userID, "error", err)
		return
	}
	now := s.now()
	err = s.repo.UpsertAgentSession(ctx, &domain.AgentSession{
		UserID:    userID,
		SessionID: sessionID,
		TurnsJSON: turnsJSON,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		slog.Error("failed to persist session", "user_id", userID, "error", err)
	}
}

func fallbackReply(err error) string {
	var apiErr model.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden {
			return authErrorReply
		}
	}
	return genericErrorReply
}

// extractToolThinking pulls thinking-trace spans out of the reply and
// returns the cleaned reply plus the joined traces.
func extractToolThinking(reply string) (cleaned, thinking string) {
	matches := thinkingTraceRe.FindAllStringSubmatch(reply, -1)
	if len(matches) == 0 {
		return reply, ""
	}
	traces := make([]string, 0, len(matches))
	for _, m := range matches {
		if t := strings.TrimSpace(m[1]); t != "" {
			traces = append(traces, t)
		}
	}
	cleaned = strings.TrimSpace(thinkingTraceRe.ReplaceAllString(reply, ""))
	return cleaned, strings.Join(traces, "\n")
}
