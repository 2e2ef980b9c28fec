package assistant

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/techpal/techpal/internal/domain"
	"github.com/techpal/techpal/internal/model"
)

func TestChatEmptyMessage(t *testing.T) {
	client := &fakeClient{responses: []*model.MessageResponse{textResponse("unused")}}
	svc := NewService(newFakeRepo(), testRunner(t, client, 5), 16)

	got := svc.Chat(context.Background(), "u1", "s1", "   ")
	if got.Reply != "I didn't catch that. Could you say it again?" {
		t.Errorf("reply = %q", got.Reply)
	}
	if client.calls != 0 {
		t.Errorf("empty message must not reach the model, got %d calls", client.calls)
	}
}

func TestChatPersistsHistory(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeClient{responses: []*model.MessageResponse{textResponse("Hi there!")}}
	svc := NewService(repo, testRunner(t, client, 5), 16)

	got := svc.Chat(context.Background(), "u1", "s1", "hello")
	if got.Reply != "Hi there!" {
		t.Errorf("reply = %q", got.Reply)
	}

	session := repo.sessions["u1:s1"]
	if session == nil {
		t.Fatal("session was not persisted")
	}
	turns, err := domain.DecodeTurns(session.TurnsJSON)
	if err != nil {
		t.Fatalf("decode persisted turns: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 persisted turns, got %d", len(turns))
	}
	if turns[0].JoinedText() != "hello" || turns[1].JoinedText() != "Hi there!" {
		t.Errorf("unexpected persisted turns: %+v", turns)
	}
}

func TestChatContinuesSession(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeClient{responses: []*model.MessageResponse{textResponse("first"), textResponse("second")}}
	svc := NewService(repo, testRunner(t, client, 5), 16)

	svc.Chat(context.Background(), "u1", "s1", "one")
	svc.Chat(context.Background(), "u1", "s1", "two")

	// The second model call must include the whole first exchange.
	if len(client.requests[1].Messages) != 3 {
		t.Errorf("expected 3 turns in second request, got %d", len(client.requests[1].Messages))
	}
}

func TestChatModelErrorFallback(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeClient{err: model.APIError{StatusCode: http.StatusInternalServerError, Message: "oops"}}
	svc := NewService(repo, testRunner(t, client, 5), 16)

	got := svc.Chat(context.Background(), "u1", "s1", "hello")
	if got.Reply != "Something went wrong on my end. Let's try that again." {
		t.Errorf("reply = %q", got.Reply)
	}

	// The fallback reply is persisted so the user sees a consistent transcript.
	turns, _ := domain.DecodeTurns(repo.sessions["u1:s1"].TurnsJSON)
	if len(turns) != 2 || turns[1].JoinedText() != got.Reply {
		t.Errorf("fallback should be persisted, got %+v", turns)
	}
}

func TestChatAuthErrorFallback(t *testing.T) {
	client := &fakeClient{err: model.APIError{StatusCode: http.StatusUnauthorized, Message: "bad key"}}
	svc := NewService(newFakeRepo(), testRunner(t, client, 5), 16)

	got := svc.Chat(context.Background(), "u1", "s1", "hello")
	if got.Reply != "I'm having trouble connecting right now. Let's try again in a moment." {
		t.Errorf("reply = %q", got.Reply)
	}
}

func TestChatExtractsToolThinking(t *testing.T) {
	reply := "DANGER: scam!\n[THINKING_TRACE]hidden reasoning[/THINKING_TRACE]\nStay safe."
	client := &fakeClient{responses: []*model.MessageResponse{textResponse(reply)}}
	svc := NewService(newFakeRepo(), testRunner(t, client, 5), 16)

	got := svc.Chat(context.Background(), "u1", "s1", "is this a scam?")
	if strings.Contains(got.Reply, "THINKING_TRACE") {
		t.Errorf("trace tags should be stripped from reply: %q", got.Reply)
	}
	if got.Thinking != "hidden reasoning" {
		t.Errorf("thinking = %q", got.Thinking)
	}
	if !strings.Contains(got.Reply, "DANGER: scam!") || !strings.Contains(got.Reply, "Stay safe.") {
		t.Errorf("reply content mangled: %q", got.Reply)
	}
}

func TestChatModelThinkingWins(t *testing.T) {
	client := &fakeClient{responses: []*model.MessageResponse{{
		Role: domain.RoleAssistant,
		Content: []domain.ContentBlock{
			{Type: domain.BlockThinking, Thinking: "native thinking"},
			{Type: domain.BlockText, Text: "ok [THINKING_TRACE]tool trace[/THINKING_TRACE]"},
		},
	}}}
	svc := NewService(newFakeRepo(), testRunner(t, client, 5), 16)

	got := svc.Chat(context.Background(), "u1", "s1", "hi")
	if got.Thinking != "native thinking" {
		t.Errorf("native thinking should take precedence, got %q", got.Thinking)
	}
	if strings.Contains(got.Reply, "THINKING_TRACE") {
		t.Errorf("trace tags should still be stripped: %q", got.Reply)
	}
}

func TestChatCorruptHistoryStartsFresh(t *testing.T) {
	repo := newFakeRepo()
	repo.sessions["u1:s1"] = &domain.AgentSession{UserID: "u1", SessionID: "s1", TurnsJSON: "{not json"}
	client := &fakeClient{responses: []*model.MessageResponse{textResponse("fresh start")}}
	svc := NewService(repo, testRunner(t, client, 5), 16)

	got := svc.Chat(context.Background(), "u1", "s1", "hello")
	if got.Reply != "fresh start" {
		t.Errorf("reply = %q", got.Reply)
	}
	if len(client.requests[0].Messages) != 1 {
		t.Errorf("corrupt history should be discarded, got %d turns", len(client.requests[0].Messages))
	}
}

func TestReset(t *testing.T) {
	repo := newFakeRepo()
	repo.sessions["u1:s1"] = &domain.AgentSession{UserID: "u1", SessionID: "s1", TurnsJSON: "[]"}
	svc := NewService(repo, testRunner(t, &fakeClient{}, 5), 16)

	if err := svc.Reset(context.Background(), "u1", "s1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if repo.sessions["u1:s1"] != nil {
		t.Error("session should be deleted")
	}
}
