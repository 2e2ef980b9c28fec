package assistant

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/techpal/techpal/internal/domain"
)

func toolExchange(text string) []domain.Turn {
	return []domain.Turn{
		domain.BlockTurn(domain.RoleAssistant, []domain.ContentBlock{
			{Type: domain.BlockText, Text: text},
			{Type: domain.BlockToolUse, ID: "t1", Name: "check_email", Input: map[string]any{}},
		}),
		domain.BlockTurn(domain.RoleUser, []domain.ContentBlock{
			{Type: domain.BlockToolResult, ToolUseID: "t1", Content: []domain.ResultPart{domain.TextPart("inbox listing")}},
		}),
	}
}

func TestCompactShortHistoryUnchanged(t *testing.T) {
	history := []domain.Turn{
		domain.TextTurn(domain.RoleUser, "hi"),
		domain.TextTurn(domain.RoleAssistant, "Hi there!"),
		domain.TextTurn(domain.RoleUser, "check my email"),
		domain.TextTurn(domain.RoleAssistant, "You have 6 emails."),
	}

	got := Compact(history, 16)
	if len(got) != 4 {
		t.Fatalf("short history should be untouched, got %d turns", len(got))
	}
}

func TestCompactKeepsTailVerbatim(t *testing.T) {
	var history []domain.Turn
	history = append(history, domain.TextTurn(domain.RoleUser, "old question"))
	history = append(history, toolExchange("let me check")...)
	history = append(history, domain.TextTurn(domain.RoleAssistant, "all done"))
	history = append(history, domain.TextTurn(domain.RoleUser, "new question"))
	history = append(history, toolExchange("looking now")...)

	got := Compact(history, 16)

	// Everything from the last plain-text user turn stays as-is, including
	// the in-flight tool exchange.
	tail := got[len(got)-3:]
	if tail[0].JoinedText() != "new question" {
		t.Fatalf("expected tail to start at last user text turn, got %+v", tail[0])
	}
	if len(tail[1].ToolUses()) != 1 {
		t.Errorf("tool_use turn in tail should survive, got %+v", tail[1])
	}
	if !tail[2].IsToolResultOnly() {
		t.Errorf("tool_result turn in tail should survive, got %+v", tail[2])
	}
}

func TestCompactReducesOldTurns(t *testing.T) {
	var history []domain.Turn
	history = append(history, domain.TextTurn(domain.RoleUser, "old question"))
	history = append(history, toolExchange("let me check")...)
	history = append(history, domain.TextTurn(domain.RoleAssistant, "all done"))
	history = append(history, domain.TextTurn(domain.RoleUser, "new question"))

	got := Compact(history, 16)

	for i, turn := range got[:len(got)-1] {
		if !turn.IsText() {
			t.Errorf("old turn %d should be reduced to text, got %+v", i, turn)
		}
	}

	// The old assistant block turn collapses to its text content; the old
	// tool_result turn disappears.
	found := false
	for _, turn := range got {
		if turn.IsToolResultOnly() {
			t.Errorf("old tool_result turn should be dropped: %+v", turn)
		}
		if turn.Role == domain.RoleAssistant && turn.JoinedText() == "let me check" {
			found = true
		}
	}
	if !found {
		t.Errorf("old assistant block turn should collapse to text, got %v", got)
	}
}

func TestCompactCapsEntries(t *testing.T) {
	var history []domain.Turn
	for i := 0; i < 30; i++ {
		history = append(history, domain.TextTurn(domain.RoleUser, fmt.Sprintf("question %d", i)))
		history = append(history, domain.TextTurn(domain.RoleAssistant, fmt.Sprintf("answer %d", i)))
	}

	got := Compact(history, 16)
	if len(got) != 16 {
		t.Fatalf("expected 16 entries, got %d", len(got))
	}
	if got[len(got)-1].JoinedText() != "answer 29" {
		t.Errorf("cap should keep the tail, got %q", got[len(got)-1].JoinedText())
	}
}

func TestCompactStartsWithUserTurn(t *testing.T) {
	var history []domain.Turn
	for i := 0; i < 20; i++ {
		history = append(history, domain.TextTurn(domain.RoleUser, fmt.Sprintf("q%d", i)))
		history = append(history, domain.TextTurn(domain.RoleAssistant, fmt.Sprintf("a%d", i)))
	}

	// A cap of 15 would otherwise leave an assistant turn first.
	got := Compact(history, 15)
	if len(got) == 0 || got[0].Role != domain.RoleUser {
		t.Fatalf("compacted history must start with a user turn, got %+v", got)
	}
}

func TestCompactIdempotent(t *testing.T) {
	var history []domain.Turn
	for i := 0; i < 6; i++ {
		history = append(history, domain.TextTurn(domain.RoleUser, fmt.Sprintf("question %d", i)))
		history = append(history, toolExchange(fmt.Sprintf("checking %d", i))...)
		history = append(history, domain.TextTurn(domain.RoleAssistant, fmt.Sprintf("answer %d", i)))
	}

	once := Compact(history, 16)
	twice := Compact(once, 16)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("compacting twice must match compacting once:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestCompactDropsEmptyAssistantBlockTurns(t *testing.T) {
	history := []domain.Turn{
		domain.TextTurn(domain.RoleUser, "old"),
		domain.BlockTurn(domain.RoleAssistant, []domain.ContentBlock{
			{Type: domain.BlockToolUse, ID: "t1", Name: "check_email", Input: map[string]any{}},
		}),
		domain.BlockTurn(domain.RoleUser, []domain.ContentBlock{
			{Type: domain.BlockToolResult, ToolUseID: "t1"},
		}),
		domain.TextTurn(domain.RoleAssistant, "done"),
		domain.TextTurn(domain.RoleUser, "new"),
	}

	got := Compact(history, 16)
	for _, turn := range got[:len(got)-1] {
		if turn.Role == domain.RoleAssistant && turn.JoinedText() == "" {
			t.Errorf("text-less assistant block turn should be dropped, got %+v", turn)
		}
	}
}
