package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTextTurnMarshalsAsString(t *testing.T) {
	data, err := json.Marshal(TextTurn(RoleUser, "hello"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"role":"user","content":"hello"}` {
		t.Errorf("unexpected encoding: %s", data)
	}
}

func TestBlockTurnMarshalsAsList(t *testing.T) {
	turn := BlockTurn(RoleAssistant, []ContentBlock{
		{Type: BlockText, Text: "checking"},
		{Type: BlockToolUse, ID: "tu_1", Name: "check_email", Input: map[string]any{}},
	})
	data, err := json.Marshal(turn)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.HasPrefix(string(data), `{"role":"assistant","content":[`) {
		t.Errorf("block content should encode as a list: %s", data)
	}

	var back Turn
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.IsText() {
		t.Fatal("round-tripped turn lost its blocks")
	}
	uses := back.ToolUses()
	if len(uses) != 1 || uses[0].ID != "tu_1" || uses[0].Name != "check_email" {
		t.Errorf("tool_use not preserved: %+v", uses)
	}
}

func TestUnmarshalStringContent(t *testing.T) {
	var turn Turn
	if err := json.Unmarshal([]byte(`{"role":"user","content":"hi"}`), &turn); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !turn.IsText() || turn.Text != "hi" {
		t.Errorf("unexpected turn: %+v", turn)
	}
}

func TestJoinedText(t *testing.T) {
	turn := BlockTurn(RoleAssistant, []ContentBlock{
		{Type: BlockThinking, Thinking: "hmm"},
		{Type: BlockText, Text: "one"},
		{Type: BlockText, Text: "two"},
	})
	if got := turn.JoinedText(); got != "one two" {
		t.Errorf("JoinedText = %q", got)
	}
	if got := turn.JoinedThinking(); got != "hmm" {
		t.Errorf("JoinedThinking = %q", got)
	}
}

func TestIsToolResultOnly(t *testing.T) {
	resultTurn := BlockTurn(RoleUser, []ContentBlock{
		{Type: BlockToolResult, ToolUseID: "tu_1", Content: []ResultPart{TextPart("ok")}},
	})
	if !resultTurn.IsToolResultOnly() {
		t.Error("pure tool_result turn not detected")
	}

	mixed := BlockTurn(RoleUser, []ContentBlock{
		{Type: BlockToolResult, ToolUseID: "tu_1"},
		{Type: BlockText, Text: "also this"},
	})
	if mixed.IsToolResultOnly() {
		t.Error("mixed turn wrongly detected")
	}
	if TextTurn(RoleUser, "hi").IsToolResultOnly() {
		t.Error("text turn wrongly detected")
	}
}

func TestEncodeDecodeTurns(t *testing.T) {
	turns := []Turn{
		TextTurn(RoleUser, "what's in my inbox?"),
		BlockTurn(RoleAssistant, []ContentBlock{
			{Type: BlockToolUse, ID: "tu_1", Name: "check_email", Input: map[string]any{}},
		}),
		BlockTurn(RoleUser, []ContentBlock{
			{Type: BlockToolResult, ToolUseID: "tu_1", Content: []ResultPart{TextPart("6 emails")}},
		}),
	}

	payload, err := EncodeTurns(turns)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := DecodeTurns(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(back) != 3 {
		t.Fatalf("got %d turns", len(back))
	}
	if !back[0].IsText() || back[0].Text != "what's in my inbox?" {
		t.Errorf("turn 0 lost: %+v", back[0])
	}
	if !back[2].IsToolResultOnly() {
		t.Errorf("turn 2 should be tool_result only: %+v", back[2])
	}
}

func TestDecodeTurnsEmpty(t *testing.T) {
	for _, payload := range []string{"", "   "} {
		turns, err := DecodeTurns(payload)
		if err != nil {
			t.Errorf("DecodeTurns(%q): %v", payload, err)
		}
		if turns != nil {
			t.Errorf("DecodeTurns(%q) = %+v, want nil", payload, turns)
		}
	}
}
