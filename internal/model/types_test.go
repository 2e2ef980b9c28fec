package model

import (
	"encoding/json"
	"testing"

	"github.com/techpal/techpal/internal/domain"
)

func TestMessageRequestWireFormat(t *testing.T) {
	req := MessageRequest{
		Model:     "test-model",
		Messages:  []domain.Turn{domain.TextTurn(domain.RoleUser, "hello")},
		System:    "be helpful",
		MaxTokens: 1024,
		Thinking:  AdaptiveThinking(),
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var wire map[string]any
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("unmarshal wire: %v", err)
	}

	// System goes out as a cached content block, not a bare string.
	system, ok := wire["system"].([]any)
	if !ok {
		t.Fatalf("system should encode as a block list, got %T", wire["system"])
	}
	block := system[0].(map[string]any)
	if block["type"] != "text" || block["text"] != "be helpful" {
		t.Errorf("unexpected system block: %v", block)
	}
	cache, ok := block["cache_control"].(map[string]any)
	if !ok || cache["type"] != "ephemeral" {
		t.Errorf("system block should carry ephemeral cache_control: %v", block)
	}

	thinking, ok := wire["thinking"].(map[string]any)
	if !ok || thinking["type"] != "adaptive" {
		t.Errorf("unexpected thinking config: %v", wire["thinking"])
	}
}

func TestMessageRequestOmitsEmptySystem(t *testing.T) {
	data, err := json.Marshal(MessageRequest{Model: "test-model", MaxTokens: 64})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var wire map[string]any
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("unmarshal wire: %v", err)
	}
	if _, present := wire["system"]; present {
		t.Errorf("empty system should be omitted: %s", data)
	}
	if _, present := wire["thinking"]; present {
		t.Errorf("nil thinking should be omitted: %s", data)
	}
}
