// Package domain contains core domain types for the TechPal assistant.
package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Content block types used in conversation turns. These mirror the wire
// format of the Anthropic Messages API so persisted sessions can be replayed
// into the next model call without translation.
const (
	BlockText       = "text"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
	BlockThinking   = "thinking"
	BlockImage      = "image"
)

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ImageSource carries base64 image data for vision content.
type ImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// ResultPart is one element of a structured tool result — either a text
// part or an image part (vision tools return both).
type ResultPart struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *ImageSource `json:"source,omitempty"`
}

// TextPart builds a text result part.
func TextPart(text string) ResultPart {
	return ResultPart{Type: BlockText, Text: text}
}

// ImagePart builds a base64 PNG image result part.
func ImagePart(base64Data string) ResultPart {
	return ResultPart{
		Type: BlockImage,
		Source: &ImageSource{
			Type:      "base64",
			MediaType: "image/png",
			Data:      base64Data,
		},
	}
}

// ContentBlock is the tagged union of block kinds that can appear in a
// turn: text, tool_use, tool_result, thinking, image. Only the fields
// matching Type are populated.
type ContentBlock struct {
	Type string `json:"type"`

	// text
	Text string `json:"text,omitempty"`

	// tool_use
	ID    string         `json:"id,omitempty"`
	Name  string         `json:"name,omitempty"`
	Input map[string]any `json:"input,omitempty"`

	// tool_result
	ToolUseID string       `json:"tool_use_id,omitempty"`
	Content   []ResultPart `json:"content,omitempty"`

	// thinking
	Thinking  string `json:"thinking,omitempty"`
	Signature string `json:"signature,omitempty"`

	// image
	Source *ImageSource `json:"source,omitempty"`
}

// Turn is a single conversational turn. Content is either plain text or an
// ordered list of content blocks; exactly one of Text/Blocks is set.
// Plain-text turns serialize as {"role":...,"content":"..."} and block
// turns as {"role":...,"content":[...]}, matching the Messages API.
type Turn struct {
	Role   string
	Text   string
	Blocks []ContentBlock
}

// TextTurn builds a plain-text turn.
func TextTurn(role, text string) Turn {
	return Turn{Role: role, Text: text}
}

// BlockTurn builds a structured turn.
func BlockTurn(role string, blocks []ContentBlock) Turn {
	return Turn{Role: role, Blocks: blocks}
}

// IsText reports whether the turn carries plain text content.
func (t Turn) IsText() bool {
	return t.Blocks == nil
}

// ToolUses returns the tool_use blocks of the turn, in order.
func (t Turn) ToolUses() []ContentBlock {
	var uses []ContentBlock
	for _, b := range t.Blocks {
		if b.Type == BlockToolUse {
			uses = append(uses, b)
		}
	}
	return uses
}

// JoinedText concatenates the turn's text — the plain content for text
// turns, or all text blocks joined with spaces for block turns.
func (t Turn) JoinedText() string {
	if t.IsText() {
		return t.Text
	}
	var parts []string
	for _, b := range t.Blocks {
		if b.Type == BlockText && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, " ")
}

// JoinedThinking concatenates the turn's thinking blocks with newlines.
func (t Turn) JoinedThinking() string {
	var parts []string
	for _, b := range t.Blocks {
		if b.Type == BlockThinking && b.Thinking != "" {
			parts = append(parts, b.Thinking)
		}
	}
	return strings.Join(parts, "\n")
}

// IsToolResultOnly reports whether every block in the turn is a tool_result.
// Such turns are the tool-feedback turns the loop appends after execution.
func (t Turn) IsToolResultOnly() bool {
	if t.IsText() || len(t.Blocks) == 0 {
		return false
	}
	for _, b := range t.Blocks {
		if b.Type != BlockToolResult {
			return false
		}
	}
	return true
}

type turnJSON struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// MarshalJSON encodes the content union as a string or a block list.
func (t Turn) MarshalJSON() ([]byte, error) {
	var content any
	if t.IsText() {
		content = t.Text
	} else {
		content = t.Blocks
	}
	raw, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("marshal turn content: %w", err)
	}
	return json.Marshal(turnJSON{Role: t.Role, Content: raw})
}

// UnmarshalJSON decodes content as a string when possible, otherwise as a
// block list.
func (t *Turn) UnmarshalJSON(data []byte) error {
	var raw turnJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal turn: %w", err)
	}
	t.Role = raw.Role
	t.Text = ""
	t.Blocks = nil

	var text string
	if err := json.Unmarshal(raw.Content, &text); err == nil {
		t.Text = text
		return nil
	}
	var blocks []ContentBlock
	if err := json.Unmarshal(raw.Content, &blocks); err != nil {
		return fmt.Errorf("unmarshal turn content: %w", err)
	}
	t.Blocks = blocks
	return nil
}

// EncodeTurns serializes a turn list for session storage.
func EncodeTurns(turns []Turn) (string, error) {
	data, err := json.Marshal(turns)
	if err != nil {
		return "", fmt.Errorf("encode turns: %w", err)
	}
	return string(data), nil
}

// DecodeTurns parses a stored turn list. An empty payload yields nil.
func DecodeTurns(payload string) ([]Turn, error) {
	if strings.TrimSpace(payload) == "" {
		return nil, nil
	}
	var turns []Turn
	if err := json.Unmarshal([]byte(payload), &turns); err != nil {
		return nil, fmt.Errorf("decode turns: %w", err)
	}
	return turns, nil
}
