// Package model implements a minimal Anthropic Messages API client.
package model

import (
	"encoding/json"
	"fmt"

	"github.com/techpal/techpal/internal/domain"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	messagesPath     = "/v1/messages"
	anthropicVersion = "2023-06-01"
	defaultMaxTokens = 4096
)

// ToolDef describes one callable tool in the request payload.
type ToolDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// ThinkingConfig enables extended thinking on a request.
type ThinkingConfig struct {
	Type string `json:"type"`
}

// AdaptiveThinking lets the model decide when to think. Thinking blocks come
// back in the response content and surface as the reply's reasoning trace.
func AdaptiveThinking() *ThinkingConfig {
	return &ThinkingConfig{Type: "adaptive"}
}

// MessageRequest follows the Anthropic Messages API contract. Messages reuse
// the domain turn encoding, so persisted histories go on the wire unchanged.
type MessageRequest struct {
	Model     string          `json:"model"`
	Messages  []domain.Turn   `json:"messages"`
	System    string          `json:"system,omitempty"`
	MaxTokens int             `json:"max_tokens"`
	Tools     []ToolDef       `json:"tools,omitempty"`
	Thinking  *ThinkingConfig `json:"thinking,omitempty"`
}

type systemBlock struct {
	Type         string        `json:"type"`
	Text         string        `json:"text"`
	CacheControl *cacheControl `json:"cache_control,omitempty"`
}

type cacheControl struct {
	Type string `json:"type"`
}

// MarshalJSON sends the system prompt as a content block carrying an
// ephemeral cache_control marker, so repeated calls in a session reuse the
// cached prefix.
func (r MessageRequest) MarshalJSON() ([]byte, error) {
	type alias MessageRequest
	wire := struct {
		alias
		System []systemBlock `json:"system,omitempty"`
	}{alias: alias(r)}
	if r.System != "" {
		wire.System = []systemBlock{{
			Type:         "text",
			Text:         r.System,
			CacheControl: &cacheControl{Type: "ephemeral"},
		}}
	}
	return json.Marshal(wire)
}

// MessageResponse captures the response schema we care about.
type MessageResponse struct {
	ID         string                `json:"id"`
	Type       string                `json:"type"`
	Role       string                `json:"role"`
	Model      string                `json:"model"`
	Content    []domain.ContentBlock `json:"content"`
	StopReason string                `json:"stop_reason"`
}

// AsTurn converts the response into an assistant turn for the history.
func (r MessageResponse) AsTurn() domain.Turn {
	role := r.Role
	if role == "" {
		role = domain.RoleAssistant
	}
	return domain.BlockTurn(role, r.Content)
}

// ErrorResponse models Anthropic error payloads.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody drills into the API error object.
type ErrorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// APIError surfaces Anthropic errors with HTTP metadata.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e APIError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("anthropic API error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("anthropic API error (%d, %s): %s", e.StatusCode, e.Type, e.Message)
}
