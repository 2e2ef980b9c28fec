// Package tools implements the assistant's callable tools: file search,
// printing, email, photos, video calls, scam analysis, notes, and remote
// screen helpers.
package tools

import (
	"context"

	"github.com/techpal/techpal/internal/domain"
)

// Tool is one callable tool. Schema follows JSON Schema as the Messages API
// expects it. Run receives the raw tool input and returns a result; errors
// are contained by the dispatcher and never reach the user verbatim.
type Tool struct {
	Name        string
	Description string
	Schema      map[string]any
	Run         func(ctx context.Context, in Input) (Result, error)
}

// Input wraps the decoded tool_use input with typed accessors. Model output
// is untrusted; accessors fall back to defaults on wrong types.
type Input map[string]any

// Str returns the named string argument, or fallback.
func (in Input) Str(key, fallback string) string {
	if v, ok := in[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// Int returns the named integer argument, or fallback. JSON numbers decode
// as float64.
func (in Input) Int(key string, fallback int) int {
	switch v := in[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}

// Bool returns the named boolean argument, or fallback.
func (in Input) Bool(key string, fallback bool) bool {
	if v, ok := in[key].(bool); ok {
		return v
	}
	return fallback
}

// Result is a tool outcome: plain text, or structured parts when the tool
// returns images alongside text.
type Result struct {
	Text  string
	Parts []domain.ResultPart
}

// TextResult builds a plain-text result.
func TextResult(text string) Result {
	return Result{Text: text}
}

// PartsResult builds a structured result.
func PartsResult(parts ...domain.ResultPart) Result {
	return Result{Parts: parts}
}

// AsParts normalizes the result to content parts for the tool_result block.
func (r Result) AsParts() []domain.ResultPart {
	if r.Parts != nil {
		return r.Parts
	}
	return []domain.ResultPart{domain.TextPart(r.Text)}
}

// Schema helpers keep tool definitions terse.

func objectSchema(required []string, props map[string]any) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func stringProp(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func intProp(desc string) map[string]any {
	return map[string]any{"type": "integer", "description": desc}
}

func boolProp(desc string) map[string]any {
	return map[string]any{"type": "boolean", "description": desc}
}
