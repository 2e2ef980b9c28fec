package tools

import (
	"context"
	"log/slog"

	"github.com/techpal/techpal/internal/domain"
)

const troubleMessage = "I had trouble with that. Let's try a different approach."

// Dispatcher executes tools by name and contains their failures. The user
// only ever sees friendly text; errors and panics are logged and replaced
// with a generic recovery message so the conversation can continue.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher builds a dispatcher over the registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Dispatch runs one tool invocation and returns the result parts for the
// tool_result block. It never returns an error.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, input map[string]any) []domain.ResultPart {
	tool, ok := d.registry.Get(name)
	if !ok {
		slog.Warn("unknown tool requested", "tool", name)
		return []domain.ResultPart{domain.TextPart("I don't have a tool called '" + name + "'.")}
	}

	result, err := d.run(ctx, tool, Input(input))
	if err != nil {
		slog.Error("tool execution failed", "tool", name, "error", err)
		return []domain.ResultPart{domain.TextPart(troubleMessage)}
	}
	return result.AsParts()
}

func (d *Dispatcher) run(ctx context.Context, tool *Tool, in Input) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("tool panicked", "tool", tool.Name, "panic", r)
			result = Result{}
			err = panicError{tool.Name}
		}
	}()
	return tool.Run(ctx, in)
}

type panicError struct {
	tool string
}

func (e panicError) Error() string {
	return "tool " + e.tool + " panicked"
}
