package tools

import (
	"context"
	"errors"
	"testing"
)

// fakeCaps is a Capabilities stub for tests: no automation, no capture.
type fakeCaps struct{}

func (fakeCaps) SupportsUIAutomation() bool { return false }

func (fakeCaps) SupportsScreenCapture() bool { return false }

func (fakeCaps) Click(ctx context.Context, window, button string) error {
	return errors.New("no automation")
}

func (fakeCaps) Type(ctx context.Context, window, text string) error {
	return errors.New("no automation")
}

func (fakeCaps) Launch(ctx context.Context, app string) error { return errors.New("no automation") }

func (fakeCaps) CaptureScreen(ctx context.Context) (string, error) {
	return "", errors.New("no capture")
}

func (fakeCaps) OpenPath(ctx context.Context, path string) error { return nil }

func (fakeCaps) OpenURL(ctx context.Context, url string) error { return nil }

func (fakeCaps) Print(ctx context.Context, path string) error { return nil }

func TestDispatchUnknownTool(t *testing.T) {
	r, _ := NewRegistry(noopTool("real"))
	d := NewDispatcher(r)

	parts := d.Dispatch(context.Background(), "imaginary", nil)
	if len(parts) != 1 || parts[0].Text != "I don't have a tool called 'imaginary'." {
		t.Errorf("unexpected parts: %+v", parts)
	}
}

func TestDispatchToolError(t *testing.T) {
	failing := &Tool{
		Name:        "broken",
		Description: "always fails",
		Schema:      objectSchema(nil, map[string]any{}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			return Result{}, errors.New("disk on fire")
		},
	}
	r, _ := NewRegistry(failing)
	d := NewDispatcher(r)

	parts := d.Dispatch(context.Background(), "broken", nil)
	if len(parts) != 1 || parts[0].Text != troubleMessage {
		t.Errorf("errors must be replaced with the friendly message, got %+v", parts)
	}
}

func TestDispatchContainsPanics(t *testing.T) {
	panicking := &Tool{
		Name:        "kaboom",
		Description: "always panics",
		Schema:      objectSchema(nil, map[string]any{}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			panic("boom")
		},
	}
	r, _ := NewRegistry(panicking)
	d := NewDispatcher(r)

	parts := d.Dispatch(context.Background(), "kaboom", nil)
	if len(parts) != 1 || parts[0].Text != troubleMessage {
		t.Errorf("panics must be contained, got %+v", parts)
	}
}

func TestDispatchPassesInput(t *testing.T) {
	echo := &Tool{
		Name:        "echo",
		Description: "echoes input",
		Schema:      objectSchema([]string{"text"}, map[string]any{"text": stringProp("text")}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			return TextResult(in.Str("text", "") + "/" + in.Str("missing", "fallback")), nil
		},
	}
	r, _ := NewRegistry(echo)
	d := NewDispatcher(r)

	parts := d.Dispatch(context.Background(), "echo", map[string]any{"text": "hi"})
	if parts[0].Text != "hi/fallback" {
		t.Errorf("input not passed through: %+v", parts)
	}
}

func TestInputAccessors(t *testing.T) {
	in := Input{
		"s":     "str",
		"n":     float64(7), // JSON numbers decode as float64
		"b":     true,
		"wrong": []string{"x"},
	}

	if got := in.Str("s", "d"); got != "str" {
		t.Errorf("Str = %q", got)
	}
	if got := in.Str("absent", "d"); got != "d" {
		t.Errorf("Str default = %q", got)
	}
	if got := in.Int("n", 0); got != 7 {
		t.Errorf("Int = %d", got)
	}
	if got := in.Int("wrong", 3); got != 3 {
		t.Errorf("Int wrong-type default = %d", got)
	}
	if got := in.Bool("b", false); !got {
		t.Error("Bool = false")
	}
}
