// Package platform abstracts host desktop capabilities.
//
// Screen-control tools need UI automation and screen capture; those are only
// available on a desktop host with the right helpers installed. Everywhere
// else the tools degrade to spoken instructions, which is often the better
// outcome anyway since the user learns the steps.
package platform

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Capabilities reports what the host can do and performs the host-side
// actions the tools need. Tools must only report success after the
// corresponding action returns nil; an error means the tool falls back to
// talking the user through the step.
type Capabilities interface {
	// SupportsUIAutomation reports whether synthetic clicks and keystrokes
	// are available.
	SupportsUIAutomation() bool

	// SupportsScreenCapture reports whether screenshots are available.
	SupportsScreenCapture() bool

	// Click presses a named button in the given window.
	Click(ctx context.Context, window, button string) error

	// Type sends keystrokes to the given window.
	Type(ctx context.Context, window, text string) error

	// Launch starts an application by name.
	Launch(ctx context.Context, app string) error

	// CaptureScreen takes a full-screen screenshot and returns it as
	// base64-encoded PNG data.
	CaptureScreen(ctx context.Context) (string, error)

	// OpenPath opens a file or folder with the default application.
	OpenPath(ctx context.Context, path string) error

	// OpenURL opens a URL in the default browser.
	OpenURL(ctx context.Context, url string) error

	// Print sends a file to the default printer.
	Print(ctx context.Context, path string) error
}

// Host is the default Capabilities implementation, keyed off the OS.
type Host struct {
	goos string
}

// NewHost detects capabilities for the current OS.
func NewHost() *Host {
	return &Host{goos: runtime.GOOS}
}

// SupportsUIAutomation reports synthetic input support.
func (h *Host) SupportsUIAutomation() bool {
	// Synthetic input goes through xdotool on Linux; other platforms have
	// no helper in this build.
	if h.goos == "linux" {
		_, err := exec.LookPath("xdotool")
		return err == nil
	}
	return false
}

// SupportsScreenCapture reports screenshot support.
func (h *Host) SupportsScreenCapture() bool {
	switch h.goos {
	case "linux":
		_, err := exec.LookPath("import")
		return err == nil
	case "darwin":
		return true
	default:
		return false
	}
}

// Click presses a named button. xdotool drives coordinates and keys but has
// no accessibility tree, so locating a button by name always fails here; the
// tools fall back to instructions.
func (h *Host) Click(ctx context.Context, window, button string) error {
	return fmt.Errorf("no accessibility bridge to locate %q in %q on %s", button, window, h.goos)
}

// Type focuses the named window and sends keystrokes via xdotool.
func (h *Host) Type(ctx context.Context, window, text string) error {
	if h.goos != "linux" {
		return fmt.Errorf("typing not supported on %s", h.goos)
	}
	xdotool, err := exec.LookPath("xdotool")
	if err != nil {
		return fmt.Errorf("no automation helper: %w", err)
	}
	if window != "" {
		if err := exec.CommandContext(ctx, xdotool, "search", "--name", window, "windowactivate", "--sync").Run(); err != nil {
			return fmt.Errorf("activate window %q: %w", window, err)
		}
	}
	if err := exec.CommandContext(ctx, xdotool, "type", "--delay", "50", text).Run(); err != nil {
		return fmt.Errorf("type into %q: %w", window, err)
	}
	return nil
}

// Launch starts an application by name.
func (h *Host) Launch(ctx context.Context, app string) error {
	bin, err := exec.LookPath(strings.ToLower(strings.TrimSpace(app)))
	if err != nil {
		return fmt.Errorf("application %q not found: %w", app, err)
	}
	if err := exec.CommandContext(ctx, bin).Start(); err != nil {
		return fmt.Errorf("launch %q: %w", app, err)
	}
	return nil
}

// CaptureScreen screenshots the full screen and returns base64 PNG data.
func (h *Host) CaptureScreen(ctx context.Context) (string, error) {
	tmp, err := os.CreateTemp("", "techpal-screen-*.png")
	if err != nil {
		return "", fmt.Errorf("create screenshot file: %w", err)
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	var cmd *exec.Cmd
	switch h.goos {
	case "darwin":
		cmd = exec.CommandContext(ctx, "screencapture", "-x", path)
	case "linux":
		imp, err := exec.LookPath("import")
		if err != nil {
			return "", fmt.Errorf("no capture helper: %w", err)
		}
		cmd = exec.CommandContext(ctx, imp, "-window", "root", path)
	default:
		return "", fmt.Errorf("screen capture not supported on %s", h.goos)
	}
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("capture screen: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read screenshot: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("capture produced an empty image")
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// OpenPath opens a file or folder with the default application.
func (h *Host) OpenPath(ctx context.Context, path string) error {
	return h.open(ctx, path)
}

// OpenURL opens a URL in the default browser.
func (h *Host) OpenURL(ctx context.Context, url string) error {
	return h.open(ctx, url)
}

func (h *Host) open(ctx context.Context, target string) error {
	var cmd *exec.Cmd
	switch h.goos {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", target)
	case "linux":
		cmd = exec.CommandContext(ctx, "xdg-open", target)
	default:
		return fmt.Errorf("open not supported on %s", h.goos)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("open %q: %w", target, err)
	}
	return nil
}

// Print sends a file to the default printer via lp.
func (h *Host) Print(ctx context.Context, path string) error {
	lp, err := exec.LookPath("lp")
	if err != nil {
		return fmt.Errorf("no print command available: %w", err)
	}
	if err := exec.CommandContext(ctx, lp, path).Run(); err != nil {
		return fmt.Errorf("print %q: %w", path, err)
	}
	return nil
}
