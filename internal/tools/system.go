package tools

import (
	"context"
	"net"
	"strings"
	"time"
)

// CheckSystemHealth reports why the computer might be slow. Real resource
// inspection needs a desktop helper; from the assistant service this degrades
// to the standard checklist.
func CheckSystemHealth() *Tool {
	return &Tool{
		Name: "check_system_health",
		Description: "Check why the computer is slow or acting up. " +
			"Use when the user says 'my computer is slow', 'everything is freezing', or 'am I running out of space?'",
		Schema: objectSchema(nil, map[string]any{}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			return TextResult(
				"I can't check your computer's health from here, but here are common fixes:\n" +
					"  1. Close programs you're not using (they use memory)\n" +
					"  2. Restart your computer, this fixes most slowness\n" +
					"  3. Make sure your hard drive isn't full, delete old files you don't need\n" +
					"Would you like help with any of these?"), nil
		},
	}
}

// FixFrozenProgram walks the user through closing a stuck program.
func FixFrozenProgram() *Tool {
	return &Tool{
		Name: "fix_frozen_program",
		Description: "Close a program that is frozen or not responding. " +
			"IMPORTANT: Always ask the user to confirm before closing, they may lose unsaved work. " +
			"Call first WITHOUT confirm to see what's running, then WITH confirm=true to actually close it.",
		Schema: objectSchema([]string{"program_name"}, map[string]any{
			"program_name": stringProp("The name of the program (e.g., 'Word', 'Chrome', 'Notepad')"),
			"confirm":      boolProp("Set to true to actually close the program. False just checks if it's running."),
		}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			name := strings.TrimSpace(in.Str("program_name", ""))
			if name == "" {
				return TextResult("Which program is frozen? Tell me its name, like 'Word' or 'Chrome'."), nil
			}
			return TextResult(
				"I can't close " + name + " from here, but here's what to try:\n" +
					"  1. Right-click the program in the taskbar and pick 'Close window'\n" +
					"  2. Press Ctrl + Alt + Delete, then pick 'Task Manager'\n" +
					"  3. Find the program in the list, click it, and press 'End Task'\n" +
					"Would you like me to walk you through Task Manager?"), nil
		},
	}
}

// CheckInternet verifies connectivity with a direct dial, then coaches the
// user through the usual WiFi fixes.
func CheckInternet() *Tool {
	return &Tool{
		Name: "check_internet",
		Description: "Check if the internet is working and diagnose connection problems. " +
			"Use when the user says 'internet isn't working', 'WiFi is down', or 'pages won't load'.",
		Schema: objectSchema(nil, map[string]any{}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			var lines []string

			d := net.Dialer{Timeout: 5 * time.Second}
			conn, err := d.DialContext(ctx, "tcp", "8.8.8.8:53")
			if err == nil {
				conn.Close()
				lines = append(lines, "INTERNET: Your internet is working!")
			} else {
				lines = append(lines,
					"INTERNET: I can't reach the internet right now.",
					"",
					"Here's what to try:",
					"  1. Look for the WiFi icon in the bottom-right corner of your screen",
					"  2. If there's an X on it, click it and pick your WiFi network",
					"  3. Try turning WiFi OFF, wait 10 seconds, turn it back ON",
					"  4. If nothing works, unplug your router, wait 30 seconds, plug it back in",
					"",
					"Would you like me to walk you through any of these?",
				)
			}
			return TextResult(strings.Join(lines, "\n")), nil
		},
	}
}
