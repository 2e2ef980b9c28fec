package tools

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/techpal/techpal/internal/platform"
)

// PrintDocument sends a file to the printer.
func PrintDocument(caps platform.Capabilities) *Tool {
	return &Tool{
		Name:        "print_document",
		Description: "Send a document to the printer. Confirms settings before printing to avoid waste.",
		Schema: objectSchema([]string{"file_path"}, map[string]any{
			"file_path": stringProp("Full path to the file to print"),
			"copies":    intProp("How many copies to print (default 1)"),
		}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			path := in.Str("file_path", "")
			if _, err := os.Stat(path); err != nil {
				return TextResult("I can't find that file. Could you help me find it first?"), nil
			}
			copies := in.Int("copies", 1)
			if copies > 5 {
				return TextResult(fmt.Sprintf("That's a lot of copies (%d). Are you sure you want to print that many?", copies)), nil
			}
			if err := caps.Print(ctx, path); err != nil {
				return TextResult("I had trouble reaching the printer. Let's check if it's turned on and connected."), nil
			}
			return TextResult(fmt.Sprintf("Sending %s to the printer now. You should hear it start in a moment.", filepath.Base(path))), nil
		},
	}
}

// TroubleshootPrinter diagnoses common printer problems.
func TroubleshootPrinter() *Tool {
	return &Tool{
		Name: "troubleshoot_printer",
		Description: "Check why the printer isn't working. Diagnoses common problems like offline printer " +
			"or stuck print jobs. Use when the user says 'my printer isn't working' or 'I can't print'.",
		Schema: objectSchema(nil, map[string]any{}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			lines := []string{"Let me check your printer...", ""}

			out, err := exec.CommandContext(ctx, "lpstat", "-p", "-d").Output()
			if err == nil && strings.TrimSpace(string(out)) != "" {
				lines = append(lines, "Printer status:")
				for _, l := range strings.Split(strings.TrimSpace(string(out)), "\n") {
					lines = append(lines, "  "+l)
				}
				lines = append(lines, "")
			} else {
				lines = append(lines, "I couldn't find any printers set up on this computer.", "")
			}

			lines = append(lines,
				"Here's what to try:",
				"  1. Make sure the printer is turned ON (look for a green light)",
				"  2. Check that the cable is plugged in, or that WiFi is connected",
				"  3. Try turning the printer OFF, wait 10 seconds, turn it back ON",
				"  4. Make sure there's paper in the tray",
				"  5. Check that the right printer is selected as your default",
				"",
				"Let me know what you find and I'll help from there!",
			)
			return TextResult(strings.Join(lines, "\n")), nil
		},
	}
}
