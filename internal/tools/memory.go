package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

var unsafeNoteChars = regexp.MustCompile(`[^\w\s\-.]`)

type noteFile struct {
	name     string
	modified time.Time
}

func listNotes(notesDir string) ([]noteFile, error) {
	entries, err := os.ReadDir(notesDir)
	if err != nil {
		return nil, err
	}
	var notes []noteFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		notes = append(notes, noteFile{name: e.Name(), modified: info.ModTime()})
	}
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].modified.After(notes[j].modified)
	})
	return notes, nil
}

// SaveNote appends to a local note file.
func SaveNote(notesDir string) *Tool {
	return &Tool{
		Name: "save_note",
		Description: "Save a note about the user on their computer. Use this to remember " +
			"preferences, contacts, routines, and what you worked on together. " +
			"Notes are stored as simple text files, private and local.",
		Schema: objectSchema([]string{"filename", "content"}, map[string]any{
			"filename": stringProp("Name for the note file (e.g., 'preferences', 'contacts', 'session-2_12_26')"),
			"content":  stringProp("What to save (plain text)"),
		}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			filename := strings.TrimSpace(in.Str("filename", ""))
			content := strings.TrimSpace(in.Str("content", ""))
			if filename == "" {
				return TextResult("I need a name for this note. What should I call it?"), nil
			}
			if content == "" {
				return TextResult("The note is empty. What would you like me to save?"), nil
			}

			if err := os.MkdirAll(notesDir, 0755); err != nil {
				return Result{}, fmt.Errorf("create notes directory: %w", err)
			}

			if !strings.HasSuffix(filename, ".md") {
				filename += ".md"
			}
			safeName := unsafeNoteChars.ReplaceAllString(filename, "")
			if safeName == "" {
				safeName = "note.md"
			}

			path := filepath.Join(notesDir, safeName)
			f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				return Result{}, fmt.Errorf("open note: %w", err)
			}
			defer f.Close()

			stamp := time.Now().Format(dateFormat)
			if _, err := fmt.Fprintf(f, "\n---\n_Updated: %s_\n\n%s\n", stamp, content); err != nil {
				return Result{}, fmt.Errorf("write note: %w", err)
			}

			return TextResult(fmt.Sprintf("Saved to %s. This note is stored safely on your computer, not in the cloud.", safeName)), nil
		},
	}
}

// ReadNotes reads a note file, or lists all notes.
func ReadNotes(notesDir string) *Tool {
	return &Tool{
		Name: "read_notes",
		Description: "Read a note file from the user's computer, or list all available notes. " +
			"Use to recall what you know about the user: their preferences, contacts, past sessions.",
		Schema: objectSchema(nil, map[string]any{
			"filename": stringProp("Name of the note to read (e.g., 'preferences', 'contacts'). Leave empty to list all notes."),
		}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			filename := strings.TrimSpace(in.Str("filename", ""))

			notes, err := listNotes(notesDir)
			if err != nil {
				return TextResult("No notes yet. This looks like our first time working together!"), nil
			}

			if filename == "" {
				if len(notes) == 0 {
					return TextResult("No notes saved yet."), nil
				}
				lines := []string{"Here are the notes I have saved on your computer:", ""}
				for _, n := range notes {
					lines = append(lines, fmt.Sprintf("  - %s (last updated %s)", n.name, n.modified.Format("January 2, 2006")))
				}
				return TextResult(strings.Join(lines, "\n")), nil
			}

			if !strings.HasSuffix(filename, ".md") {
				filename += ".md"
			}
			data, err := os.ReadFile(filepath.Join(notesDir, filename))
			if err != nil {
				return TextResult(fmt.Sprintf("I don't have a note called '%s'. Would you like me to create one?", filename)), nil
			}

			text := string(data)
			if len(text) > 3000 {
				text = text[:3000] + "\n\n... (note continues)"
			}
			return TextResult(fmt.Sprintf("=== %s ===\n%s", filename, text)), nil
		},
	}
}

// RecallUserContext restores what the assistant knows about the user by
// reading priority notes and the latest session note.
func RecallUserContext(notesDir string) *Tool {
	return &Tool{
		Name: "recall_user_context",
		Description: "Remember what you know about this person by reading saved notes. " +
			"Call this at the start of each conversation to restore context. " +
			"Reads preferences, contacts, and the most recent session notes.",
		Schema: objectSchema(nil, map[string]any{}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			notes, err := listNotes(notesDir)
			if err != nil || len(notes) == 0 {
				return TextResult("No notes yet. This is our first conversation! I'll start keeping notes about what we work on together."), nil
			}

			var parts []string

			for _, priority := range []string{"preferences.md", "contacts.md"} {
				data, err := os.ReadFile(filepath.Join(notesDir, priority))
				if err != nil {
					continue
				}
				parts = append(parts, fmt.Sprintf("=== %s ===\n%s", priority, clip(string(data), 2000)))
			}

			for _, n := range notes {
				if strings.HasPrefix(n.name, "session-") {
					data, err := os.ReadFile(filepath.Join(notesDir, n.name))
					if err == nil {
						parts = append(parts, fmt.Sprintf("=== %s (most recent) ===\n%s", n.name, clip(string(data), 2000)))
					}
					break
				}
			}

			var names []string
			for _, n := range notes {
				names = append(names, n.name)
			}
			parts = append(parts, "\nAll note files: "+strings.Join(names, ", "))

			return TextResult(strings.Join(parts, "\n\n")), nil
		},
	}
}

func clip(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
