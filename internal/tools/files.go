package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/techpal/techpal/internal/platform"
)

const (
	searchMaxDepth   = 3
	searchMaxResults = 50
	dateFormat       = "January 2, 2006 at 3:04 PM"
)

type fileMatch struct {
	path     string
	name     string
	folder   string
	modified time.Time
}

// userFolders returns the standard folders a non-technical user saves into.
func userFolders() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, "Desktop"),
		filepath.Join(home, "Documents"),
		filepath.Join(home, "Downloads"),
		filepath.Join(home, "Pictures"),
	}
}

// walkMatches collects files under root for which keep returns true. The
// crawl is depth-limited and skips dotfiles; unreadable entries are ignored.
func walkMatches(root string, keep func(path string, info os.FileInfo) bool, results *[]fileMatch) {
	var walk func(path string, depth int)
	walk = func(path string, depth int) {
		if len(*results) >= searchMaxResults {
			return
		}
		info, err := os.Stat(path)
		if err != nil {
			return
		}
		name := filepath.Base(path)
		if strings.HasPrefix(name, ".") {
			return
		}
		if info.IsDir() {
			if depth >= searchMaxDepth {
				return
			}
			entries, err := os.ReadDir(path)
			if err != nil {
				return
			}
			for _, e := range entries {
				walk(filepath.Join(path, e.Name()), depth+1)
				if len(*results) >= searchMaxResults {
					return
				}
			}
			return
		}
		if keep(path, info) {
			*results = append(*results, fileMatch{
				path:     path,
				name:     name,
				folder:   filepath.Dir(path),
				modified: info.ModTime(),
			})
		}
	}
	walk(root, 0)
}

func collectMatches(searchIn string, keep func(path string, info os.FileInfo) bool) []fileMatch {
	var dirs []string
	if searchIn == "" || searchIn == "common" {
		dirs = userFolders()
	} else {
		dirs = []string{searchIn}
	}

	var results []fileMatch
	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			walkMatches(filepath.Join(dir, e.Name()), keep, &results)
			if len(results) >= searchMaxResults {
				break
			}
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].modified.After(results[j].modified)
	})
	return results
}

func listMatches(header string, results []fileMatch, modifiedLabel string) string {
	lines := []string{header, ""}
	shown := results
	if len(shown) > 10 {
		shown = shown[:10]
	}
	for i, r := range shown {
		lines = append(lines,
			fmt.Sprintf("%d. %s", i+1, r.name),
			fmt.Sprintf("   In: %s", r.folder),
			fmt.Sprintf("   %s: %s", modifiedLabel, r.modified.Format(dateFormat)),
			"")
	}
	if len(results) > 10 {
		lines = append(lines, fmt.Sprintf("...and %d more.", len(results)-10))
	}
	return strings.Join(lines, "\n")
}

// FindFile searches common folders for a file by partial name.
func FindFile() *Tool {
	return &Tool{
		Name: "find_file",
		Description: "Find a file by partial name. Searches Desktop, Documents, Downloads, Pictures. " +
			"This is the #1 thing users need help with: they saved something and can't find it.",
		Schema: objectSchema([]string{"name"}, map[string]any{
			"name":      stringProp("Partial filename to search for (e.g., 'grocery', 'receipt', 'photo')"),
			"search_in": stringProp("Where to search: 'common' for standard folders, or a specific path"),
		}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			name := strings.ToLower(in.Str("name", ""))
			if name == "" {
				return TextResult("What's the file called? Even part of the name helps."), nil
			}
			results := collectMatches(in.Str("search_in", "common"), func(path string, info os.FileInfo) bool {
				return strings.Contains(strings.ToLower(filepath.Base(path)), name)
			})
			if len(results) == 0 {
				return TextResult(fmt.Sprintf("I couldn't find any files with '%s' in the name. Would you like me to search somewhere else?", in.Str("name", ""))), nil
			}
			header := fmt.Sprintf("I found %d file(s) matching '%s':", len(results), in.Str("name", ""))
			return TextResult(listMatches(header, results, "Last changed")), nil
		},
	}
}

// FindRecentFiles finds files changed within the last N hours.
func FindRecentFiles() *Tool {
	typeExtensions := map[string]map[string]bool{
		"documents":    {".doc": true, ".docx": true, ".pdf": true, ".txt": true, ".rtf": true, ".odt": true},
		"pictures":     {".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true, ".tiff": true},
		"spreadsheets": {".xls": true, ".xlsx": true, ".csv": true, ".ods": true},
	}

	return &Tool{
		Name: "find_recent_files",
		Description: "Find files that were recently saved or changed. " +
			"Perfect for 'I just saved it' or 'where did it go?' requests.",
		Schema: objectSchema(nil, map[string]any{
			"hours":     intProp("How far back to look (default 24 hours)"),
			"file_type": stringProp("Filter by type: 'all', 'documents', 'pictures', 'spreadsheets'"),
		}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			hours := in.Int("hours", 24)
			if hours <= 0 {
				hours = 24
			}
			cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)
			allowed := typeExtensions[in.Str("file_type", "all")]

			results := collectMatches("common", func(path string, info os.FileInfo) bool {
				if allowed != nil && !allowed[strings.ToLower(filepath.Ext(path))] {
					return false
				}
				return info.ModTime().After(cutoff)
			})
			if len(results) == 0 {
				return TextResult(fmt.Sprintf("I didn't find any files changed in the last %d hours. Would you like me to look further back?", hours)), nil
			}
			header := fmt.Sprintf("Here are your recently changed files (last %d hours):", hours)
			return TextResult(listMatches(header, results, "Last changed")), nil
		},
	}
}

// OpenFile opens a file with the default application.
func OpenFile(caps platform.Capabilities) *Tool {
	return &Tool{
		Name: "open_file",
		Description: "Open a file with the default application. " +
			"Works for documents, pictures, PDFs, anything the computer knows how to open.",
		Schema: objectSchema([]string{"file_path"}, map[string]any{
			"file_path": stringProp("Full path to the file to open"),
		}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			path := in.Str("file_path", "")
			if _, err := os.Stat(path); err != nil {
				return TextResult(fmt.Sprintf("I can't find that file at %s. It might have been moved or deleted.", path)), nil
			}
			if err := caps.OpenPath(ctx, path); err != nil {
				return TextResult("I had trouble opening that file. Let's try a different way."), nil
			}
			return TextResult(fmt.Sprintf("Opening %s now. You should see it on your screen in a moment.", filepath.Base(path))), nil
		},
	}
}

// OpenApplication opens a named application.
func OpenApplication(caps platform.Capabilities) *Tool {
	return &Tool{
		Name: "open_application",
		Description: "Open an application by name. Handles Word, Notepad, Calculator, Excel, Paint. " +
			"After opening, the app is ready to use with type_text or click_button.",
		Schema: objectSchema([]string{"app_name"}, map[string]any{
			"app_name": stringProp("Name of the app (e.g., 'word', 'notepad', 'calculator', 'excel', 'paint')"),
		}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			appName := in.Str("app_name", "")
			if err := caps.Launch(ctx, appName); err != nil {
				return TextResult(fmt.Sprintf("To open %s: look for it in your applications menu and click it.", appName)), nil
			}
			return TextResult(fmt.Sprintf("%s is opening now. You should see it on your screen in a moment.", appName)), nil
		},
	}
}

// ListFolder shows the contents of a folder.
func ListFolder() *Tool {
	return &Tool{
		Name:        "list_folder",
		Description: "Show what's in a folder. Defaults to Desktop. Helps users see what files they have.",
		Schema: objectSchema(nil, map[string]any{
			"folder_path": stringProp("Which folder to look in: 'Desktop', 'Documents', 'Downloads', 'Pictures', or a full path"),
		}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			folder := in.Str("folder_path", "Desktop")

			path := folder
			if home, err := os.UserHomeDir(); err == nil {
				switch folder {
				case "Desktop", "Documents", "Downloads", "Pictures":
					path = filepath.Join(home, folder)
				}
			}

			entries, err := os.ReadDir(path)
			if err != nil {
				if os.IsPermission(err) {
					return TextResult("I don't have permission to look in that folder."), nil
				}
				return TextResult(fmt.Sprintf("I can't find the folder '%s'. Let me look in your common folders instead.", folder)), nil
			}

			var folders, files []string
			for _, e := range entries {
				if strings.HasPrefix(e.Name(), ".") {
					continue
				}
				if e.IsDir() {
					folders = append(folders, e.Name())
				} else {
					files = append(files, e.Name())
				}
			}

			if len(folders)+len(files) == 0 {
				return TextResult(fmt.Sprintf("The %s folder is empty.", folder)), nil
			}

			lines := []string{fmt.Sprintf("Here's what's in your %s folder:", folder), ""}
			if len(folders) > 0 {
				lines = append(lines, "Folders:")
				for _, f := range capStrings(folders, 15) {
					lines = append(lines, "  [folder] "+f)
				}
				lines = append(lines, "")
			}
			if len(files) > 0 {
				lines = append(lines, "Files:")
				for _, f := range capStrings(files, 15) {
					lines = append(lines, "  [file] "+f)
				}
			}
			total := len(folders) + len(files)
			if total > 30 {
				lines = append(lines, fmt.Sprintf("\n...and %d more items.", total-30))
			}
			return TextResult(strings.Join(lines, "\n")), nil
		},
	}
}

func capStrings(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
