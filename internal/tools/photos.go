package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/techpal/techpal/internal/domain"
)

var photoExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".tiff": true, ".heic": true, ".webp": true,
}

// FindPhotos searches for photos by name or recency.
func FindPhotos() *Tool {
	return &Tool{
		Name: "find_photos",
		Description: "Find photos on the computer. Search by name or find recent photos. " +
			"Use when the user says 'find my photos' or 'where are my vacation pictures?'",
		Schema: objectSchema(nil, map[string]any{
			"search_term": stringProp("What to search for (e.g., 'vacation', 'christmas', 'grandkids'). Leave empty to find all recent photos."),
			"days_back":   intProp("How many days back to look (0 = search by name only)"),
			"search_in":   stringProp("Where to search: 'common' for standard folders, or a specific path"),
		}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			term := strings.ToLower(in.Str("search_term", ""))
			daysBack := in.Int("days_back", 0)

			var cutoff time.Time
			if daysBack > 0 {
				cutoff = time.Now().AddDate(0, 0, -daysBack)
			}

			results := collectMatches(in.Str("search_in", "common"), func(path string, info os.FileInfo) bool {
				if !photoExtensions[strings.ToLower(filepath.Ext(path))] {
					return false
				}
				if term != "" && !strings.Contains(strings.ToLower(filepath.Base(path)), term) {
					return false
				}
				if !cutoff.IsZero() && info.ModTime().Before(cutoff) {
					return false
				}
				return true
			})

			if len(results) == 0 {
				if term != "" {
					return TextResult(fmt.Sprintf("I couldn't find any photos with '%s' in the name. Would you like me to look somewhere else?", in.Str("search_term", ""))), nil
				}
				return TextResult("I didn't find any recent photos. Would you like me to search for specific ones by name?"), nil
			}

			header := fmt.Sprintf("I found %d photo(s):", len(results))
			return TextResult(listMatches(header, results, "Taken/saved")), nil
		},
	}
}

// SharePhoto emails a photo to someone.
func SharePhoto(recorder SentRecorder, userID func(context.Context) string) *Tool {
	return &Tool{
		Name: "share_photo",
		Description: "Share a photo by emailing it to someone. Always confirm with the user first. " +
			"Use when the user wants to send a photo to family or friends.",
		Schema: objectSchema([]string{"photo_path", "to_email"}, map[string]any{
			"photo_path": stringProp("Full path to the photo to share"),
			"to_email":   stringProp("Email address to send the photo to"),
		}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			path := in.Str("photo_path", "")
			toEmail := in.Str("to_email", "")

			info, err := os.Stat(path)
			if err != nil {
				return TextResult(fmt.Sprintf("I can't find that photo at %s. Let's find it first.", path)), nil
			}
			if !photoExtensions[strings.ToLower(filepath.Ext(path))] {
				return TextResult("That doesn't seem to be a photo file. Would you like to find your photos first?"), nil
			}
			sizeMB := float64(info.Size()) / (1024 * 1024)
			if sizeMB > 25 {
				return TextResult(fmt.Sprintf("That photo is %.1fMB, too large to email. Would you like me to help you resize it first?", sizeMB)), nil
			}

			name := filepath.Base(path)
			if err := recorder.AppendSentEmail(ctx, userID(ctx), &domain.OutgoingEmail{
				To:         toEmail,
				Subject:    "Photo: " + name,
				Body:       fmt.Sprintf("Here's the photo you wanted! (%s)", name),
				Attachment: path,
			}); err != nil {
				return Result{}, fmt.Errorf("record shared photo: %w", err)
			}

			return TextResult(fmt.Sprintf("Done! I sent %s to %s. They should receive it shortly.", name, toEmail)), nil
		},
	}
}
