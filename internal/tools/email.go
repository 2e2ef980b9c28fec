package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/techpal/techpal/internal/domain"
	"github.com/techpal/techpal/internal/mail"
	"github.com/techpal/techpal/internal/scam"
)

// File extensions that are blocked from attachment download. These can carry
// executable payloads; a real document never uses them.
var dangerousExtensions = map[string]bool{
	".exe": true, ".bat": true, ".cmd": true, ".scr": true, ".vbs": true,
	".js": true, ".msi": true, ".ps1": true, ".com": true, ".pif": true,
	".reg": true, ".wsf": true, ".hta": true,
}

// SentRecorder persists outgoing emails. The store implements it.
type SentRecorder interface {
	AppendSentEmail(ctx context.Context, userID string, email *domain.OutgoingEmail) error
}

func senderName(from string) string {
	name, _, found := strings.Cut(from, "<")
	if found {
		return strings.TrimSpace(name)
	}
	return strings.TrimSpace(from)
}

func shortDate(date string) string {
	dt, err := time.Parse("January 2, 2006 at 3:04 PM", date)
	if err != nil {
		return date
	}
	return dt.Format("Jan 2, 3:04 PM")
}

// CheckEmail lists the inbox with a scam pre-scan on every entry.
func CheckEmail(mailbox mail.Mailbox, scanner *scam.Scanner) *Tool {
	return &Tool{
		Name: "check_email",
		Description: "Check the email inbox. Shows recent emails with sender, subject, and date. " +
			"Use when the user says 'check my email' or 'do I have any messages?'",
		Schema: objectSchema(nil, map[string]any{}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			active := mailbox.List()
			if len(active) == 0 {
				return TextResult("Your inbox is empty! No new messages right now."), nil
			}

			unread := 0
			for _, e := range active {
				if !e.Read {
					unread++
				}
			}

			lines := []string{fmt.Sprintf("You have %d emails (%d unread):", len(active), unread), ""}
			for _, e := range active {
				status := "READ"
				if !e.Read {
					status = "NEW"
				}
				warning := ""
				scan := scanner.Scan(e.From + " " + e.Subject + " " + e.Preview)
				if scan.Risk != scam.RiskSafe {
					warning = " [SUSPICIOUS]"
				}
				lines = append(lines, fmt.Sprintf("%d. [%s] %s - %q (%s)%s",
					e.ID, status, senderName(e.From), e.Subject, shortDate(e.Date), warning))
			}
			return TextResult(strings.Join(lines, "\n")), nil
		},
	}
}

// ReadEmail shows one message in full, prefixed with scam warnings when the
// content scores non-safe.
func ReadEmail(mailbox mail.Mailbox, scanner *scam.Scanner) *Tool {
	return &Tool{
		Name: "read_email",
		Description: "Read a specific email by its number. Shows the full message. " +
			"Use when the user wants to read a particular email from the inbox list.",
		Schema: objectSchema([]string{"email_id"}, map[string]any{
			"email_id": intProp("The number of the email to read (from the inbox list)"),
		}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			id := in.Int("email_id", 0)
			email, ok := mailbox.Get(id)
			if !ok {
				return TextResult(fmt.Sprintf("I can't find email #%d. Try checking your inbox first to see what's there.", id)), nil
			}
			mailbox.MarkRead(id)

			scan := scanner.Scan(email.From + " " + email.Subject + " " + email.Body)

			var lines []string
			switch scan.Risk {
			case scam.RiskDangerous:
				lines = append(lines,
					"DANGER: This email has multiple scam indicators!",
					"Do NOT click links, send money, or share personal information.",
					"")
				for _, category := range scan.Categories() {
					phrase := firstPhrase(scan, category)
					switch category {
					case scam.CategoryUrgency:
						lines = append(lines, fmt.Sprintf("  - Pressure language: %q", phrase))
					case scam.CategoryAuthority:
						lines = append(lines, fmt.Sprintf("  - Impersonates authority: %q", phrase))
					case scam.CategoryFinancial:
						lines = append(lines, fmt.Sprintf("  - Asks for money/info: %q", phrase))
					case scam.CategoryTechSupport:
						lines = append(lines, fmt.Sprintf("  - Fake tech support: %q", phrase))
					case scam.CategoryGrandparent:
						lines = append(lines, fmt.Sprintf("  - Emergency money request: %q", phrase))
					case scam.CategoryShortenedURL:
						lines = append(lines, fmt.Sprintf("  - Hidden link: %q", phrase))
					case scam.CategorySuspiciousTLD:
						lines = append(lines, fmt.Sprintf("  - Suspicious website: %q", phrase))
					}
				}
				lines = append(lines, "")
				for _, orgKey := range scan.MatchedOrgs {
					if org, found := scam.KnownLegitimateContacts[orgKey]; found {
						lines = append(lines,
							fmt.Sprintf("If this were really from %s, call them at %s to verify.", org.Name, org.Phone),
							fmt.Sprintf("Remember: %s", org.KeyFact))
					}
				}
				if len(scan.MatchedOrgs) > 0 {
					lines = append(lines, "")
				}
				fbi := scam.KnownLegitimateContacts["fbi"]
				lines = append(lines,
					fmt.Sprintf("To report scams, call the %s: %s", fbi.Name, fbi.Phone),
					"",
					"TIP: Ask me to \"analyze this email for scams\" for a detailed safety check.",
					"",
					"--- EMAIL BELOW (read with caution) ---",
					"")
			case scam.RiskSuspicious:
				lines = append(lines,
					"CAUTION: This email has some suspicious elements. Be careful with any links or requests.",
					"")
			}

			lines = append(lines,
				"From: "+email.From,
				"Subject: "+email.Subject,
				"Date: "+email.Date)
			if len(email.Attachments) > 0 {
				var names []string
				for _, a := range email.Attachments {
					names = append(names, a.Name)
				}
				lines = append(lines, "Attachments: "+strings.Join(names, ", "))
			}
			if email.MeetingLink != "" {
				lines = append(lines, "Video call link: "+email.MeetingLink)
			}
			lines = append(lines, "", email.Body)
			return TextResult(strings.Join(lines, "\n")), nil
		},
	}
}

func firstPhrase(scan scam.ScanResult, category string) string {
	for _, f := range scan.Flags {
		if f.Category == category {
			return f.Phrase
		}
	}
	return ""
}

// SendEmail sends a message, optionally with an attachment.
func SendEmail(recorder SentRecorder, userID func(context.Context) string) *Tool {
	return &Tool{
		Name: "send_email",
		Description: "Send an email to someone. Always confirm with the user before sending. " +
			"Use when the user wants to write and send an email. Can include a file attachment.",
		Schema: objectSchema([]string{"to", "subject", "body"}, map[string]any{
			"to":         stringProp("Email address of the person to send to"),
			"subject":    stringProp("Subject line of the email"),
			"body":       stringProp("The message to send"),
			"attachment": stringProp("Full path to a file to attach (optional)"),
		}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			to := in.Str("to", "")
			subject := in.Str("subject", "")
			body := in.Str("body", "")
			attachment := in.Str("attachment", "")

			attachmentNote := ""
			if attachment != "" {
				info, err := os.Stat(attachment)
				if err != nil {
					return TextResult(fmt.Sprintf("I can't find the file to attach: %s. Let's find it first.", attachment)), nil
				}
				sizeMB := float64(info.Size()) / (1024 * 1024)
				if sizeMB > 25 {
					return TextResult(fmt.Sprintf("That file is %.1fMB, too large to email (max 25MB).", sizeMB)), nil
				}
				attachmentNote = "\nAttachment: " + filepath.Base(attachment)
			}

			if err := recorder.AppendSentEmail(ctx, userID(ctx), &domain.OutgoingEmail{
				To: to, Subject: subject, Body: body, Attachment: attachment,
			}); err != nil {
				return Result{}, fmt.Errorf("record sent email: %w", err)
			}

			return TextResult(fmt.Sprintf(
				"Email sent!\n\nTo: %s\nSubject: %s%s\n\nYour message has been delivered.",
				to, subject, attachmentNote)), nil
		},
	}
}

// DeleteEmail removes a message from the inbox.
func DeleteEmail(mailbox mail.Mailbox) *Tool {
	return &Tool{
		Name: "delete_email",
		Description: "Delete an email from the inbox. Always confirm with the user first. " +
			"Use when the user wants to remove an email.",
		Schema: objectSchema([]string{"email_id"}, map[string]any{
			"email_id": intProp("The number of the email to delete"),
		}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			id := in.Int("email_id", 0)
			email, ok := mailbox.Get(id)
			if !ok {
				return TextResult(fmt.Sprintf("I can't find email #%d.", id)), nil
			}
			if !mailbox.Delete(id) {
				return TextResult("That email was already deleted."), nil
			}
			return TextResult(fmt.Sprintf("Done! I deleted the email '%s' from %s.",
				email.Subject, senderName(email.From))), nil
		},
	}
}

// DownloadAttachment saves an email attachment to the downloads folder.
// Downloads are refused for dangerous file types and for emails that score
// DANGEROUS; in both cases nothing is written to disk.
func DownloadAttachment(mailbox mail.Mailbox, scanner *scam.Scanner, downloadsDir string) *Tool {
	return &Tool{
		Name: "download_attachment",
		Description: "Download an attachment from an email and save it to the Downloads folder. " +
			"Use when the user wants to open or save a file that came with an email.",
		Schema: objectSchema([]string{"email_id"}, map[string]any{
			"email_id":        intProp("The number of the email that has the attachment"),
			"attachment_name": stringProp("Name of the specific attachment to download (optional, downloads first if not specified)"),
		}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			id := in.Int("email_id", 0)
			email, ok := mailbox.Get(id)
			if !ok {
				return TextResult(fmt.Sprintf("I can't find email #%d. Try checking your inbox first.", id)), nil
			}
			if len(email.Attachments) == 0 {
				return TextResult(fmt.Sprintf("That email from %s doesn't have any attachments.", senderName(email.From))), nil
			}

			scan := scanner.Scan(email.From + " " + email.Subject + " " + email.Body)
			if scan.Risk == scam.RiskDangerous {
				return TextResult(
					"I'm not going to download this, the email it came from looks like a scam.\n\n" +
						"Scam emails sometimes include files that can harm your computer. " +
						"It's safest to delete this email. Would you like me to delete it?"), nil
			}

			att := email.Attachments[0]
			if wanted := in.Str("attachment_name", ""); wanted != "" {
				found := false
				for _, a := range email.Attachments {
					if strings.EqualFold(a.Name, wanted) {
						att = a
						found = true
						break
					}
				}
				if !found {
					var names []string
					for _, a := range email.Attachments {
						names = append(names, a.Name)
					}
					return TextResult(fmt.Sprintf("I can't find '%s'. The attachments on this email are: %s",
						wanted, strings.Join(names, ", "))), nil
				}
			}

			ext := strings.ToLower(filepath.Ext(att.Name))
			if dangerousExtensions[ext] {
				return TextResult(fmt.Sprintf(
					"I'm blocking this download. '%s' is a %s file.\n\n"+
						"Files ending in %s can contain harmful programs. "+
						"A real document would end in .pdf, .doc, or .jpg.\n\n"+
						"This is almost certainly dangerous. I recommend deleting this email.",
					att.Name, ext, ext)), nil
			}

			if err := os.MkdirAll(downloadsDir, 0755); err != nil {
				return Result{}, fmt.Errorf("create downloads directory: %w", err)
			}
			savePath := filepath.Join(downloadsDir, att.Name)
			if _, err := os.Stat(savePath); os.IsNotExist(err) {
				if err := os.WriteFile(savePath, []byte(demoAttachmentContent(email, att)), 0644); err != nil {
					return Result{}, fmt.Errorf("write attachment: %w", err)
				}
			}

			return TextResult(fmt.Sprintf(
				"Downloaded! I saved '%s' to your Downloads folder.\n\nFile: %s\nSize: %d KB\n\nWould you like me to open it?",
				att.Name, savePath, att.SizeKB)), nil
		},
	}
}

func demoAttachmentContent(email domain.InboxMessage, att domain.Attachment) string {
	lower := strings.ToLower(att.Name)
	switch {
	case strings.Contains(lower, "appointment"):
		return "APPOINTMENT CONFIRMATION\n" +
			"========================\n\n" +
			"Patient: [Your Name]\n" +
			"Doctor: Dr. Michael Johnson, MD\n" +
			"Date: Thursday, February 13, 2026\n" +
			"Time: 2:30 PM\n" +
			"Location: 100 Medical Center Drive, Suite 204\n\n" +
			"Telehealth Option: https://zoom.us/j/3678174163\n\n" +
			"WHAT TO BRING:\n" +
			"- Insurance card\n" +
			"- Photo ID\n" +
			"- List of current medications\n" +
			"- Any questions you have for the doctor\n\n" +
			"To reschedule: (555) 234-5678\n\n" +
			"We look forward to seeing you!\n"
	case strings.Contains(lower, "book"):
		return "LIBRARY BOOK CLUB - 2026 READING LIST\n" +
			"======================================\n\n" +
			"February: 'The Thursday Murder Club' by Richard Osman\n" +
			"  Meeting: Tuesday, March 4 at 10am\n\n" +
			"March: 'A Man Called Ove' by Fredrik Backman\n" +
			"  Meeting: Tuesday, April 1 at 10am\n\n" +
			"April: 'The Midnight Library' by Matt Haig\n" +
			"  Meeting: Tuesday, May 6 at 10am\n\n" +
			"All meetings at the Main Library, Room 201.\n" +
			"Coffee and cookies provided!\n\n" +
			"Questions? Contact Margaret at bookclub@library.org\n"
	}
	return "Attachment from: " + email.From + "\n"
}
