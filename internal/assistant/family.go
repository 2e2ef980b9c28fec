package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/techpal/techpal/internal/domain"
	"github.com/techpal/techpal/internal/store"
)

// destructiveKeywords gate what family members can trigger over SMS. A
// contact without delete permission gets a refusal before any model call.
var destructiveKeywords = []string{"delete", "remove", "cancel", "unsubscribe", "erase"}

// FamilyContacts is the static authorization table for the SMS remote path.
// Unknown numbers are rejected outright.
var FamilyContacts = map[string]domain.FamilyContact{
	"+15551234567": {
		Number:        "+15551234567",
		Name:          "Sarah",
		Relationship:  "daughter",
		CanExecute:    true,
		CanViewStatus: true,
		CanDelete:     false,
	},
	"+15559876543": {
		Number:        "+15559876543",
		Name:          "Michael",
		Relationship:  "son",
		CanExecute:    true,
		CanViewStatus: true,
		CanDelete:     true,
	},
}

// FamilyService processes SMS requests from authorized family members. Each
// request runs as a standalone one-shot conversation; the primary user's
// chat history is never exposed over SMS.
type FamilyService struct {
	repo     store.Repository
	runner   *Runner
	maxChars int
	now      func() time.Time
}

// NewFamilyService builds the family SMS service.
func NewFamilyService(repo store.Repository, runner *Runner, maxChars int) *FamilyService {
	return &FamilyService{repo: repo, runner: runner, maxChars: maxChars, now: time.Now}
}

// Lookup returns the contact for a phone number, if authorized.
func (f *FamilyService) Lookup(fromNumber string) (domain.FamilyContact, bool) {
	contact, ok := FamilyContacts[strings.TrimSpace(fromNumber)]
	return contact, ok
}

// ProcessSMS handles one SMS request from an authorized contact and returns
// the reply to text back. Every request is audited and a notification is
// queued for the elderly user's chat window, refusals included.
func (f *FamilyService) ProcessSMS(ctx context.Context, contact domain.FamilyContact, message string) string {
	var reply string
	if isDestructive(message) && !contact.CanDelete {
		reply = fmt.Sprintf(
			"Hi %s, I can't do that through SMS for safety reasons. "+
				"Please help your mom in person or ask her directly.", contact.Name)
	} else {
		reply = f.runRequest(ctx, contact, message)
	}

	reply = truncateSMS(reply, f.maxChars)
	f.record(ctx, contact, message, reply)
	return reply
}

func (f *FamilyService) runRequest(ctx context.Context, contact domain.FamilyContact, message string) string {
	prompt := fmt.Sprintf(
		"[FAMILY REMOTE REQUEST from %s (%s) via SMS]\n"+
			"Permissions: execute=%t, view_status=%t, delete=%t\n"+
			"Their message: %s\n\n"+
			"IMPORTANT: After completing this request, explain what you did as if talking to %s. "+
			"Keep it SHORT (2-3 sentences) since this goes back as an SMS text message.",
		contact.Name, contact.Relationship,
		contact.CanExecute, contact.CanViewStatus, contact.CanDelete,
		message, contact.Name)

	history := []domain.Turn{domain.TextTurn(domain.RoleUser, prompt)}
	reply, _, _, err := f.runner.Run(ctx, SystemPrompt(f.now()), history)
	if err != nil {
		slog.Error("family SMS model call failed", "contact", contact.Name, "error", err)
		return fmt.Sprintf("Hi %s, I had trouble with that request. I'll let your mom know you tried to help.", contact.Name)
	}

	cleaned, _ := extractToolThinking(reply)
	return cleaned
}

func (f *FamilyService) record(ctx context.Context, contact domain.FamilyContact, message, reply string) {
	now := f.now()
	if err := f.repo.AppendFamilyAudit(ctx, &domain.FamilyAuditEntry{
		ID:           uuid.NewString(),
		FromName:     contact.Name,
		Relationship: contact.Relationship,
		Message:      message,
		Reply:        reply,
		CreatedAt:    now,
	}); err != nil {
		slog.Error("failed to record family audit entry", "contact", contact.Name, "error", err)
	}

	if err := f.repo.AppendFamilyNotification(ctx, &domain.FamilyNotification{
		ID:               uuid.NewString(),
		FromName:         contact.Name,
		FromRelationship: contact.Relationship,
		OriginalMessage:  message,
		Result:           reply,
		CreatedAt:        now,
	}); err != nil {
		slog.Error("failed to queue family notification", "contact", contact.Name, "error", err)
	}
}

// PendingNotifications drains queued family-remote summaries for the chat UI.
func (f *FamilyService) PendingNotifications(ctx context.Context) ([]*domain.FamilyNotification, error) {
	return f.repo.DrainFamilyNotifications(ctx)
}

func isDestructive(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range destructiveKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func truncateSMS(reply string, maxChars int) string {
	if maxChars <= 3 || len(reply) <= maxChars {
		return reply
	}
	return reply[:maxChars-3] + "..."
}
