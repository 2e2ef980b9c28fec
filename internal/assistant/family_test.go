package assistant

import (
	"context"
	"strings"
	"testing"

	"github.com/techpal/techpal/internal/model"
)

func TestFamilyLookup(t *testing.T) {
	svc := NewFamilyService(newFakeRepo(), testRunner(t, &fakeClient{}, 5), 1500)

	contact, ok := svc.Lookup("+15551234567")
	if !ok || contact.Name != "Sarah" || contact.CanDelete {
		t.Errorf("unexpected contact: %+v ok=%v", contact, ok)
	}

	if _, ok := svc.Lookup("+10000000000"); ok {
		t.Error("unknown number should not be authorized")
	}
}

func TestFamilyDestructiveRequestBlockedBeforeModel(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeClient{responses: []*model.MessageResponse{textResponse("should not run")}}
	svc := NewFamilyService(repo, testRunner(t, client, 5), 1500)

	contact, _ := svc.Lookup("+15551234567") // Sarah, no delete permission
	reply := svc.ProcessSMS(context.Background(), contact, "please delete all her old emails")

	if client.calls != 0 {
		t.Fatalf("destructive request must never reach the model, got %d calls", client.calls)
	}
	if !strings.Contains(reply, "I can't do that through SMS for safety reasons") {
		t.Errorf("reply = %q", reply)
	}
	if !strings.Contains(reply, "Sarah") {
		t.Errorf("refusal should address the contact by name: %q", reply)
	}

	// Refusals are still audited and surfaced to the elderly user.
	if len(repo.audit) != 1 || len(repo.notifications) != 1 {
		t.Errorf("expected audit and notification, got %d/%d", len(repo.audit), len(repo.notifications))
	}
}

func TestFamilyDeleteAllowedForAuthorizedContact(t *testing.T) {
	client := &fakeClient{responses: []*model.MessageResponse{textResponse("Hi Michael, I deleted the scam email.")}}
	svc := NewFamilyService(newFakeRepo(), testRunner(t, client, 5), 1500)

	contact, _ := svc.Lookup("+15559876543") // Michael, full permissions
	reply := svc.ProcessSMS(context.Background(), contact, "delete the scam email from her inbox")

	if client.calls != 1 {
		t.Fatalf("authorized delete should reach the model, got %d calls", client.calls)
	}
	if reply != "Hi Michael, I deleted the scam email." {
		t.Errorf("reply = %q", reply)
	}
}

func TestFamilyRequestContextPreamble(t *testing.T) {
	client := &fakeClient{responses: []*model.MessageResponse{textResponse("Done.")}}
	svc := NewFamilyService(newFakeRepo(), testRunner(t, client, 5), 1500)

	contact, _ := svc.Lookup("+15551234567")
	svc.ProcessSMS(context.Background(), contact, "check on mom")

	prompt := client.requests[0].Messages[0].JoinedText()
	if !strings.Contains(prompt, "[FAMILY REMOTE REQUEST from Sarah (daughter) via SMS]") {
		t.Errorf("missing remote-request tag:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Permissions: execute=true, view_status=true, delete=false") {
		t.Errorf("missing permission line:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Their message: check on mom") {
		t.Errorf("missing original message:\n%s", prompt)
	}
}

func TestFamilyModelErrorFallback(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeClient{err: model.APIError{StatusCode: 500, Message: "down"}}
	svc := NewFamilyService(repo, testRunner(t, client, 5), 1500)

	contact, _ := svc.Lookup("+15551234567")
	reply := svc.ProcessSMS(context.Background(), contact, "check her email")

	want := "Hi Sarah, I had trouble with that request. I'll let your mom know you tried to help."
	if reply != want {
		t.Errorf("reply = %q", reply)
	}
	if len(repo.audit) != 1 {
		t.Errorf("failed requests should still be audited, got %d entries", len(repo.audit))
	}
}

func TestFamilyReplyTruncation(t *testing.T) {
	long := strings.Repeat("x", 2000)
	client := &fakeClient{responses: []*model.MessageResponse{textResponse(long)}}
	svc := NewFamilyService(newFakeRepo(), testRunner(t, client, 5), 1500)

	contact, _ := svc.Lookup("+15559876543")
	reply := svc.ProcessSMS(context.Background(), contact, "summarize her week")

	if len(reply) != 1500 {
		t.Fatalf("expected 1500 chars, got %d", len(reply))
	}
	if !strings.HasSuffix(reply, "...") {
		t.Errorf("truncated reply should end with ellipsis")
	}
}

func TestFamilyNotificationRecordsOriginal(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeClient{responses: []*model.MessageResponse{textResponse("All good!")}}
	svc := NewFamilyService(repo, testRunner(t, client, 5), 1500)

	contact, _ := svc.Lookup("+15551234567")
	svc.ProcessSMS(context.Background(), contact, "is the printer working?")

	if len(repo.notifications) != 1 {
		t.Fatalf("expected one notification, got %d", len(repo.notifications))
	}
	n := repo.notifications[0]
	if n.FromName != "Sarah" || n.FromRelationship != "daughter" {
		t.Errorf("notification contact fields wrong: %+v", n)
	}
	if n.OriginalMessage != "is the printer working?" || n.Result != "All good!" {
		t.Errorf("notification content wrong: %+v", n)
	}
	if n.ID == "" {
		t.Error("notification should have an ID")
	}

	drained, err := svc.PendingNotifications(context.Background())
	if err != nil || len(drained) != 1 {
		t.Fatalf("drain: %v, %d", err, len(drained))
	}
	if again, _ := svc.PendingNotifications(context.Background()); len(again) != 0 {
		t.Error("drain should empty the queue")
	}
}
