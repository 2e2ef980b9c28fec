package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/techpal/techpal/internal/domain"
	"github.com/techpal/techpal/internal/mail"
	"github.com/techpal/techpal/internal/scam"
)

type fakeSentRecorder struct {
	sent []*domain.OutgoingEmail
}

func (f *fakeSentRecorder) AppendSentEmail(ctx context.Context, userID string, email *domain.OutgoingEmail) error {
	f.sent = append(f.sent, email)
	return nil
}

func testUserID(ctx context.Context) string { return "test-user" }

func TestCheckEmailFlagsScam(t *testing.T) {
	tool := CheckEmail(mail.NewFixture(), scam.NewScanner(3))

	result, err := tool.Run(context.Background(), Input{})
	if err != nil {
		t.Fatalf("check_email: %v", err)
	}

	var scamLine string
	for _, line := range strings.Split(result.Text, "\n") {
		if strings.Contains(line, "You've Won") {
			scamLine = line
		}
		// Legitimate emails must not be flagged.
		if strings.Contains(line, "Sunday dinner") && strings.Contains(line, "[SUSPICIOUS]") {
			t.Errorf("family email wrongly flagged: %q", line)
		}
	}
	if scamLine == "" {
		t.Fatal("prize scam email missing from listing")
	}
	if !strings.Contains(scamLine, "[SUSPICIOUS]") {
		t.Errorf("prize scam email should be flagged: %q", scamLine)
	}
}

func TestReadEmailDangerousBanner(t *testing.T) {
	mailbox := mail.NewFixture()
	tool := ReadEmail(mailbox, scam.NewScanner(3))

	result, err := tool.Run(context.Background(), Input{"email_id": float64(5)})
	if err != nil {
		t.Fatalf("read_email: %v", err)
	}

	if !strings.Contains(result.Text, "DANGER: This email has multiple scam indicators!") {
		t.Errorf("missing danger banner:\n%s", result.Text)
	}
	if !strings.Contains(result.Text, "FBI Elder Fraud Hotline") {
		t.Errorf("missing FBI reporting line:\n%s", result.Text)
	}
	if !strings.Contains(result.Text, "--- EMAIL BELOW (read with caution) ---") {
		t.Errorf("missing caution divider:\n%s", result.Text)
	}
	// The email itself is still shown so the user can see what we mean.
	if !strings.Contains(result.Text, "GRAND PRIZE WINNER") {
		t.Errorf("email body should follow the warning:\n%s", result.Text)
	}

	// Reading marks the message read.
	if msg, _ := mailbox.Get(5); !msg.Read {
		t.Error("message should be marked read")
	}
}

func TestReadEmailCleanMessage(t *testing.T) {
	tool := ReadEmail(mail.NewFixture(), scam.NewScanner(3))

	result, err := tool.Run(context.Background(), Input{"email_id": float64(1)})
	if err != nil {
		t.Fatalf("read_email: %v", err)
	}
	if strings.Contains(result.Text, "DANGER") || strings.Contains(result.Text, "CAUTION") {
		t.Errorf("family email should have no warnings:\n%s", result.Text)
	}
	if !strings.Contains(result.Text, "pot roast") {
		t.Errorf("body missing:\n%s", result.Text)
	}
}

func TestDownloadAttachmentRefusesDangerousEmail(t *testing.T) {
	downloads := t.TempDir()
	mailbox := mail.NewFixture()
	// Give the scam email an attachment to ask for.
	tool := DownloadAttachment(&scamMailbox{mailbox}, scam.NewScanner(3), downloads)

	result, err := tool.Run(context.Background(), Input{"email_id": float64(5)})
	if err != nil {
		t.Fatalf("download_attachment: %v", err)
	}
	if !strings.Contains(result.Text, "looks like a scam") {
		t.Errorf("expected refusal, got:\n%s", result.Text)
	}

	entries, _ := os.ReadDir(downloads)
	if len(entries) != 0 {
		t.Errorf("refusal must not write files, found %d", len(entries))
	}
}

// scamMailbox decorates the fixture so the scam email carries an attachment.
type scamMailbox struct {
	mail.Mailbox
}

func (m *scamMailbox) Get(id int) (domain.InboxMessage, bool) {
	msg, ok := m.Mailbox.Get(id)
	if ok && id == 5 {
		msg.Attachments = []domain.Attachment{{Name: "prize_claim.pdf", SizeKB: 10}}
	}
	return msg, ok
}

func TestDownloadAttachmentBlocksDangerousExtension(t *testing.T) {
	downloads := t.TempDir()
	tool := DownloadAttachment(&exeMailbox{mail.NewFixture()}, scam.NewScanner(3), downloads)

	result, err := tool.Run(context.Background(), Input{"email_id": float64(1)})
	if err != nil {
		t.Fatalf("download_attachment: %v", err)
	}
	if !strings.Contains(result.Text, "I'm blocking this download") {
		t.Errorf("expected extension block, got:\n%s", result.Text)
	}
	entries, _ := os.ReadDir(downloads)
	if len(entries) != 0 {
		t.Errorf("blocked download must not write files, found %d", len(entries))
	}
}

// exeMailbox gives the safe family email an executable attachment.
type exeMailbox struct {
	mail.Mailbox
}

func (m *exeMailbox) Get(id int) (domain.InboxMessage, bool) {
	msg, ok := m.Mailbox.Get(id)
	if ok && id == 1 {
		msg.Attachments = []domain.Attachment{{Name: "photo_viewer.exe", SizeKB: 900}}
	}
	return msg, ok
}

func TestDownloadAttachmentSavesSafeFile(t *testing.T) {
	downloads := t.TempDir()
	tool := DownloadAttachment(mail.NewFixture(), scam.NewScanner(3), downloads)

	result, err := tool.Run(context.Background(), Input{"email_id": float64(3)})
	if err != nil {
		t.Fatalf("download_attachment: %v", err)
	}
	if !strings.Contains(result.Text, "Downloaded!") {
		t.Fatalf("expected success, got:\n%s", result.Text)
	}

	saved := filepath.Join(downloads, "Appointment_Details.pdf")
	data, err := os.ReadFile(saved)
	if err != nil {
		t.Fatalf("attachment not written: %v", err)
	}
	if !strings.Contains(string(data), "APPOINTMENT CONFIRMATION") {
		t.Errorf("unexpected attachment content: %q", string(data))
	}
}

func TestSendEmailRecords(t *testing.T) {
	recorder := &fakeSentRecorder{}
	tool := SendEmail(recorder, testUserID)

	result, err := tool.Run(context.Background(), Input{
		"to":      "sarah.johnson@gmail.com",
		"subject": "Sunday dinner",
		"body":    "See you at 5!",
	})
	if err != nil {
		t.Fatalf("send_email: %v", err)
	}
	if !strings.Contains(result.Text, "Email sent!") {
		t.Errorf("unexpected result: %q", result.Text)
	}
	if len(recorder.sent) != 1 || recorder.sent[0].To != "sarah.johnson@gmail.com" {
		t.Errorf("email not recorded: %+v", recorder.sent)
	}
}

func TestSendEmailMissingAttachment(t *testing.T) {
	recorder := &fakeSentRecorder{}
	tool := SendEmail(recorder, testUserID)

	result, err := tool.Run(context.Background(), Input{
		"to":         "sarah.johnson@gmail.com",
		"subject":    "photo",
		"body":       "here it is",
		"attachment": filepath.Join(t.TempDir(), "missing.jpg"),
	})
	if err != nil {
		t.Fatalf("send_email: %v", err)
	}
	if !strings.Contains(result.Text, "I can't find the file to attach") {
		t.Errorf("unexpected result: %q", result.Text)
	}
	if len(recorder.sent) != 0 {
		t.Errorf("nothing should be recorded, got %+v", recorder.sent)
	}
}

func TestDeleteEmail(t *testing.T) {
	mailbox := mail.NewFixture()
	tool := DeleteEmail(mailbox)

	result, err := tool.Run(context.Background(), Input{"email_id": float64(5)})
	if err != nil {
		t.Fatalf("delete_email: %v", err)
	}
	if !strings.Contains(result.Text, "Done! I deleted the email") {
		t.Errorf("unexpected result: %q", result.Text)
	}
	if _, ok := mailbox.Get(5); ok {
		t.Error("email should be gone")
	}

	result, _ = tool.Run(context.Background(), Input{"email_id": float64(5)})
	if !strings.Contains(result.Text, "can't find email #5") {
		t.Errorf("second delete should fail to find it: %q", result.Text)
	}
}
