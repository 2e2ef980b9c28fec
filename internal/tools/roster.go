package tools

import (
	"context"

	"github.com/techpal/techpal/internal/mail"
	"github.com/techpal/techpal/internal/platform"
	"github.com/techpal/techpal/internal/scam"
	"github.com/techpal/techpal/internal/search"
)

// RosterDeps carries everything the full tool roster needs.
type RosterDeps struct {
	Capabilities platform.Capabilities
	Mailbox      mail.Mailbox
	Scanner      *scam.Scanner
	Evaluator    *scam.Evaluator
	Search       search.Provider
	Phone        *PhoneController
	Sent         SentRecorder
	UserID       func(context.Context) string

	NotesDir     string
	DownloadsDir string
	DocumentsDir string
}

// DefaultRegistry assembles the complete tool roster in the order the model
// sees it.
func DefaultRegistry(d RosterDeps) (*Registry, error) {
	return NewRegistry(
		// Files and folders
		FindFile(),
		FindRecentFiles(),
		OpenFile(d.Capabilities),
		OpenApplication(d.Capabilities),
		ListFolder(),

		// Printing
		PrintDocument(d.Capabilities),
		TroubleshootPrinter(),

		// System troubleshooting
		CheckSystemHealth(),
		FixFrozenProgram(),
		CheckInternet(),

		// Safety
		AnalyzeScamRisk(d.Evaluator),

		// Screen control and guidance
		ClickButton(d.Capabilities),
		TypeText(d.Capabilities),
		SaveDocumentAsPDF(),
		SmartSaveDocument(d.DocumentsDir),
		DescribeScreenAction(),
		ReadMyScreen(d.Capabilities),
		VerifyScreenStep(d.Capabilities),

		// Email
		CheckEmail(d.Mailbox, d.Scanner),
		ReadEmail(d.Mailbox, d.Scanner),
		SendEmail(d.Sent, d.UserID),
		DeleteEmail(d.Mailbox),
		DownloadAttachment(d.Mailbox, d.Scanner, d.DownloadsDir),

		// Photos
		FindPhotos(),
		SharePhoto(d.Sent, d.UserID),

		// Video calls
		CheckForMeetingLinks(d.Mailbox),
		JoinVideoCall(d.Capabilities),

		// Web search
		SearchWeb(d.Search),

		// Local memory
		SaveNote(d.NotesDir),
		ReadNotes(d.NotesDir),
		RecallUserContext(d.NotesDir),

		// Phone remote control
		CapturePhoneScreen(d.Phone),
		TapPhoneScreen(d.Phone),
		OpenPhoneApp(d.Phone),
	)
}
