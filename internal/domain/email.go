package domain

// Attachment describes a file attached to an inbox message.
type Attachment struct {
	Name   string
	SizeKB int
}

// InboxMessage is one message in the user's mailbox. The demo mailbox is an
// in-memory fixture; a real mail store sits behind the same interface.
type InboxMessage struct {
	ID          int
	From        string
	Subject     string
	Date        string
	Preview     string
	Body        string
	MeetingLink string
	Attachments []Attachment
	Read        bool
}

// OutgoingEmail is a message sent (or queued to send) on the user's behalf.
type OutgoingEmail struct {
	To         string
	Subject    string
	Body       string
	Attachment string
}
