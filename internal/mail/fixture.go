package mail

import (
	"sync"

	"github.com/techpal/techpal/internal/domain"
)

// FixtureMailbox is an in-memory mailbox seeded with a demo inbox. It tracks
// deletions and read state but never mutates the seed slice itself.
type FixtureMailbox struct {
	mu      sync.Mutex
	seed    []domain.InboxMessage
	deleted map[int]bool
	read    map[int]bool
}

// NewFixture builds a mailbox seeded with the demo inbox.
func NewFixture() *FixtureMailbox {
	return &FixtureMailbox{
		seed:    demoInbox(),
		deleted: make(map[int]bool),
		read:    make(map[int]bool),
	}
}

// List returns all non-deleted messages, newest first.
func (m *FixtureMailbox) List() []domain.InboxMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.InboxMessage
	for _, msg := range m.seed {
		if m.deleted[msg.ID] {
			continue
		}
		if m.read[msg.ID] {
			msg.Read = true
		}
		out = append(out, msg)
	}
	return out
}

// Get returns the message with the given ID.
func (m *FixtureMailbox) Get(id int) (domain.InboxMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, msg := range m.seed {
		if msg.ID != id || m.deleted[id] {
			continue
		}
		if m.read[id] {
			msg.Read = true
		}
		return msg, true
	}
	return domain.InboxMessage{}, false
}

// MarkRead marks a message as read.
func (m *FixtureMailbox) MarkRead(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.read[id] = true
}

// Delete removes a message from the inbox.
func (m *FixtureMailbox) Delete(id int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, msg := range m.seed {
		if msg.ID == id && !m.deleted[id] {
			m.deleted[id] = true
			return true
		}
	}
	return false
}

func demoInbox() []domain.InboxMessage {
	return []domain.InboxMessage{
		{
			ID:      1,
			From:    "Sarah Johnson <sarah.johnson@gmail.com>",
			Subject: "Sunday dinner at our place!",
			Date:    "February 12, 2026 at 10:15 AM",
			Preview: "Hi! We'd love to have you over for dinner this Sunday...",
			Body: "Hi!\n\n" +
				"We'd love to have you over for dinner this Sunday at 5pm. " +
				"Tommy has been asking about you all week, he wants to show you " +
				"his new drawings!\n\n" +
				"I'm making your favorite pot roast. Let me know if you can make it!\n\n" +
				"Love,\nSarah",
		},
		{
			ID:      2,
			From:    "CVS Pharmacy <noreply@cvs.com>",
			Subject: "Your prescription is ready for pickup",
			Date:    "February 12, 2026 at 9:30 AM",
			Preview: "Your prescription for Lisinopril is ready at the CVS on Main St...",
			Body: "Hello,\n\n" +
				"Your prescription for Lisinopril 10mg is ready for pickup at:\n" +
				"CVS Pharmacy, 245 Main Street\n\n" +
				"Pharmacy hours: Mon-Fri 9am-9pm, Sat-Sun 10am-6pm\n\n" +
				"Please bring your insurance card and photo ID.\n\n" +
				"Thank you,\nCVS Pharmacy",
			Read: true,
		},
		{
			ID:      3,
			From:    "Dr. Johnson's Office <appointments@drjohnson.com>",
			Subject: "Appointment reminder - Thursday Feb 13",
			Date:    "February 11, 2026 at 3:00 PM",
			Preview: "This is a reminder that you have an appointment tomorrow...",
			Body: "Dear Patient,\n\n" +
				"This is a friendly reminder that you have an appointment:\n\n" +
				"Date: Thursday, February 13, 2026\n" +
				"Time: 2:30 PM\n" +
				"Doctor: Dr. Michael Johnson\n" +
				"Location: 100 Medical Center Drive, Suite 204\n\n" +
				"If you'd prefer a telehealth visit, join via Zoom:\n" +
				"https://zoom.us/j/3678174163\n\n" +
				"Please arrive 15 minutes early. Bring your insurance card and " +
				"a list of current medications.\n\n" +
				"To reschedule, call (555) 234-5678.\n\n" +
				"Best regards,\nDr. Johnson's Office",
			MeetingLink: "https://zoom.us/j/3678174163",
			Attachments: []domain.Attachment{{Name: "Appointment_Details.pdf", SizeKB: 142}},
		},
		{
			ID:      4,
			From:    "Tommy Johnson <tommy.j2018@gmail.com>",
			Subject: "Look what I drew grandma!!",
			Date:    "February 11, 2026 at 7:45 PM",
			Preview: "Grandma look I drew a picture of us at the park...",
			Body: "GRANDMA LOOK!!\n\n" +
				"I drew a picture of us at the park with the ducks! " +
				"Mom said I could email it to you. Its attached!\n\n" +
				"Can we go feed the ducks again soon??\n\n" +
				"Love Tommy\n" +
				"PS mom helped me spell some words",
			Attachments: []domain.Attachment{{Name: "Tommy_Duck_Drawing.png", SizeKB: 340}},
		},
		{
			ID:      5,
			From:    "Prize Winner Notification <winner@free-prizes-now.xyz>",
			Subject: "CONGRATULATIONS! You've Won $50,000!!!",
			Date:    "February 11, 2026 at 11:20 AM",
			Preview: "Act now! You have been selected as our GRAND PRIZE WINNER...",
			Body: "CONGRATULATIONS!\n\n" +
				"You have been selected as our GRAND PRIZE WINNER of $50,000!\n\n" +
				"To claim your prize, you must act now! Send your:\n" +
				"- Full name\n" +
				"- Social Security Number\n" +
				"- Bank account number\n\n" +
				"Send this information to claim@free-prizes-now.xyz within 24 hours " +
				"or your prize will be given to someone else!\n\n" +
				"Click here to claim: bit.ly/claim-prize-now\n\n" +
				"This is NOT a scam. Act now!",
		},
		{
			ID:      6,
			From:    "Book Club <bookclub@library.org>",
			Subject: "Next month's book pick: 'The Thursday Murder Club'",
			Date:    "February 10, 2026 at 2:00 PM",
			Preview: "Hi everyone! Our next book is The Thursday Murder Club by Richard Osman...",
			Body: "Hi everyone!\n\n" +
				"Our next book club pick is:\n" +
				"'The Thursday Murder Club' by Richard Osman\n\n" +
				"We'll meet on Tuesday, March 4th at 10am at the library.\n" +
				"Coffee and cookies will be provided!\n\n" +
				"I've attached the full reading list for the next few months.\n\n" +
				"See you there,\nMargaret\nLibrary Book Club Coordinator",
			Attachments: []domain.Attachment{{Name: "February_Book_List.pdf", SizeKB: 89}},
			Read:        true,
		},
	}
}
