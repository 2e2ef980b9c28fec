// Package mail provides the user's mailbox behind a small interface.
package mail

import (
	"github.com/techpal/techpal/internal/domain"
)

// Mailbox is the inbox surface the email tools operate on. The demo build
// backs it with an in-memory fixture; a real deployment would back it with an
// IMAP or provider API client.
type Mailbox interface {
	// List returns all non-deleted messages, newest first.
	List() []domain.InboxMessage

	// Get returns the message with the given ID, or false if it does not
	// exist or was deleted.
	Get(id int) (domain.InboxMessage, bool)

	// MarkRead marks a message as read.
	MarkRead(id int)

	// Delete removes a message from the inbox.
	Delete(id int) bool
}
