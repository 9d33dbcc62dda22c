package mailbox

import "time"

// Message is a delivered mail item. It is immutable once created; the
// sender display name and timestamp are fixed at send time.
type Message struct {
	ID          string
	SenderID    string
	SenderName  string
	RecipientID string
	SentAt      time.Time
	Subject     string
	Body        string
}
