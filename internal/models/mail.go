package models

import "time"

// Credentials hold a user's mail username and secret. They live only in
// process memory for the lifetime of a session, are never written to stable
// storage, and are re-sent on every outbound call to the remote service.
type Credentials struct {
	Username string `json:"-"`
	Secret   string `json:"-"`
}

type Mailbox struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ParentID     string `json:"parent_id,omitempty"`
	Role         string `json:"role,omitempty"`
	UnreadEmails int    `json:"unread_emails"`
	TotalEmails  int    `json:"total_emails"`
}

type EmailSummary struct {
	ID         string    `json:"id"`
	MailboxIDs []string  `json:"mailbox_ids"`
	Subject    string    `json:"subject"`
	From       []string  `json:"from"`
	To         []string  `json:"to"`
	CC         []string  `json:"cc"`
	ReceivedAt time.Time `json:"received_at"`
	Preview    string    `json:"preview"`
}

// EmailDetail is an EmailSummary plus the decoded body parts and the
// display text selected from them.
type EmailDetail struct {
	EmailSummary

	// BodyValues maps body-part id to its decoded text. TextPartIDs and
	// HTMLPartIDs preserve the part order reported by the remote service.
	BodyValues  map[string]string `json:"-"`
	TextPartIDs []string          `json:"-"`
	HTMLPartIDs []string          `json:"-"`

	BodyText  string     `json:"body_text"`
	BodyLines []BodyLine `json:"body_lines"`
}

// BodyLine is one line of displayable body text. Quoted is advisory display
// metadata; Text is the line exactly as it appears in the message.
type BodyLine struct {
	Text   string `json:"text"`
	Quoted bool   `json:"quoted"`
}
