package domain

import "time"

// TimestampLayout is the wire encoding of every timestamp attribute. It is
// RFC 3339 with a fixed nine-digit fraction: the timestamp string is the
// range key of username-timestamp-index, so the encoding must be fixed-width
// for lexicographic order to match chronological order. time.RFC3339Nano
// trims trailing zeros and breaks that within a second.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTimestamp encodes t for storage and for query bounds.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Record kinds multiplexed in the ProcessedMessages table.
const (
	KindMessage  = "MESSAGE"  // dedup marker for a processed inbound message
	KindExpense  = "EXPENSE"  // stored expense record
	KindDeletion = "DELETION" // pending deletion confirmation
)

// ProcessedMessage is the single entity of the ProcessedMessages table.
// MessageID is globally unique; Username+Timestamp back the secondary
// access path (username-timestamp-index). Records are written once and
// never mutated; only DELETION records are removed as part of normal flow.
type ProcessedMessage struct {
	MessageID string `json:"message_id" dynamodbav:"message_id"`
	Username  string `json:"username" dynamodbav:"username"`
	Timestamp string `json:"timestamp" dynamodbav:"timestamp"` // TimestampLayout, UTC
	Kind      string `json:"kind" dynamodbav:"kind"`

	// Expense payload (KindExpense only).
	Amount      float64 `json:"amount,omitempty" dynamodbav:"amount,omitempty"`
	Category    string  `json:"category,omitempty" dynamodbav:"category,omitempty"`
	Description string  `json:"description,omitempty" dynamodbav:"description,omitempty"`

	// Deletion payload (KindDeletion only). ExpiresAt doubles as the
	// table's TTL attribute.
	ConfirmationCode string   `json:"-" dynamodbav:"confirmation_code,omitempty"`
	TargetIDs        []string `json:"-" dynamodbav:"target_ids,omitempty"`
	ExpiresAt        int64    `json:"-" dynamodbav:"expires_at,omitempty"`
}

// ListMessagesRequest is the admin listing query: a user's records inside a
// closed time window, optionally filtered to one kind, paginated with an
// opaque cursor.
type ListMessagesRequest struct {
	Username string `validate:"required"`
	From     string `validate:"required"`
	To       string `validate:"required"`
	Kind     string `validate:"omitempty,oneof=MESSAGE EXPENSE DELETION"`
	Limit    int32  `validate:"omitempty,min=1,max=1000"`
	Cursor   string
}

// MessageKey builds the dedup record id from the platform-native message id.
// Using the platform id (not a content hash) means a redelivery of the same
// message is deduplicated while an identical text sent again is not.
func MessageKey(platformID string) string { return "MSG#" + platformID }

// ExpenseKey builds a unique expense record id from the owning user and
// the RFC 3339 timestamp of ingestion.
func ExpenseKey(username, timestamp string) string {
	return "EXP#" + username + "#" + timestamp
}

// DeletionKey builds the pending-deletion record id for a user. A user has
// at most one pending deletion; a new request replaces the old one.
func DeletionKey(username string) string { return "DEL#" + username }
