// Package model defines the core domain models used throughout the application.
package model

// RawMessage is a single uninterpreted chat message handed to the pipeline.
type RawMessage struct {
	Text             string
	UserID           string
	LedgerID         string
	CorrelationToken string
	TimestampMillis  int64
}

// ReplyMessage is the formatted reply delivered back through the messenger.
// Fields carries the same display values for success and failure so the
// transport never branches to extract them.
type ReplyMessage struct {
	Fields           map[string]string
	Text             string
	CorrelationToken string
	Success          bool
}
