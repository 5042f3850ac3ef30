package model

import "time"

// PreferenceRecord is a per-user learned bias mapping a previously typed
// term directly to a category code. One record exists per
// (userID, inputTerm, categoryCode) triple; InputTerm is stored normalized
// (trimmed, lowercased).
type PreferenceRecord struct {
	LastUsedAt   time.Time
	UserID       string
	InputTerm    string
	CategoryCode CategoryCode
	UseCount     int
}
