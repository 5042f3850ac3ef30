// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/kitesail/pennybook/internal/model"
)

// LedgerStore is the persistence collaborator that commits accepted drafts.
// It guarantees at-most-one canonical entry per accepted commit and
// classifies its own failures as retryable or terminal via
// common.RetryableError.
type LedgerStore interface {
	Commit(ctx context.Context, draft *model.TransactionDraft) (*model.CommitReceipt, error)
}

// CategoryService provides read access to a ledger's category dictionary
// and the synonym-learning append.
type CategoryService interface {
	ListActiveEntries(ctx context.Context, ledgerID string) ([]model.CategoryEntry, error)
	AppendSynonym(ctx context.Context, ledgerID string, code model.CategoryCode, term string) error
}

// PreferenceService stores per-user learned term-to-category biases.
// Lookup returns (nil, nil) when no record exists.
type PreferenceService interface {
	Lookup(ctx context.Context, userID, term string) (*model.PreferenceRecord, error)
	Upsert(ctx context.Context, userID, term string, code model.CategoryCode) error
}

// Messenger supplies raw messages and delivers replies. Request
// deduplication and reply-token validity are its concern, opaque here.
type Messenger interface {
	Receive(ctx context.Context) (*model.RawMessage, error)
	Reply(ctx context.Context, reply model.ReplyMessage) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// ExportRow is one committed entry flattened for spreadsheet export.
type ExportRow struct {
	CommittedAt   time.Time
	EntryID       string
	UserID        string
	Subject       string
	CategoryCode  string
	CategoryName  string
	Action        string
	PaymentMethod string
	Remark        string
	Amount        string
}

// EntryReader lists committed entries for reporting and export.
type EntryReader interface {
	ListEntries(ctx context.Context, ledgerID string, since *time.Time) ([]ExportRow, error)
}
