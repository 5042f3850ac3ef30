package engine

import (
	"context"
	"sync"
	"time"

	"github.com/kitesail/pennybook/internal/model"
)

// MockLedger is a scriptable LedgerStore for tests.
type MockLedger struct {
	CommitFunc  func(ctx context.Context, draft *model.TransactionDraft) (*model.CommitReceipt, error)
	Commits     []*model.TransactionDraft
	CommitCount int
	mu          sync.Mutex
}

// Commit records the call and delegates to CommitFunc, succeeding with a
// synthetic receipt when no function is scripted.
func (m *MockLedger) Commit(ctx context.Context, draft *model.TransactionDraft) (*model.CommitReceipt, error) {
	m.mu.Lock()
	m.CommitCount++
	m.Commits = append(m.Commits, draft)
	m.mu.Unlock()

	if m.CommitFunc != nil {
		return m.CommitFunc(ctx, draft)
	}
	return &model.CommitReceipt{EntryID: "mock-000001", CommittedAt: time.Now()}, nil
}

// MockCategories is an in-memory CategoryService for tests.
type MockCategories struct {
	Entries  []model.CategoryEntry
	Appended []string
	mu       sync.Mutex
}

// ListActiveEntries returns the scripted dictionary.
func (m *MockCategories) ListActiveEntries(_ context.Context, _ string) ([]model.CategoryEntry, error) {
	return m.Entries, nil
}

// AppendSynonym records the learned term.
func (m *MockCategories) AppendSynonym(_ context.Context, _ string, _ model.CategoryCode, term string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Appended = append(m.Appended, term)
	return nil
}

// MockPreferences is an in-memory PreferenceService for tests.
type MockPreferences struct {
	Records  map[string]*model.PreferenceRecord
	Upserted []string
	mu       sync.Mutex
}

// Lookup returns the scripted record for (userID, term), if any.
func (m *MockPreferences) Lookup(_ context.Context, userID, term string) (*model.PreferenceRecord, error) {
	if m.Records == nil {
		return nil, nil
	}
	return m.Records[userID+"|"+term], nil
}

// Upsert records the learned term.
func (m *MockPreferences) Upsert(_ context.Context, _, term string, _ model.CategoryCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Upserted = append(m.Upserted, term)
	return nil
}
