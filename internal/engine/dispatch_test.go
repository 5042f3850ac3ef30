package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitesail/pennybook/internal/common"
	"github.com/kitesail/pennybook/internal/model"
	"github.com/kitesail/pennybook/internal/resolver"
	"github.com/kitesail/pennybook/internal/service"
)

func testEntries() []model.CategoryEntry {
	return []model.CategoryEntry{
		{Code: model.CategoryCode{Major: "301", Sub: "01"}, SubName: "lunch", Synonyms: []string{"meal"}},
		{Code: model.CategoryCode{Major: "402", Sub: "02"}, SubName: "taxi", Synonyms: []string{"taxi fare"}},
		{Code: model.CategoryCode{Major: "801", Sub: "01"}, SubName: "salary"},
	}
}

func newTestDispatcher(ledger *MockLedger) (*Dispatcher, *MockCategories, *MockPreferences) {
	categories := &MockCategories{Entries: testEntries()}
	preferences := &MockPreferences{}
	res := resolver.New(categories, preferences)

	d := NewWithConfig(res, ledger, categories, preferences, Config{
		Retry: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: time.Millisecond,
			Multiplier:   2.0,
		},
	})
	return d, categories, preferences
}

func message(text string) model.RawMessage {
	return model.RawMessage{
		Text:     text,
		UserID:   "user",
		LedgerID: "ledger",
	}
}

func TestDistributeSuccess(t *testing.T) {
	ledger := &MockLedger{}
	d, _, _ := newTestDispatcher(ledger)

	outcome := d.Distribute(context.Background(), message("lunch 250 cash"))

	require.True(t, outcome.Success)
	require.NotNil(t, outcome.Draft)
	assert.Equal(t, "250", outcome.Draft.Amount.String())
	assert.Equal(t, model.ActionExpense, outcome.Draft.Action)
	assert.Equal(t, "cash", outcome.Draft.PaymentMethod)
	assert.Equal(t, "301-01", outcome.Draft.CategoryCode.String())
	assert.Equal(t, 1, outcome.Attempts)
	assert.Equal(t, 1, ledger.CommitCount)
	require.NotNil(t, outcome.Receipt)
	assert.NotEmpty(t, outcome.Receipt.EntryID)
}

func TestDistributeMissingSubject(t *testing.T) {
	ledger := &MockLedger{}
	d, _, _ := newTestDispatcher(ledger)

	outcome := d.Distribute(context.Background(), message("25000"))

	assert.False(t, outcome.Success)
	assert.Equal(t, model.ErrorKindMissingSubject, outcome.ErrorKind)
	assert.Equal(t, "25000", outcome.Partial.RawAmountText)
	assert.Zero(t, ledger.CommitCount, "validation failures must not reach the ledger")
	assert.Equal(t, 1, outcome.Attempts, "validation failures must not retry")
}

func TestDistributeEmptyMessage(t *testing.T) {
	d, _, _ := newTestDispatcher(&MockLedger{})

	outcome := d.Distribute(context.Background(), message(""))

	assert.False(t, outcome.Success)
	assert.Equal(t, model.ErrorKindEmptyMessage, outcome.ErrorKind)
}

func TestDistributeUnknownSubject(t *testing.T) {
	ledger := &MockLedger{}
	d, _, _ := newTestDispatcher(ledger)

	outcome := d.Distribute(context.Background(), message("zzqeta 990"))

	assert.False(t, outcome.Success)
	assert.Equal(t, model.ErrorKindUnknownSubject, outcome.ErrorKind)
	assert.Equal(t, "zzqeta", outcome.Partial.SubjectText)
	assert.Zero(t, ledger.CommitCount)
}

func TestDistributeRetryBound(t *testing.T) {
	ledger := &MockLedger{
		CommitFunc: func(_ context.Context, _ *model.TransactionDraft) (*model.CommitReceipt, error) {
			return nil, common.NewRetryable(errors.New("write conflict"))
		},
	}
	d, _, _ := newTestDispatcher(ledger)

	outcome := d.Distribute(context.Background(), message("lunch 250"))

	assert.False(t, outcome.Success)
	assert.Equal(t, model.ErrorKindMaxRetriesExceeded, outcome.ErrorKind)
	assert.False(t, outcome.Retryable)
	assert.Equal(t, 3, ledger.CommitCount, "never more than 3 total attempts")
	assert.Equal(t, "lunch", outcome.Partial.SubjectText)
}

func TestDistributeRecoversAfterTransientFailures(t *testing.T) {
	attempts := 0
	ledger := &MockLedger{
		CommitFunc: func(_ context.Context, draft *model.TransactionDraft) (*model.CommitReceipt, error) {
			attempts++
			if attempts < 3 {
				return nil, common.NewRetryable(errors.New("write conflict"))
			}
			return &model.CommitReceipt{EntryID: "ledger-000001", CommittedAt: time.Now()}, nil
		},
	}
	d, _, _ := newTestDispatcher(ledger)

	outcome := d.Distribute(context.Background(), message("lunch 250"))

	require.True(t, outcome.Success)
	assert.Equal(t, 3, outcome.Attempts)
	assert.Equal(t, 3, ledger.CommitCount)
}

func TestDistributeTerminalCommitFailureDoesNotRetry(t *testing.T) {
	ledger := &MockLedger{
		CommitFunc: func(_ context.Context, _ *model.TransactionDraft) (*model.CommitReceipt, error) {
			return nil, common.NewTerminal(errors.New("constraint violation"))
		},
	}
	d, _, _ := newTestDispatcher(ledger)

	outcome := d.Distribute(context.Background(), message("lunch 250"))

	assert.False(t, outcome.Success)
	assert.Equal(t, model.ErrorKindCommitFailed, outcome.ErrorKind)
	assert.Equal(t, 1, ledger.CommitCount)
}

func TestDistributeRetryRegeneratesProcessID(t *testing.T) {
	ledger := &MockLedger{}
	ledger.CommitFunc = func(_ context.Context, _ *model.TransactionDraft) (*model.CommitReceipt, error) {
		if ledger.CommitCount < 2 {
			return nil, common.NewRetryable(errors.New("write conflict"))
		}
		return &model.CommitReceipt{EntryID: "ledger-000001", CommittedAt: time.Now()}, nil
	}
	d, _, _ := newTestDispatcher(ledger)

	outcome := d.Distribute(context.Background(), message("lunch 250"))

	require.True(t, outcome.Success)
	require.Len(t, ledger.Commits, 2)
	assert.NotEqual(t, ledger.Commits[0].ProcessID, ledger.Commits[1].ProcessID)
}

func TestDistributeLearnsPreferenceFromSynonym(t *testing.T) {
	d, categories, preferences := newTestDispatcher(&MockLedger{})

	outcome := d.Distribute(context.Background(), message("meal 250"))

	require.True(t, outcome.Success)
	assert.Equal(t, []string{"meal"}, preferences.Upserted)
	assert.Empty(t, categories.Appended, "synonym-exact hits are already in the dictionary")
}

func TestDistributeLearnsSynonymFromFuzzy(t *testing.T) {
	d, categories, preferences := newTestDispatcher(&MockLedger{})

	outcome := d.Distribute(context.Background(), message("lunc 250"))

	require.True(t, outcome.Success)
	require.NotNil(t, outcome.Resolution)
	assert.Equal(t, model.MatchFuzzy, outcome.Resolution.Method)
	assert.Equal(t, []string{"lunc"}, preferences.Upserted)
	assert.Equal(t, []string{"lunc"}, categories.Appended)
}

func TestDistributeCanonicalSubjectSkipsLearning(t *testing.T) {
	d, categories, preferences := newTestDispatcher(&MockLedger{})

	outcome := d.Distribute(context.Background(), message("lunch 250"))

	require.True(t, outcome.Success)
	assert.Empty(t, preferences.Upserted)
	assert.Empty(t, categories.Appended)
}

func TestDistributeCommandDestination(t *testing.T) {
	ledger := &MockLedger{}
	d, _, _ := newTestDispatcher(ledger)

	outcome := d.Distribute(context.Background(), message("/help"))

	assert.True(t, outcome.Success)
	assert.NotEmpty(t, outcome.Message)
	assert.Zero(t, ledger.CommitCount)
}

func TestClassifyDestination(t *testing.T) {
	assert.Equal(t, DestinationCommand, classifyDestination(message("/report")))
	assert.Equal(t, DestinationTransaction, classifyDestination(message("lunch 250")))
}
