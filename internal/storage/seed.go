package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kitesail/pennybook/internal/model"
)

// defaultDictionary is the starter category set installed when a ledger is
// first used. Major codes in the 800 range are income; everything else is
// expense.
var defaultDictionary = []model.CategoryEntry{
	{Code: model.CategoryCode{Major: "301", Sub: "01"}, MajorName: "Food", SubName: "lunch", Synonyms: []string{"meal", "bento"}},
	{Code: model.CategoryCode{Major: "301", Sub: "02"}, MajorName: "Food", SubName: "dinner", Synonyms: []string{"supper"}},
	{Code: model.CategoryCode{Major: "301", Sub: "03"}, MajorName: "Food", SubName: "groceries", Synonyms: []string{"supermarket", "market"}},
	{Code: model.CategoryCode{Major: "302", Sub: "01"}, MajorName: "Drinks", SubName: "coffee", Synonyms: []string{"cafe", "latte"}},
	{Code: model.CategoryCode{Major: "402", Sub: "01"}, MajorName: "Transport", SubName: "bus", Synonyms: []string{"commute"}},
	{Code: model.CategoryCode{Major: "402", Sub: "02"}, MajorName: "Transport", SubName: "taxi", Synonyms: []string{"taxi fare", "cab", "ride"}},
	{Code: model.CategoryCode{Major: "501", Sub: "01"}, MajorName: "Household", SubName: "utilities", Synonyms: []string{"electricity", "water bill"}},
	{Code: model.CategoryCode{Major: "502", Sub: "01"}, MajorName: "Household", SubName: "rent", Synonyms: nil},
	{Code: model.CategoryCode{Major: "801", Sub: "01"}, MajorName: "Income", SubName: "salary", Synonyms: []string{"paycheck", "wages"}},
	{Code: model.CategoryCode{Major: "801", Sub: "02"}, MajorName: "Income", SubName: "bonus", Synonyms: nil},
	{Code: model.CategoryCode{Major: "802", Sub: "01"}, MajorName: "Income", SubName: "refund", Synonyms: []string{"reimbursement"}},
}

// EnsureSeeded installs the starter dictionary into a ledger that has no
// categories yet. Ledgers that already have entries are left untouched.
func (s *SQLiteStorage) EnsureSeeded(ctx context.Context, ledgerID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(ledgerID, "ledgerID"); err != nil {
		return err
	}

	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE ledger_id = ?`, ledgerID).Scan(&count); err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, entry := range defaultDictionary {
		entry.LedgerID = ledgerID
		if err := s.CreateCategory(ctx, entry); err != nil {
			return fmt.Errorf("failed to seed %s: %w", entry.Code, err)
		}
	}

	slog.Info("seeded starter dictionary", "ledger_id", ledgerID, "categories", len(defaultDictionary))
	return nil
}
