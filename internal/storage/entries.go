package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/kitesail/pennybook/internal/common"
	"github.com/kitesail/pennybook/internal/model"
	"github.com/kitesail/pennybook/internal/service"
)

// Commit writes an accepted draft as a canonical ledger entry. The entry id
// is allocated from a per-ledger counter updated inside the same
// transaction as the insert, so concurrent commits can never collide.
// Failures carry a retryable classification: lock contention is transient,
// everything else is terminal.
func (s *SQLiteStorage) Commit(ctx context.Context, draft *model.TransactionDraft) (*model.CommitReceipt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, common.NewTerminal(err)
	}
	if err := validateDraft(draft); err != nil {
		return nil, common.NewTerminal(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classifyDBError(fmt.Errorf("failed to begin commit: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	seq, err := nextSequence(ctx, tx, draft.LedgerID)
	if err != nil {
		return nil, classifyDBError(err)
	}

	entryID := fmt.Sprintf("%s-%06d", draft.LedgerID, seq)
	committedAt := time.Now().UTC()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO entries (id, ledger_id, seq, user_id, subject, original_subject,
			major_code, sub_code, category_name, amount, action, payment_method,
			remark, process_id, committed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entryID, draft.LedgerID, seq, draft.UserID,
		draft.SubjectText, draft.OriginalSubjectText,
		draft.CategoryCode.Major, draft.CategoryCode.Sub, draft.CategoryName,
		draft.Amount.String(), string(draft.Action), draft.PaymentMethod,
		draft.RemarkText, draft.ProcessID, committedAt); err != nil {
		return nil, classifyDBError(fmt.Errorf("failed to insert entry: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return nil, classifyDBError(fmt.Errorf("failed to commit entry: %w", err))
	}

	slog.Info("committed entry",
		"entry_id", entryID,
		"ledger_id", draft.LedgerID,
		"category", draft.CategoryCode,
		"amount", draft.Amount,
		"process_id", draft.ProcessID)

	return &model.CommitReceipt{EntryID: entryID, CommittedAt: committedAt}, nil
}

// nextSequence bumps and returns the ledger's sequence counter within tx.
func nextSequence(ctx context.Context, tx *sql.Tx, ledgerID string) (int64, error) {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO ledger_sequences (ledger_id, next_seq) VALUES (?, 1)
		ON CONFLICT(ledger_id) DO NOTHING`, ledgerID); err != nil {
		return 0, fmt.Errorf("failed to init sequence for %s: %w", ledgerID, err)
	}

	var seq int64
	if err := tx.QueryRowContext(ctx,
		`SELECT next_seq FROM ledger_sequences WHERE ledger_id = ?`, ledgerID).Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to read sequence for %s: %w", ledgerID, err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE ledger_sequences SET next_seq = next_seq + 1 WHERE ledger_id = ?`, ledgerID); err != nil {
		return 0, fmt.Errorf("failed to advance sequence for %s: %w", ledgerID, err)
	}

	return seq, nil
}

// ListEntries returns committed entries of a ledger, oldest first,
// optionally restricted to entries at or after since.
func (s *SQLiteStorage) ListEntries(ctx context.Context, ledgerID string, since *time.Time) ([]service.ExportRow, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ledgerID, "ledgerID"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, user_id, subject, major_code, sub_code, category_name,
			amount, action, payment_method, remark, committed_at
		FROM entries
		WHERE ledger_id = ?`
	args := []any{ledgerID}
	if since != nil {
		query += ` AND committed_at >= ?`
		args = append(args, since.UTC())
	}
	query += ` ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var results []service.ExportRow
	for rows.Next() {
		var row service.ExportRow
		var major, sub string
		if err := rows.Scan(&row.EntryID, &row.UserID, &row.Subject, &major, &sub,
			&row.CategoryName, &row.Amount, &row.Action, &row.PaymentMethod,
			&row.Remark, &row.CommittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		row.CategoryCode = model.CategoryCode{Major: major, Sub: sub}.String()
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}
	return results, nil
}

// classifyDBError wraps a database error with its retryable classification.
// SQLite lock contention clears on retry; constraint and corruption
// failures do not.
func classifyDBError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked {
			return common.NewRetryable(err)
		}
	}
	return common.NewTerminal(err)
}
