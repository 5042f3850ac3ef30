package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/kitesail/pennybook/internal/common"
	"github.com/kitesail/pennybook/internal/model"
)

// ListActiveEntries returns all active category entries of a ledger.
func (s *SQLiteStorage) ListActiveEntries(ctx context.Context, ledgerID string) ([]model.CategoryEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ledgerID, "ledgerID"); err != nil {
		return nil, err
	}

	query := `
		SELECT ledger_id, major_code, major_name, sub_code, sub_name, synonyms, is_active, created_at
		FROM categories
		WHERE ledger_id = ? AND is_active = 1
		ORDER BY major_code, sub_code`

	rows, err := s.db.QueryContext(ctx, query, ledgerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var entries []model.CategoryEntry
	for rows.Next() {
		entry, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "ledger_id", ledgerID, "count", len(entries))
	return entries, nil
}

// CreateCategory inserts a new dictionary entry. The (major, sub) pair must
// be unique within the ledger.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, entry model.CategoryEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(entry.LedgerID, "ledgerID"); err != nil {
		return err
	}
	if entry.Code.IsZero() || entry.SubName == "" {
		return fmt.Errorf("category entry needs a code and a name")
	}

	synonyms, err := json.Marshal(emptyIfNil(entry.Synonyms))
	if err != nil {
		return fmt.Errorf("failed to encode synonyms: %w", err)
	}

	query := `
		INSERT INTO categories (ledger_id, major_code, major_name, sub_code, sub_name, synonyms, is_active)
		VALUES (?, ?, ?, ?, ?, ?, 1)`

	if _, err := s.db.ExecContext(ctx, query,
		entry.LedgerID, entry.Code.Major, entry.MajorName, entry.Code.Sub, entry.SubName, string(synonyms)); err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("category %s already exists: %w", entry.Code, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create category %s: %w", entry.Code, err)
	}

	slog.Info("created category", "ledger_id", entry.LedgerID, "code", entry.Code, "name", entry.SubName)
	return nil
}

// AppendSynonym adds a learned term to a category's synonym list. Appending
// a term the entry already knows is a no-op.
func (s *SQLiteStorage) AppendSynonym(ctx context.Context, ledgerID string, code model.CategoryCode, term string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(term, "term"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin synonym update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var raw string
	err = tx.QueryRowContext(ctx, `
		SELECT synonyms FROM categories
		WHERE ledger_id = ? AND major_code = ? AND sub_code = ? AND is_active = 1`,
		ledgerID, code.Major, code.Sub).Scan(&raw)
	if err == sql.ErrNoRows {
		return fmt.Errorf("category %s not found in ledger %s: %w", code, ledgerID, common.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read synonyms for %s: %w", code, err)
	}

	var synonyms []string
	if err := json.Unmarshal([]byte(raw), &synonyms); err != nil {
		return fmt.Errorf("corrupt synonym list for %s: %w", code, err)
	}

	for _, existing := range synonyms {
		if existing == term {
			return nil
		}
	}
	synonyms = append(synonyms, term)

	encoded, err := json.Marshal(synonyms)
	if err != nil {
		return fmt.Errorf("failed to encode synonyms: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE categories SET synonyms = ?
		WHERE ledger_id = ? AND major_code = ? AND sub_code = ?`,
		string(encoded), ledgerID, code.Major, code.Sub); err != nil {
		return fmt.Errorf("failed to append synonym to %s: %w", code, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit synonym update: %w", err)
	}

	slog.Debug("appended synonym", "ledger_id", ledgerID, "code", code, "term", term)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (model.CategoryEntry, error) {
	var entry model.CategoryEntry
	var rawSynonyms string

	if err := row.Scan(&entry.LedgerID, &entry.Code.Major, &entry.MajorName,
		&entry.Code.Sub, &entry.SubName, &rawSynonyms, &entry.IsActive, &entry.CreatedAt); err != nil {
		return entry, fmt.Errorf("failed to scan category: %w", err)
	}

	if err := json.Unmarshal([]byte(rawSynonyms), &entry.Synonyms); err != nil {
		return entry, fmt.Errorf("corrupt synonym list for %s: %w", entry.Code, err)
	}
	return entry, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
