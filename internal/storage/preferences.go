package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/kitesail/pennybook/internal/model"
)

// Lookup returns the strongest preference record for a (user, term) pair,
// or nil when the user has never confirmed that term. When several category
// codes share the term, the most used one wins.
func (s *SQLiteStorage) Lookup(ctx context.Context, userID, term string) (*model.PreferenceRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateString(term, "term"); err != nil {
		return nil, err
	}

	query := `
		SELECT user_id, input_term, major_code, sub_code, use_count, last_used_at
		FROM preferences
		WHERE user_id = ? AND input_term = ?
		ORDER BY use_count DESC, last_used_at DESC
		LIMIT 1`

	var record model.PreferenceRecord
	err := s.db.QueryRowContext(ctx, query, userID, term).Scan(
		&record.UserID, &record.InputTerm,
		&record.CategoryCode.Major, &record.CategoryCode.Sub,
		&record.UseCount, &record.LastUsedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query preference: %w", err)
	}

	return &record, nil
}

// Upsert creates a preference record on first use and increments its use
// count on repeat use.
func (s *SQLiteStorage) Upsert(ctx context.Context, userID, term string, code model.CategoryCode) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(term, "term"); err != nil {
		return err
	}

	query := `
		INSERT INTO preferences (user_id, input_term, major_code, sub_code, use_count, last_used_at)
		VALUES (?, ?, ?, ?, 1, ?)
		ON CONFLICT(user_id, input_term, major_code, sub_code)
		DO UPDATE SET use_count = use_count + 1, last_used_at = excluded.last_used_at`

	if _, err := s.db.ExecContext(ctx, query, userID, term, code.Major, code.Sub, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to upsert preference: %w", err)
	}

	slog.Debug("recorded preference", "user_id", userID, "term", term, "code", code)
	return nil
}
