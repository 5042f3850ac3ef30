package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a
// fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Category dictionary and preference store",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS categories (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					ledger_id TEXT NOT NULL,
					major_code TEXT NOT NULL,
					major_name TEXT NOT NULL,
					sub_code TEXT NOT NULL,
					sub_name TEXT NOT NULL,
					synonyms TEXT NOT NULL DEFAULT '[]',
					is_active INTEGER NOT NULL DEFAULT 1,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					UNIQUE(ledger_id, major_code, sub_code)
				)`,
				`CREATE INDEX idx_categories_ledger ON categories(ledger_id)`,

				`CREATE TABLE IF NOT EXISTS preferences (
					user_id TEXT NOT NULL,
					input_term TEXT NOT NULL,
					major_code TEXT NOT NULL,
					sub_code TEXT NOT NULL,
					use_count INTEGER NOT NULL DEFAULT 1,
					last_used_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (user_id, input_term, major_code, sub_code)
				)`,
			}
			for _, q := range queries {
				if _, err := tx.Exec(q); err != nil {
					return err
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Ledger entries with per-ledger sequential ids",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS ledger_sequences (
					ledger_id TEXT PRIMARY KEY,
					next_seq INTEGER NOT NULL DEFAULT 1
				)`,

				`CREATE TABLE IF NOT EXISTS entries (
					id TEXT PRIMARY KEY,
					ledger_id TEXT NOT NULL,
					seq INTEGER NOT NULL,
					user_id TEXT NOT NULL,
					subject TEXT NOT NULL,
					original_subject TEXT,
					major_code TEXT NOT NULL,
					sub_code TEXT NOT NULL,
					category_name TEXT NOT NULL,
					amount TEXT NOT NULL,
					action TEXT NOT NULL,
					payment_method TEXT,
					remark TEXT,
					process_id TEXT,
					committed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					UNIQUE(ledger_id, seq)
				)`,
				`CREATE INDEX idx_entries_ledger_date ON entries(ledger_id, committed_at)`,
				`CREATE INDEX idx_entries_user ON entries(user_id)`,
			}
			for _, q := range queries {
				if _, err := tx.Exec(q); err != nil {
					return err
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Preference lookup index",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_preferences_lookup
				ON preferences(user_id, input_term)`)
			return err
		},
	},
}

// Migrate applies all pending schema migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		description TEXT,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	current, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= current {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Description, err)
		}

		if _, err := tx.Exec(`INSERT INTO schema_migrations (version, description) VALUES (?, ?)`,
			migration.Version, migration.Description); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		slog.Info("applied migration", "version", migration.Version, "description", migration.Description)
	}

	return nil
}

func (s *SQLiteStorage) schemaVersion(ctx context.Context) (int, error) {
	var version sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return int(version.Int64), nil
}
