package main

import (
	"context"

	"github.com/spf13/viper"

	"github.com/kitesail/pennybook/internal/common"
	"github.com/kitesail/pennybook/internal/config"
	"github.com/kitesail/pennybook/internal/storage"
)

// initStorage opens the configured database and applies pending migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, common.NewUserError("could not open the pennybook database", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, common.NewUserError("could not update the database schema", err)
	}

	return store, nil
}

// ledgerFor maps a user to their ledger. Shared ledgers would resolve
// membership here; for the single-user CLI the user is the ledger.
func ledgerFor(userID string) string {
	if ledger := viper.GetString("ledger.id"); ledger != "" {
		return ledger
	}
	return userID
}
