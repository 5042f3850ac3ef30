package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/kitesail/pennybook/internal/sheets"
)

func exportCmd() *cobra.Command {
	var (
		userID        string
		spreadsheetID string
		sinceStr      string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export committed entries to Google Sheets",
		Long: `Write the ledger's committed entries to a Google Sheet. Authentication
comes from PENNYBOOK_SHEETS_* environment variables: either a service
account key path or OAuth2 client credentials with a refresh token.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			var since *time.Time
			if sinceStr != "" {
				t, err := time.Parse("2006-01-02", sinceStr)
				if err != nil {
					return fmt.Errorf("invalid --since date %q: %w", sinceStr, err)
				}
				since = &t
			}

			cfg := sheets.DefaultConfig()
			if err := cfg.LoadFromEnv(); err != nil {
				return err
			}
			if spreadsheetID != "" {
				cfg.SpreadsheetID = spreadsheetID
			}

			writer, err := sheets.NewWriter(ctx, cfg, slog.Default())
			if err != nil {
				return err
			}

			exported, err := sheets.ExportLedger(ctx, store, writer, ledgerFor(userID), since)
			if err != nil {
				return err
			}
			if exported == 0 {
				fmt.Println(infoStyle.Render("No entries to export."))
				return nil
			}

			fmt.Println(successStyle.Render(fmt.Sprintf("Exported %d entries.", exported)))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "me", "user whose ledger to export")
	cmd.Flags().StringVar(&spreadsheetID, "spreadsheet-id", "", "existing spreadsheet to write to (created when empty)")
	cmd.Flags().StringVar(&sinceStr, "since", "", "only export entries committed on or after this date (YYYY-MM-DD)")
	return cmd
}
