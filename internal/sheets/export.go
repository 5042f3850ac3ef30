package sheets

import (
	"context"
	"fmt"
	"time"

	"github.com/kitesail/pennybook/internal/service"
)

// ExportLedger reads a ledger's committed entries and hands them to the
// writer. It returns the number of exported entries; a ledger with no
// matching entries exports nothing and is not an error.
func ExportLedger(ctx context.Context, reader service.EntryReader, writer ExportWriter, ledgerID string, since *time.Time) (int, error) {
	rows, err := reader.ListEntries(ctx, ledgerID, since)
	if err != nil {
		return 0, fmt.Errorf("failed to list entries: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	if err := writer.Export(ctx, rows); err != nil {
		return 0, fmt.Errorf("export failed: %w", err)
	}
	return len(rows), nil
}
