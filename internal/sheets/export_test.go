package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitesail/pennybook/internal/service"
)

type fakeEntryReader struct {
	rows []service.ExportRow
	err  error
}

func (f *fakeEntryReader) ListEntries(_ context.Context, _ string, _ *time.Time) ([]service.ExportRow, error) {
	return f.rows, f.err
}

func TestExportLedgerWritesRows(t *testing.T) {
	reader := &fakeEntryReader{rows: []service.ExportRow{
		{EntryID: "me-000001", Subject: "lunch", Amount: "250"},
		{EntryID: "me-000002", Subject: "taxi", Amount: "180"},
	}}
	writer := NewMockWriter()

	n, err := ExportLedger(context.Background(), reader, writer, "me", nil)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, writer.ExportCallCount)
	assert.Equal(t, reader.rows, writer.LastRows)
}

func TestExportLedgerEmptyLedgerSkipsWriter(t *testing.T) {
	writer := NewMockWriter()

	n, err := ExportLedger(context.Background(), &fakeEntryReader{}, writer, "me", nil)

	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, writer.ExportCallCount)
}

func TestExportLedgerPropagatesWriterError(t *testing.T) {
	reader := &fakeEntryReader{rows: []service.ExportRow{{EntryID: "me-000001"}}}
	writer := NewMockWriter()
	writer.ExportFunc = func(_ context.Context, _ []service.ExportRow) error {
		return errors.New("sheets unavailable")
	}

	_, err := ExportLedger(context.Background(), reader, writer, "me", nil)

	assert.ErrorContains(t, err, "sheets unavailable")
}

func TestExportLedgerPropagatesReaderError(t *testing.T) {
	reader := &fakeEntryReader{err: errors.New("db closed")}
	writer := NewMockWriter()

	_, err := ExportLedger(context.Background(), reader, writer, "me", nil)

	assert.ErrorContains(t, err, "db closed")
	assert.Zero(t, writer.ExportCallCount)
}
