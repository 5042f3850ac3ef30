package sheets

import (
	"context"
	"sync"

	"github.com/kitesail/pennybook/internal/service"
)

// MockWriter is a mock implementation of ExportWriter for testing.
type MockWriter struct {
	ExportFunc      func(ctx context.Context, rows []service.ExportRow) error
	LastRows        []service.ExportRow
	ExportCallCount int
	mu              sync.Mutex
}

// NewMockWriter creates a new mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

// Export implements the ExportWriter interface.
func (m *MockWriter) Export(ctx context.Context, rows []service.ExportRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ExportCallCount++
	m.LastRows = rows

	if m.ExportFunc != nil {
		return m.ExportFunc(ctx, rows)
	}
	return nil
}

// Reset clears all recorded calls.
func (m *MockWriter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ExportCallCount = 0
	m.LastRows = nil
	m.ExportFunc = nil
}
