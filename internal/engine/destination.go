package engine

import (
	"context"
	"strings"

	"github.com/kitesail/pennybook/internal/model"
)

// DestinationKind classifies where a message is routed. The set is closed;
// handlers are resolved through a static table, never by dynamic lookup.
type DestinationKind string

const (
	// DestinationTransaction records an income/expense entry.
	DestinationTransaction DestinationKind = "transaction"
	// DestinationCommand is a slash-prefixed control message.
	DestinationCommand DestinationKind = "command"
)

type handler interface {
	handle(ctx context.Context, raw model.RawMessage) model.DispatchOutcome
}

type handlerFunc func(ctx context.Context, raw model.RawMessage) model.DispatchOutcome

func (f handlerFunc) handle(ctx context.Context, raw model.RawMessage) model.DispatchOutcome {
	return f(ctx, raw)
}

// destinationTable builds the static routing table for a dispatcher.
func destinationTable(d *Dispatcher) map[DestinationKind]handler {
	return map[DestinationKind]handler{
		DestinationTransaction: handlerFunc(d.handleTransaction),
		DestinationCommand:     handlerFunc(handleCommand),
	}
}

func classifyDestination(raw model.RawMessage) DestinationKind {
	if strings.HasPrefix(strings.TrimSpace(raw.Text), "/") {
		return DestinationCommand
	}
	return DestinationTransaction
}

// handleCommand answers control messages with usage help. Command surfaces
// beyond help live in the CLI, not the chat pipeline.
func handleCommand(_ context.Context, _ model.RawMessage) model.DispatchOutcome {
	return model.DispatchOutcome{
		Success: true,
		Message: "Send an entry like \"lunch 250 cash\": subject, amount, then an optional payment method.",
	}
}
