package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kitesail/pennybook/internal/engine"
	"github.com/kitesail/pennybook/internal/format"
	"github.com/kitesail/pennybook/internal/model"
	"github.com/kitesail/pennybook/internal/resolver"
	"github.com/kitesail/pennybook/internal/service"
)

func chatCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Record entries interactively",
		Long: `Start a local chat session. Each line is processed as a bookkeeping
message: "lunch 250 cash" records an expense of 250 for lunch paid in cash.
Type "exit" to leave.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			ledgerID := ledgerFor(userID)
			if err := store.EnsureSeeded(ctx, ledgerID); err != nil {
				return fmt.Errorf("failed to seed ledger: %w", err)
			}

			res := resolver.NewWithConfig(store, store, resolver.Config{
				FuzzyThreshold: viper.GetFloat64("resolver.fuzzy_threshold"),
			})
			dispatcher := engine.New(res, store, store, store)
			messenger := newConsoleMessenger(cmd, userID, ledgerID)

			fmt.Println(infoStyle.Render("pennybook ready. Type an entry like \"lunch 250 cash\", or \"exit\" to quit."))

			return runChatLoop(ctx, messenger, dispatcher)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "me", "user id to record entries under")
	return cmd
}

// runChatLoop pumps messages from the messenger through the pipeline until
// input ends or the context is canceled.
func runChatLoop(ctx context.Context, messenger service.Messenger, dispatcher *engine.Dispatcher) error {
	for {
		raw, err := messenger.Receive(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		outcome := dispatcher.Distribute(ctx, *raw)
		reply := format.Format(outcome, "chat")
		reply.CorrelationToken = raw.CorrelationToken

		if err := messenger.Reply(ctx, reply); err != nil {
			return fmt.Errorf("failed to deliver reply: %w", err)
		}
	}
}

// consoleMessenger adapts stdin/stdout to the messenger contract.
type consoleMessenger struct {
	scanner  *bufio.Scanner
	out      io.Writer
	userID   string
	ledgerID string
}

func newConsoleMessenger(cmd *cobra.Command, userID, ledgerID string) *consoleMessenger {
	return &consoleMessenger{
		scanner:  bufio.NewScanner(cmd.InOrStdin()),
		out:      cmd.OutOrStdout(),
		userID:   userID,
		ledgerID: ledgerID,
	}
}

func (m *consoleMessenger) Receive(ctx context.Context) (*model.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, io.EOF
	}

	fmt.Fprint(m.out, promptStyle.Render("> "))
	if !m.scanner.Scan() {
		if err := m.scanner.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}

	text := m.scanner.Text()
	if text == "exit" || text == "quit" {
		return nil, io.EOF
	}

	return &model.RawMessage{
		Text:             text,
		UserID:           m.userID,
		LedgerID:         m.ledgerID,
		TimestampMillis:  time.Now().UnixMilli(),
		CorrelationToken: uuid.NewString(),
	}, nil
}

func (m *consoleMessenger) Reply(_ context.Context, reply model.ReplyMessage) error {
	style := errorStyle
	if reply.Success {
		style = successStyle
	}
	fmt.Fprintln(m.out, style.Render(reply.Text))
	return nil
}
