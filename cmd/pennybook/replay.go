package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kitesail/pennybook/internal/engine"
	"github.com/kitesail/pennybook/internal/format"
	"github.com/kitesail/pennybook/internal/model"
	"github.com/kitesail/pennybook/internal/resolver"
)

func replayCmd() *cobra.Command {
	var (
		userID  string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Replay a file of messages through the pipeline",
		Long: `Process a text file with one bookkeeping message per line. Blank lines
and lines starting with # are skipped. Useful for backfilling a ledger from
exported chat history.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			lines, err := readMessageLines(args[0])
			if err != nil {
				return err
			}
			if len(lines) == 0 {
				fmt.Println(infoStyle.Render("Nothing to replay."))
				return nil
			}

			res := resolver.NewWithConfig(store, store, resolver.Config{
				FuzzyThreshold: viper.GetFloat64("resolver.fuzzy_threshold"),
			})
			dispatcher := engine.New(res, store, store, store)

			bar := progressbar.NewOptions(len(lines),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Replaying messages..."),
			)

			var recorded, failed int
			for _, line := range lines {
				outcome := dispatcher.Distribute(ctx, model.RawMessage{
					Text:             line,
					UserID:           userID,
					LedgerID:         ledgerID,
					TimestampMillis:  time.Now().UnixMilli(),
					CorrelationToken: uuid.NewString(),
				})
				if outcome.Success {
					recorded++
				} else {
					failed++
					if verbose {
						reply := format.Format(outcome, "replay")
						fmt.Fprintln(os.Stderr, "\n"+errorStyle.Render(line+" -> "+reply.Text))
					}
				}
				_ = bar.Add(1)
			}
			_ = bar.Finish()
			fmt.Println()

			fmt.Println(successStyle.Render(fmt.Sprintf("Recorded %d entries.", recorded)))
			if failed > 0 {
				fmt.Println(errorStyle.Render(fmt.Sprintf("%d messages could not be recorded (rerun with --verbose for details).", failed)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "me", "user id to record entries under")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "print the reply for every failed message")
	return cmd
}

func readMessageLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return lines, nil
}
