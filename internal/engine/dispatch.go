package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/kitesail/pennybook/internal/common"
	"github.com/kitesail/pennybook/internal/model"
	"github.com/kitesail/pennybook/internal/parser"
	"github.com/kitesail/pennybook/internal/resolver"
	"github.com/kitesail/pennybook/internal/service"
)

// Dispatcher orchestrates the parse → resolve → draft → commit pipeline
// with bounded exponential-backoff retry around transient commit failures.
type Dispatcher struct {
	resolver    *resolver.Resolver
	ledger      service.LedgerStore
	categories  service.CategoryService
	preferences service.PreferenceService
	handlers    map[DestinationKind]handler
	retry       service.RetryOptions
}

// Config holds configuration options for the dispatcher.
type Config struct {
	Retry service.RetryOptions
}

// DefaultConfig returns the default dispatch configuration: three total
// attempts with a one second base delay doubling per retry.
func DefaultConfig() Config {
	return Config{
		Retry: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: time.Second,
			Multiplier:   2.0,
		},
	}
}

// New creates a dispatcher with the default configuration.
func New(res *resolver.Resolver, ledger service.LedgerStore, categories service.CategoryService, preferences service.PreferenceService) *Dispatcher {
	return NewWithConfig(res, ledger, categories, preferences, DefaultConfig())
}

// NewWithConfig creates a dispatcher with custom configuration.
func NewWithConfig(res *resolver.Resolver, ledger service.LedgerStore, categories service.CategoryService, preferences service.PreferenceService, config Config) *Dispatcher {
	d := &Dispatcher{
		resolver:    res,
		ledger:      ledger,
		categories:  categories,
		preferences: preferences,
		retry:       config.Retry,
	}
	d.handlers = destinationTable(d)
	return d
}

// Distribute routes a raw message to its destination handler and returns
// the terminal outcome. It never returns an error: every failure is folded
// into the outcome for the response formatter.
func (d *Dispatcher) Distribute(ctx context.Context, raw model.RawMessage) model.DispatchOutcome {
	kind := classifyDestination(raw)
	h, ok := d.handlers[kind]
	if !ok {
		h = d.handlers[DestinationTransaction]
	}

	slog.Debug("dispatching message",
		"destination", kind,
		"user_id", raw.UserID,
		"correlation", raw.CorrelationToken)

	return h.handle(ctx, raw)
}

// handleTransaction runs the recording pipeline. Validation failures in
// parsing, resolving, or drafting are terminal; only commit failures the
// ledger store marks retryable re-run the pipeline. Each retry restarts
// from parsing because the dictionary and preference store may have
// changed between attempts.
func (d *Dispatcher) handleTransaction(ctx context.Context, raw model.RawMessage) model.DispatchOutcome {
	var outcome model.DispatchOutcome
	attempts := 0

	err := common.WithRetry(ctx, func() error {
		attempts++
		outcome = d.attempt(ctx, raw)
		outcome.Attempts = attempts
		if outcome.Success {
			return nil
		}
		if outcome.Retryable {
			return common.NewRetryable(errors.New(string(outcome.ErrorKind)))
		}
		return common.NewTerminal(errors.New(string(outcome.ErrorKind)))
	}, d.retry)

	if err != nil && errors.Is(err, common.ErrMaxRetries) {
		outcome.ErrorKind = model.ErrorKindMaxRetriesExceeded
		outcome.Retryable = false
	}
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		outcome.Success = false
		outcome.Retryable = false
		if outcome.ErrorKind == model.ErrorKindNone {
			outcome.ErrorKind = model.ErrorKindCommitFailed
		}
	}

	if outcome.Success {
		d.learn(ctx, raw, outcome)
	}
	return outcome
}

// attempt executes one full pass of the pipeline.
func (d *Dispatcher) attempt(ctx context.Context, raw model.RawMessage) model.DispatchOutcome {
	parsed, err := parser.Parse(raw.Text)
	if err != nil {
		return validationOutcome(err, parsed)
	}

	resolution, err := d.resolver.Resolve(ctx, raw.LedgerID, raw.UserID, parsed.SubjectText)
	if err != nil {
		// Dictionary reads go through the same store as commits; treat
		// read failures as transient the way the store classifies them.
		return model.DispatchOutcome{
			ErrorKind: model.ErrorKindCommitFailed,
			Retryable: common.IsRetryable(err),
			Partial:   partialFrom(parsed),
		}
	}

	draft, err := Draft(raw, parsed, resolution)
	if err != nil {
		return validationOutcome(err, parsed)
	}

	receipt, err := d.ledger.Commit(ctx, draft)
	if err != nil {
		slog.Warn("commit failed",
			"process_id", draft.ProcessID,
			"retryable", common.IsRetryable(err),
			"error", err)
		return model.DispatchOutcome{
			Draft:      draft,
			Resolution: resolution,
			ErrorKind:  model.ErrorKindCommitFailed,
			Retryable:  common.IsRetryable(err),
			Partial:    partialFrom(parsed),
		}
	}

	return model.DispatchOutcome{
		Success:    true,
		Receipt:    receipt,
		Draft:      draft,
		Resolution: resolution,
		Partial:    partialFrom(parsed),
	}
}

// learn records the accepted resolution back into the stores: a preference
// record when the user typed something other than the canonical name, and a
// synonym when the hit came from a weak tier. Both are best effort.
func (d *Dispatcher) learn(ctx context.Context, raw model.RawMessage, outcome model.DispatchOutcome) {
	if outcome.Draft == nil || outcome.Resolution == nil {
		return
	}

	typed := resolver.Normalize(outcome.Draft.OriginalSubjectText)
	canonical := resolver.Normalize(outcome.Resolution.CategoryName)
	if typed == "" || typed == canonical {
		return
	}

	if err := d.preferences.Upsert(ctx, raw.UserID, typed, outcome.Resolution.Code); err != nil {
		slog.Warn("preference learning failed", "user_id", raw.UserID, "term", typed, "error", err)
	}

	switch outcome.Resolution.Method {
	case model.MatchCompound, model.MatchFuzzy:
		if err := d.categories.AppendSynonym(ctx, raw.LedgerID, outcome.Resolution.Code, typed); err != nil {
			slog.Warn("synonym learning failed", "ledger_id", raw.LedgerID, "term", typed, "error", err)
		}
	}
}

func validationOutcome(err error, parsed model.ParsedInput) model.DispatchOutcome {
	return model.DispatchOutcome{
		ErrorKind: classifyValidation(err),
		Retryable: false,
		Partial:   partialFrom(parsed),
	}
}

func classifyValidation(err error) model.ErrorKind {
	switch {
	case errors.Is(err, common.ErrEmptyMessage):
		return model.ErrorKindEmptyMessage
	case errors.Is(err, common.ErrFormatNotRecognized):
		return model.ErrorKindFormatNotRecognized
	case errors.Is(err, common.ErrMissingSubject):
		return model.ErrorKindMissingSubject
	case errors.Is(err, common.ErrUnknownSubject):
		return model.ErrorKindUnknownSubject
	default:
		return model.ErrorKindCommitFailed
	}
}

func partialFrom(parsed model.ParsedInput) model.PartialData {
	return model.PartialData{
		SubjectText:       parsed.SubjectText,
		RawAmountText:     parsed.RawAmountText,
		PaymentMethodText: parsed.PaymentMethodText,
	}
}
