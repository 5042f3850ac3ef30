// Package format converts dispatch outcomes, successful or failed, into the
// single reply shape the messenger delivers. It is the last line of defense
// before the reply path: it never returns an error and never panics out.
package format

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kitesail/pennybook/internal/model"
)

// Fallback literals used when neither the outcome nor its partial data
// carries a field.
const (
	fallbackSubject       = "unknown subject"
	fallbackAmount        = "0"
	fallbackPaymentMethod = "unspecified payment method"
	fallbackMessage       = "Sorry, something went wrong while recording your entry. Please try again."
)

// Format renders an outcome into a reply. A preformed outcome message
// passes through unchanged, so re-formatting an already-formatted outcome
// is idempotent.
func Format(outcome model.DispatchOutcome, moduleTag string) (reply model.ReplyMessage) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("formatter recovered", "module", moduleTag, "panic", r)
			reply = model.ReplyMessage{Text: fallbackMessage, Success: outcome.Success}
		}
	}()

	fields := displayFields(outcome)

	if outcome.Message != "" {
		return model.ReplyMessage{
			Text:    outcome.Message,
			Fields:  fields,
			Success: outcome.Success,
		}
	}

	text := failureText(outcome, fields)
	if outcome.Success {
		text = successText(fields)
	}

	return model.ReplyMessage{
		Text:    text,
		Fields:  fields,
		Success: outcome.Success,
	}
}

// displayFields builds the shared field set. Every field resolves in the
// same priority order: explicit outcome field, then partial data, then the
// fallback literal — success and failure carry identical keys so consumers
// never branch.
func displayFields(outcome model.DispatchOutcome) map[string]string {
	subject := outcome.Partial.SubjectText
	amount := outcome.Partial.RawAmountText
	payment := outcome.Partial.PaymentMethodText
	action := ""
	category := ""
	remark := ""
	timestamp := time.Now().Format(time.RFC3339)

	if outcome.Draft != nil {
		subject = pick(outcome.Draft.SubjectText, subject)
		amount = pick(outcome.Draft.Amount.String(), amount)
		payment = pick(outcome.Draft.PaymentMethod, payment)
		action = string(outcome.Draft.Action)
		category = outcome.Draft.CategoryCode.String()
		remark = outcome.Draft.RemarkText
	}
	if outcome.Resolution != nil {
		category = pick(outcome.Resolution.Code.String(), category)
	}
	if outcome.Receipt != nil {
		timestamp = outcome.Receipt.CommittedAt.Format(time.RFC3339)
	}

	return map[string]string{
		"subject":        pick(subject, fallbackSubject),
		"amount":         pick(amount, fallbackAmount),
		"action":         pick(action, string(model.ActionExpense)),
		"payment_method": pick(payment, fallbackPaymentMethod),
		"category":       category,
		"remark":         remark,
		"timestamp":      timestamp,
	}
}

func successText(fields map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recorded %s of %s for %s", fields["action"], fields["amount"], fields["subject"])
	if fields["category"] != "" {
		fmt.Fprintf(&b, " (%s)", fields["category"])
	}
	fmt.Fprintf(&b, " via %s.", fields["payment_method"])
	return b.String()
}

func failureText(outcome model.DispatchOutcome, fields map[string]string) string {
	return fmt.Sprintf("%s You typed: subject %q, amount %s, payment %s. Please correct and resend.",
		reasonFor(outcome.ErrorKind),
		fields["subject"],
		fields["amount"],
		fields["payment_method"])
}

// reasonFor maps an error kind to its business-readable reason.
func reasonFor(kind model.ErrorKind) string {
	switch kind {
	case model.ErrorKindEmptyMessage:
		return "Your message was empty."
	case model.ErrorKindFormatNotRecognized:
		return "I could not find an amount in your message."
	case model.ErrorKindMissingSubject:
		return "Your message has an amount but no subject."
	case model.ErrorKindUnknownSubject:
		return "I do not recognize that subject yet."
	case model.ErrorKindMaxRetriesExceeded:
		return "The ledger is busy and the entry was not saved."
	case model.ErrorKindCommitFailed:
		return "The entry could not be saved."
	default:
		return "The entry could not be recorded."
	}
}

func pick(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
