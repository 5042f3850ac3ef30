// Package parser tokenizes raw chat text into the subject, amount, and
// payment-method parts of a bookkeeping message.
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kitesail/pennybook/internal/common"
	"github.com/kitesail/pennybook/internal/model"
)

// digitRunPattern matches a contiguous run of decimal digits.
var digitRunPattern = regexp.MustCompile(`[0-9]+`)

// paymentMethodVocabulary is the fixed set of payment-method terms the
// parser recognizes by substring containment, scanned in order. Trailing
// text matching none of these still passes through as a candidate for the
// ledger store's own whitelist.
var paymentMethodVocabulary = []string{
	"cash",
	"credit card",
	"credit",
	"debit card",
	"debit",
	"card",
	"transfer",
	"wallet",
	"qr",
	"cheque",
	"check",
}

// Parse tokenizes text into a ParsedInput. On a validation error the
// returned ParsedInput still carries whatever fields were recovered, so
// callers can echo partial data back to the user.
func Parse(text string) (model.ParsedInput, error) {
	var parsed model.ParsedInput

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return parsed, common.ErrEmptyMessage
	}

	start, end := locateAmount(trimmed)
	if start < 0 {
		return parsed, fmt.Errorf("no amount in %q: %w", trimmed, common.ErrFormatNotRecognized)
	}

	rawAmount := trimmed[start:end]
	// A minus immediately before the digit run belongs to the amount.
	if start > 0 && trimmed[start-1] == '-' {
		start--
		rawAmount = trimmed[start:end]
	}

	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return parsed, fmt.Errorf("amount %q: %w", rawAmount, common.ErrFormatNotRecognized)
	}
	parsed.RawAmountText = rawAmount
	parsed.Amount = amount

	parsed.SubjectText = strings.TrimSpace(trimmed[:start])
	parsed.PaymentMethodText = matchPaymentMethod(trimmed[end:])

	if parsed.SubjectText == "" {
		return parsed, fmt.Errorf("text %q: %w", trimmed, common.ErrMissingSubject)
	}

	return parsed, nil
}

// locateAmount returns the byte range of the longest digit run in text,
// breaking equal-length ties toward the first occurrence. Returns (-1, -1)
// when no digits exist.
func locateAmount(text string) (int, int) {
	runs := digitRunPattern.FindAllStringIndex(text, -1)
	if len(runs) == 0 {
		return -1, -1
	}

	best := runs[0]
	for _, run := range runs[1:] {
		if run[1]-run[0] > best[1]-best[0] {
			best = run
		}
	}
	return best[0], best[1]
}

// matchPaymentMethod scans the text after the amount against the method
// vocabulary; the first contained term wins. Unrecognized non-empty
// trailing text becomes the candidate itself.
func matchPaymentMethod(trailing string) string {
	trailing = strings.TrimSpace(strings.ToLower(trailing))
	if trailing == "" {
		return ""
	}

	for _, term := range paymentMethodVocabulary {
		if strings.Contains(trailing, term) {
			return term
		}
	}
	return trailing
}
