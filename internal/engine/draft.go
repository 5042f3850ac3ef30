// Package engine implements the drafting and dispatch core that turns a raw
// chat message into a committed ledger entry.
package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kitesail/pennybook/internal/common"
	"github.com/kitesail/pennybook/internal/model"
)

// defaultPaymentMethod is assigned when the user typed no method and the
// resolved major code starts with "8" or "9". Everything else passes
// through for the ledger store's whitelist to validate.
const defaultPaymentMethod = "cash"

// Draft combines a parsed message and a resolution into a validated
// transaction draft. A nil resolution is the unknown-subject business error.
//
// Negative amounts are accepted: the sign stays visible in the parsed raw
// text, but the draft stores the absolute value and the action comes from
// the category major code alone.
func Draft(raw model.RawMessage, parsed model.ParsedInput, resolution *model.ResolutionResult) (*model.TransactionDraft, error) {
	if resolution == nil {
		return nil, fmt.Errorf("subject %q: %w", parsed.SubjectText, common.ErrUnknownSubject)
	}

	action := model.ActionExpense
	if resolution.Code.IsIncome() {
		action = model.ActionIncome
	}

	paymentMethod := parsed.PaymentMethodText
	if paymentMethod == "" && defaultsPaymentMethod(resolution.Code) {
		paymentMethod = defaultPaymentMethod
	}

	return &model.TransactionDraft{
		SubjectText:         resolution.CategoryName,
		OriginalSubjectText: parsed.SubjectText,
		CategoryCode:        resolution.Code,
		CategoryName:        resolution.CategoryName,
		Amount:              parsed.Amount.Abs(),
		Action:              action,
		PaymentMethod:       paymentMethod,
		RemarkText:          extractRemark(raw.Text, parsed),
		ProcessID:           newProcessID(),
		UserID:              raw.UserID,
		LedgerID:            raw.LedgerID,
	}, nil
}

func defaultsPaymentMethod(code model.CategoryCode) bool {
	return strings.HasPrefix(code.Major, "8") || strings.HasPrefix(code.Major, "9")
}

// extractRemark strips the matched amount and payment token from the
// original text. When either cannot be located unambiguously the full
// original text is preserved unmodified; remark extraction never fails.
func extractRemark(original string, parsed model.ParsedInput) string {
	remark := original

	if parsed.RawAmountText != "" {
		if strings.Count(remark, parsed.RawAmountText) != 1 {
			return strings.TrimSpace(original)
		}
		remark = strings.Replace(remark, parsed.RawAmountText, "", 1)
	}

	if parsed.PaymentMethodText != "" {
		lower := strings.ToLower(remark)
		if idx := strings.Index(lower, parsed.PaymentMethodText); idx >= 0 {
			remark = remark[:idx] + remark[idx+len(parsed.PaymentMethodText):]
		}
	}

	return strings.Join(strings.Fields(remark), " ")
}

// newProcessID returns a short per-attempt correlation token.
func newProcessID() string {
	return uuid.NewString()[:8]
}
