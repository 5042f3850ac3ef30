package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kitesail/pennybook/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidDraft = errors.New("invalid draft")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateDraft validates a draft before commit.
func validateDraft(draft *model.TransactionDraft) error {
	if draft == nil {
		return fmt.Errorf("%w: draft", ErrNilParameter)
	}
	if draft.LedgerID == "" {
		return fmt.Errorf("%w: missing ledger id", ErrInvalidDraft)
	}
	if draft.UserID == "" {
		return fmt.Errorf("%w: missing user id", ErrInvalidDraft)
	}
	if draft.CategoryCode.IsZero() {
		return fmt.Errorf("%w: missing category code", ErrInvalidDraft)
	}
	if draft.Action != model.ActionIncome && draft.Action != model.ActionExpense {
		return fmt.Errorf("%w: action must be income or expense", ErrInvalidDraft)
	}
	if draft.Amount.IsNegative() {
		return fmt.Errorf("%w: amount cannot be negative at commit", ErrInvalidDraft)
	}
	return nil
}
