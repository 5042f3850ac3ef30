package model

import "github.com/shopspring/decimal"

// Action indicates whether a draft records income or an expense.
type Action string

const (
	// ActionIncome records money coming in.
	ActionIncome Action = "income"
	// ActionExpense records money going out.
	ActionExpense Action = "expense"
)

// TransactionDraft is a validated, categorized entry ready for the ledger
// store. ProcessID is a fresh per-attempt correlation token; it is
// regenerated on every retry.
type TransactionDraft struct {
	SubjectText         string
	OriginalSubjectText string
	CategoryName        string
	PaymentMethod       string
	RemarkText          string
	ProcessID           string
	UserID              string
	LedgerID            string
	Action              Action
	CategoryCode        CategoryCode
	Amount              decimal.Decimal
}
