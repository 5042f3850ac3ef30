package model

import "github.com/shopspring/decimal"

// ParsedInput is the tokenized form of one raw message. It is produced once
// per message and never mutated afterwards.
type ParsedInput struct {
	SubjectText       string
	RawAmountText     string
	PaymentMethodText string
	Amount            decimal.Decimal
}

// HasPaymentMethod reports whether the user typed anything after the amount.
func (p ParsedInput) HasPaymentMethod() bool {
	return p.PaymentMethodText != ""
}
