package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitesail/pennybook/internal/common"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantSubject string
		wantRaw     string
		wantAmount  string
		wantPayment string
		wantErr     error
	}{
		{
			name:        "subject amount and payment method",
			input:       "lunch 250 cash",
			wantSubject: "lunch",
			wantRaw:     "250",
			wantAmount:  "250",
			wantPayment: "cash",
		},
		{
			name:        "no payment method",
			input:       "taxi fare 180",
			wantSubject: "taxi fare",
			wantRaw:     "180",
			wantAmount:  "180",
		},
		{
			name:        "negative amount keeps sign",
			input:       "refund -300",
			wantSubject: "refund",
			wantRaw:     "-300",
			wantAmount:  "-300",
		},
		{
			name:        "longest digit run wins",
			input:       "room 12 cleaning 4500",
			wantSubject: "room 12 cleaning",
			wantRaw:     "4500",
			wantAmount:  "4500",
		},
		{
			name:        "equal length runs pick the first",
			input:       "bus 120 not 340",
			wantSubject: "bus",
			wantRaw:     "120",
			wantAmount:  "120",
			wantPayment: "not 340",
		},
		{
			name:        "vocabulary match inside trailing text",
			input:       "dinner 800 paid by credit card",
			wantSubject: "dinner",
			wantRaw:     "800",
			wantAmount:  "800",
			wantPayment: "credit card",
		},
		{
			name:        "unknown trailing text passes through",
			input:       "groceries 1200 mompay",
			wantSubject: "groceries",
			wantRaw:     "1200",
			wantAmount:  "1200",
			wantPayment: "mompay",
		},
		{
			name:    "empty message",
			input:   "   ",
			wantErr: common.ErrEmptyMessage,
		},
		{
			name:    "no digits",
			input:   "lunch money please",
			wantErr: common.ErrFormatNotRecognized,
		},
		{
			name:    "amount without subject",
			input:   "25000",
			wantErr: common.ErrMissingSubject,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Parse(tt.input)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSubject, parsed.SubjectText)
			assert.Equal(t, tt.wantRaw, parsed.RawAmountText)
			assert.Equal(t, tt.wantAmount, parsed.Amount.String())
			assert.Equal(t, tt.wantPayment, parsed.PaymentMethodText)
		})
	}
}

func TestParsePartialDataOnMissingSubject(t *testing.T) {
	parsed, err := Parse("25000")

	require.ErrorIs(t, err, common.ErrMissingSubject)
	assert.Equal(t, "25000", parsed.RawAmountText)
	assert.Equal(t, "25000", parsed.Amount.String())
}

func TestParseSubjectAndAmountDoNotOverlap(t *testing.T) {
	inputs := []string{"lunch 250 cash", "coffee 80", "rent 45000 transfer", "a1b 22"}

	for _, input := range inputs {
		parsed, err := Parse(input)
		if err != nil {
			continue
		}
		assert.NotContains(t, parsed.SubjectText, parsed.RawAmountText, "input %q", input)
	}
}
