package model

import (
	"fmt"
	"strings"
	"time"
)

// CategoryCode identifies an income/expense classification as a
// (major, sub) pair, rendered as "301-01".
type CategoryCode struct {
	Major string
	Sub   string
}

func (c CategoryCode) String() string {
	return c.Major + "-" + c.Sub
}

// IsZero reports whether the code is unset.
func (c CategoryCode) IsZero() bool {
	return c.Major == "" && c.Sub == ""
}

// IsIncome reports whether the code belongs to the income range.
// Major codes beginning with "8" record income; everything else is expense.
func (c CategoryCode) IsIncome() bool {
	return strings.HasPrefix(c.Major, "8")
}

// ParseCategoryCode parses a "major-sub" string into a CategoryCode.
func ParseCategoryCode(s string) (CategoryCode, error) {
	major, sub, found := strings.Cut(s, "-")
	if !found || major == "" || sub == "" {
		return CategoryCode{}, fmt.Errorf("invalid category code %q: want major-sub", s)
	}
	return CategoryCode{Major: major, Sub: sub}, nil
}

// CategoryEntry is one row of a ledger's category dictionary.
// (Major, Sub) is unique within a ledger; Synonyms grow over time through
// synonym learning and are never removed by the pipeline.
type CategoryEntry struct {
	CreatedAt time.Time
	LedgerID  string
	MajorName string
	SubName   string
	Synonyms  []string
	Code      CategoryCode
	IsActive  bool
}
