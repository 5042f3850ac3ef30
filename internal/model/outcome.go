package model

import "time"

// ErrorKind classifies a failed dispatch for the response formatter.
type ErrorKind string

// Error kinds surfaced by the pipeline.
const (
	ErrorKindNone                ErrorKind = ""
	ErrorKindEmptyMessage        ErrorKind = "EMPTY_MESSAGE"
	ErrorKindFormatNotRecognized ErrorKind = "FORMAT_NOT_RECOGNIZED"
	ErrorKindMissingSubject      ErrorKind = "MISSING_SUBJECT"
	ErrorKindUnknownSubject      ErrorKind = "UNKNOWN_SUBJECT"
	ErrorKindCommitFailed        ErrorKind = "COMMIT_FAILED"
	ErrorKindMaxRetriesExceeded  ErrorKind = "MAX_RETRIES_EXCEEDED"
)

// CommitReceipt is the ledger store's acknowledgment of an accepted entry.
type CommitReceipt struct {
	CommittedAt time.Time
	EntryID     string
}

// PartialData is the best-effort reconstruction of what the user typed,
// carried on every outcome so failures still echo usable fields back.
type PartialData struct {
	SubjectText       string
	RawAmountText     string
	PaymentMethodText string
}

// DispatchOutcome is the terminal result of one distribute call, successful
// or not. It drives both the retry policy and the response formatter.
type DispatchOutcome struct {
	Receipt    *CommitReceipt
	Draft      *TransactionDraft
	Resolution *ResolutionResult
	Message    string
	ErrorKind  ErrorKind
	Partial    PartialData
	Attempts   int
	Success    bool
	Retryable  bool
}
