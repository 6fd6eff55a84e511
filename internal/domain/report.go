package domain

import "time"

// OutcomeStatus enumerates the terminal states of a record pipeline.
type OutcomeStatus string

const (
	StatusInvalid         OutcomeStatus = "invalid"
	StatusDuplicate       OutcomeStatus = "duplicate"
	StatusFetchFailed     OutcomeStatus = "fetch_failed"
	StatusSummarizeFailed OutcomeStatus = "summarize_failed"
	StatusSucceeded       OutcomeStatus = "succeeded"
	StatusStoreFailed     OutcomeStatus = "store_failed"
	// StatusCancelled marks a record abandoned because the batch context
	// ended. Nothing is stored so a later run retries it.
	StatusCancelled OutcomeStatus = "cancelled"
)

// Statuses lists every terminal status in reporting order.
var Statuses = []OutcomeStatus{
	StatusSucceeded,
	StatusDuplicate,
	StatusInvalid,
	StatusFetchFailed,
	StatusSummarizeFailed,
	StatusStoreFailed,
	StatusCancelled,
}

// Persisted reports whether the status implies a store write happened.
func (s OutcomeStatus) Persisted() bool {
	switch s {
	case StatusSucceeded, StatusFetchFailed, StatusSummarizeFailed:
		return true
	default:
		return false
	}
}

// RecordOutcome is the terminal result of one record.
type RecordOutcome struct {
	Record     Record
	Status     OutcomeStatus
	DocumentID string
	Err        error
}

// BatchReport tallies a batch run. Outcomes keep input order.
type BatchReport struct {
	Outcomes   []RecordOutcome
	StartedAt  time.Time
	FinishedAt time.Time
}

// Count returns how many records ended in the given status.
func (r BatchReport) Count(status OutcomeStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Counts returns per-status totals, including zero entries.
func (r BatchReport) Counts() map[OutcomeStatus]int {
	counts := make(map[OutcomeStatus]int, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	for _, o := range r.Outcomes {
		counts[o.Status]++
	}
	return counts
}

// Failures returns the outcomes that did not succeed and were not plain skips.
func (r BatchReport) Failures() []RecordOutcome {
	var failed []RecordOutcome
	for _, o := range r.Outcomes {
		switch o.Status {
		case StatusSucceeded, StatusDuplicate:
			continue
		}
		failed = append(failed, o)
	}
	return failed
}

// Total is the number of records attempted.
func (r BatchReport) Total() int {
	return len(r.Outcomes)
}
