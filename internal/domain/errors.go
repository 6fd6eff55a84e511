package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRecord marks an input row without a URL.
	ErrInvalidRecord = errors.New("record has no url")
	// ErrNotFound is returned by stores when a document id is unknown.
	ErrNotFound = errors.New("document not found")
	// ErrFetchFailed marks a retrieval that produced no content.
	ErrFetchFailed = errors.New("fetch failed")
)

// SummarizationError wraps any failure reported by the language-model service.
type SummarizationError struct {
	Cause error
}

func (e *SummarizationError) Error() string {
	if e.Cause == nil {
		return "summarization failed"
	}
	return fmt.Sprintf("summarization failed: %v", e.Cause)
}

func (e *SummarizationError) Unwrap() error {
	return e.Cause
}
