package domain

import "time"

// Excerpt and prompt ceilings, counted in characters (runes).
const (
	MaxStoredExcerpt = 4000
	MaxSummaryInput  = 20000
)

// Record is one input row pointing to a publication.
type Record struct {
	Row   int
	Title string
	URL   string
}

// Valid reports whether the record can be processed at all.
func (r Record) Valid() bool {
	return r.URL != ""
}

// ContentKind classifies a fetched payload.
type ContentKind string

const (
	KindHTML   ContentKind = "html"
	KindPDF    ContentKind = "pdf"
	KindOpaque ContentKind = "opaque"
	KindNone   ContentKind = "none"
)

// FetchResult carries the decoded payload of a retrieval attempt.
// Content is markup for HTML, extracted plain text for PDF and the raw body
// for opaque payloads. Kind == KindNone means the retrieval failed.
type FetchResult struct {
	URL         string
	ContentType string
	Kind        ContentKind
	Content     string
}

// Failed reports whether no usable content was retrieved.
func (f FetchResult) Failed() bool {
	return f.Kind == KindNone || f.Kind == ""
}

// StoredDocument is the persisted unit, one per distinct URL.
// Empty Excerpt, Summary and Error mean the field is absent.
type StoredDocument struct {
	ID          string      `json:"id" yaml:"id"`
	Title       string      `json:"title" yaml:"title"`
	URL         string      `json:"url" yaml:"url"`
	Fetched     bool        `json:"fetched" yaml:"fetched"`
	ContentKind ContentKind `json:"contentKind,omitempty" yaml:"contentKind,omitempty"`
	Excerpt     string      `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	Summary     string      `json:"summary,omitempty" yaml:"summary,omitempty"`
	Error       string      `json:"error,omitempty" yaml:"error,omitempty"`
	CreatedAt   time.Time   `json:"createdAt" yaml:"createdAt"`
}
