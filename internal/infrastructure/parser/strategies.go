package parser

import (
	"PublicationsImporter/internal/domain"
	"PublicationsImporter/internal/extraction"
	"PublicationsImporter/pkg/textutil"
)

const plainTextHead = 8000

// PlainStrategy keeps the head of payloads that are neither markup nor PDF.
type PlainStrategy struct{}

var _ extraction.Strategy = PlainStrategy{}

// Kind identifies the strategy inside the registry.
func (PlainStrategy) Kind() domain.ContentKind {
	return domain.KindOpaque
}

// Extract returns the first characters verbatim.
func (PlainStrategy) Extract(content string) string {
	return textutil.Head(content, plainTextHead)
}

// NewRegistry registers the HTML, PDF and plain strategies.
func NewRegistry() *extraction.Registry {
	reg := extraction.NewRegistry()
	reg.Register(NewHTMLStrategy())
	reg.Register(NewPDFStrategy())
	reg.Register(PlainStrategy{})
	return reg
}
