package parser

import (
	"strings"

	"PublicationsImporter/internal/domain"
	"PublicationsImporter/internal/extraction"
	"PublicationsImporter/pkg/textutil"
)

const (
	minSectionText = 200
	pdfTextTail    = 4000
)

// PDFStrategy scans text already extracted from a PDF, line by line.
type PDFStrategy struct{}

var _ extraction.Strategy = PDFStrategy{}

// NewPDFStrategy builds the line-oriented strategy.
func NewPDFStrategy() PDFStrategy {
	return PDFStrategy{}
}

// Kind identifies the strategy inside the registry.
func (PDFStrategy) Kind() domain.ContentKind {
	return domain.KindPDF
}

// Extract joins the collected sections or falls back to the text tail.
func (PDFStrategy) Extract(text string) string {
	joined := strings.Join(CollectSections(text), "\n\n")
	if textutil.Len(joined) > minSectionText {
		return joined
	}
	return textutil.Tail(text, pdfTextTail)
}

// CollectSections returns the wanted sections in document order. A section
// opens on a target line and closes on the next probable heading; a closing
// heading that mentions a target opens the next section itself. A target line
// met while a section is still open restarts that section, dropping what it
// had gathered.
func CollectSections(text string) []string {
	var (
		sections   []string
		buffer     []string
		collecting bool
	)

	flush := func() {
		if len(buffer) > 0 {
			sections = append(sections, strings.Join(buffer, "\n"))
		}
		buffer = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		if IsTargetLine(line) {
			collecting = true
			buffer = []string{line}
			continue
		}
		if !collecting {
			continue
		}

		if IsProbableHeading(line) {
			flush()
			collecting = false
			if MentionsTarget(line) {
				collecting = true
				buffer = []string{line}
			}
			continue
		}
		buffer = append(buffer, line)
	}
	flush()

	return sections
}
