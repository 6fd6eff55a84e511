package fetcher

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
)

// minLineGap is the smallest vertical move, in points, that starts a new line.
const minLineGap = 1.0

// PDFTextDecoder extracts plain text with github.com/ledongthuc/pdf.
type PDFTextDecoder struct{}

// NewPDFTextDecoder creates the default decoder.
func NewPDFTextDecoder() *PDFTextDecoder {
	return &PDFTextDecoder{}
}

// DecodeText reads every page and returns one output line per visual text
// line. Lines are rebuilt from glyph positions because the library's plain
// text output drops the line breaks most generators encode as Td moves.
func (d *PDFTextDecoder) DecodeText(data []byte) (text string, err error) {
	// the parser panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		writeLines(&b, page.Content().Text)
	}

	return strings.TrimSpace(b.String()), nil
}

// writeLines appends glyphs in content-stream order, breaking whenever the
// baseline moves by more than half the glyph height.
func writeLines(b *strings.Builder, glyphs []pdf.Text) {
	var line strings.Builder
	flush := func() {
		if s := strings.TrimSpace(line.String()); s != "" {
			b.WriteString(s)
			b.WriteByte('\n')
		}
		line.Reset()
	}

	lastY := math.NaN()
	for _, g := range glyphs {
		// TJ arrays end with a synthetic newline glyph
		if g.S == "" || strings.ContainsAny(g.S, "\r\n") {
			continue
		}
		gap := math.Max(minLineGap, math.Abs(g.FontSize)/2)
		if !math.IsNaN(lastY) && math.Abs(g.Y-lastY) > gap {
			flush()
		}
		lastY = g.Y
		line.WriteString(g.S)
	}
	flush()
}
