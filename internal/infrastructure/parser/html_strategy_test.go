package parser

import (
	"fmt"
	"strings"
	"testing"
)

func TestHTMLStrategyCollectsResultsUntilNextHeading(t *testing.T) {
	t.Parallel()

	page := `
	<html><body>
	  <h1>Bone loss in spaceflight</h1>
	  <p>Intro text that should not appear.</p>
	  <h2>Results</h2>
	  <p>Mice lost trabecular bone after thirty days.</p>
	  <p>Osteoclast activity increased in flight animals.</p>
	  <h2>References</h2>
	  <p>Smith J. Previous work. 2019.</p>
	</body></html>`

	got := NewHTMLStrategy().Extract(page)
	want := "Results\nMice lost trabecular bone after thirty days.\nOsteoclast activity increased in flight animals."
	if got != want {
		t.Fatalf("unexpected excerpt:\n%q\nwant\n%q", got, want)
	}
}

func TestHTMLStrategyKeepsHeadingOrder(t *testing.T) {
	t.Parallel()

	page := `<body>
	<h2>Results</h2><p>First finding.</p>
	<h2>Methods</h2><p>Not wanted.</p>
	<h3>Conclusions</h3><p>Final remark.</p><div>Trailing <b>block</b> text.</div>
	</body>`

	got := NewHTMLStrategy().Extract(page)
	want := "Results\nFirst finding.\n\nConclusions\nFinal remark.\nTrailing block text."
	if got != want {
		t.Fatalf("unexpected excerpt:\n%q\nwant\n%q", got, want)
	}
}

func TestHTMLStrategyIgnoresScripts(t *testing.T) {
	t.Parallel()

	page := `<body><h2>Discussion</h2><script>var x = 1;</script><p>Body.</p></body>`

	got := NewHTMLStrategy().Extract(page)
	if strings.Contains(got, "var x") {
		t.Fatalf("script text leaked into excerpt: %q", got)
	}
	if got != "Discussion\nBody." {
		t.Fatalf("unexpected excerpt: %q", got)
	}
}

func TestHTMLStrategyParagraphFallback(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	sb.WriteString("<body><h2>Background</h2>")
	paragraphs := make([]string, 0, 10)
	for i := 1; i <= 10; i++ {
		text := fmt.Sprintf("Paragraph %02d describes an observation made aboard the station.", i)
		paragraphs = append(paragraphs, text)
		sb.WriteString("<p>" + text + "</p>")
	}
	sb.WriteString("</body>")

	got := NewHTMLStrategy().Extract(sb.String())
	want := strings.Join(paragraphs[2:], "\n\n")
	if got != want {
		t.Fatalf("unexpected fallback excerpt:\n%q\nwant\n%q", got, want)
	}
}

func TestHTMLStrategyWholeTextFallback(t *testing.T) {
	t.Parallel()

	page := `<html><head><style>p{}</style></head><body><p>One.</p><p>Two.</p><p>Three.</p></body></html>`

	got := NewHTMLStrategy().Extract(page)
	if got != "One.Two.Three." {
		t.Fatalf("unexpected whole-text fallback: %q", got)
	}
}

func TestHTMLStrategyWholeTextIsBoundedToTail(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 9000) + "END"
	got := NewHTMLStrategy().Extract("<body><div>" + long + "</div></body>")
	if len(got) != htmlTextTail {
		t.Fatalf("expected %d characters, got %d", htmlTextTail, len(got))
	}
	if !strings.HasSuffix(got, "END") {
		t.Fatalf("expected the tail of the text, got suffix %q", got[len(got)-10:])
	}
}
