package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"PublicationsImporter/internal/domain"
	"PublicationsImporter/internal/extraction"
	"PublicationsImporter/pkg/textutil"
)

const (
	trackedHeadings   = "h1, h2, h3, h4, h5"
	paragraphFallback = 8
	minParagraphText  = 200
	htmlTextTail      = 8000
)

// HTMLStrategy pulls Results/Discussion/Conclusion sections out of markup.
type HTMLStrategy struct{}

var _ extraction.Strategy = HTMLStrategy{}

// NewHTMLStrategy builds the markup strategy.
func NewHTMLStrategy() HTMLStrategy {
	return HTMLStrategy{}
}

// Kind identifies the strategy inside the registry.
func (HTMLStrategy) Kind() domain.ContentKind {
	return domain.KindHTML
}

// Extract walks the heading chain, then falls back to the trailing paragraphs
// and finally to the tail of the visible text.
func (HTMLStrategy) Extract(content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript").Remove()

	if chunks := collectSectionChunks(doc); len(chunks) > 0 {
		return strings.Join(chunks, "\n\n")
	}

	if last := lastParagraphs(doc, paragraphFallback); textutil.Len(last) > minParagraphText {
		return last
	}

	return textutil.Tail(strings.TrimSpace(doc.Text()), htmlTextTail)
}

// collectSectionChunks returns one chunk per matching heading, in document
// order: the heading text followed by every sibling up to the next tracked heading.
func collectSectionChunks(doc *goquery.Document) []string {
	var chunks []string

	doc.Find(trackedHeadings).Each(func(_ int, heading *goquery.Selection) {
		title := strings.TrimSpace(heading.Text())
		if !IsTargetHeading(title) {
			return
		}

		parts := []string{title}
		for node := heading.Nodes[0].NextSibling; node != nil; node = node.NextSibling {
			if isTrackedHeading(node) {
				break
			}
			if text := strings.TrimSpace(nodeText(node)); text != "" {
				parts = append(parts, text)
			}
		}
		chunks = append(chunks, strings.Join(parts, "\n"))
	})

	return chunks
}

func lastParagraphs(doc *goquery.Document, n int) string {
	var paragraphs []string
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) > n {
		paragraphs = paragraphs[len(paragraphs)-n:]
	}
	return strings.Join(paragraphs, "\n\n")
}

func isTrackedHeading(node *html.Node) bool {
	if node.Type != html.ElementNode {
		return false
	}
	switch strings.ToLower(node.Data) {
	case "h1", "h2", "h3", "h4", "h5":
		return true
	default:
		return false
	}
}

func nodeText(node *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return sb.String()
}
