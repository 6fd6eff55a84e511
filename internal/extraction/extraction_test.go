package extraction

import (
	"strings"
	"testing"

	"PublicationsImporter/internal/domain"
)

type stubStrategy struct {
	kind domain.ContentKind
	out  string
}

func (s stubStrategy) Kind() domain.ContentKind { return s.kind }
func (s stubStrategy) Extract(string) string    { return s.out }

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(stubStrategy{kind: domain.KindHTML, out: "html"})

	s, err := reg.Resolve(domain.KindHTML)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if s.Extract("") != "html" {
		t.Fatalf("unexpected strategy resolved")
	}

	if _, err := reg.Resolve(domain.KindPDF); err == nil {
		t.Fatalf("expected error for unregistered kind without opaque fallback")
	}
}

func TestRegistryResolveFallsBackToOpaque(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(stubStrategy{kind: domain.KindOpaque, out: "opaque"})

	s, err := reg.Resolve(domain.KindPDF)
	if err != nil || s.Extract("") != "opaque" {
		t.Fatalf("expected opaque fallback for pdf, got %v", err)
	}
	if _, err := reg.Resolve(domain.KindNone); err == nil {
		t.Fatalf("expected failed fetches to resolve to no strategy")
	}
}

func TestExtractorAppliesFloor(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(stubStrategy{kind: domain.KindHTML, out: "too short"})
	ex := NewExtractor(reg, nil)

	raw := strings.Repeat("r", 5000) + "TAIL"
	got := ex.Extract(domain.FetchResult{Kind: domain.KindHTML, Content: raw})
	if len(got) != FloorTail {
		t.Fatalf("expected floor of %d characters, got %d", FloorTail, len(got))
	}
	if !strings.HasSuffix(got, "TAIL") {
		t.Fatalf("expected trailing slice of raw content")
	}
}

func TestExtractorKeepsLongExcerpt(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("e", MinExcerpt)
	reg := NewRegistry()
	reg.Register(stubStrategy{kind: domain.KindPDF, out: long})

	got := NewExtractor(reg, nil).Extract(domain.FetchResult{Kind: domain.KindPDF, Content: "raw"})
	if got != long {
		t.Fatalf("expected strategy output to be kept, got %q", got)
	}
}

func TestExtractorFallsBackToOpaque(t *testing.T) {
	t.Parallel()

	want := strings.Repeat("o", 100)
	reg := NewRegistry()
	reg.Register(stubStrategy{kind: domain.KindOpaque, out: want})

	got := NewExtractor(reg, nil).Extract(domain.FetchResult{Kind: domain.KindHTML, Content: "x"})
	if got != want {
		t.Fatalf("expected opaque strategy output, got %q", got)
	}
}

func TestExtractorFailedFetch(t *testing.T) {
	t.Parallel()

	got := NewExtractor(NewRegistry(), nil).Extract(domain.FetchResult{Kind: domain.KindNone})
	if got != "" {
		t.Fatalf("expected empty excerpt for failed fetch, got %q", got)
	}
}

func TestApplyFloor(t *testing.T) {
	t.Parallel()

	if got := ApplyFloor("", "short raw"); got != "short raw" {
		t.Fatalf("expected raw text when excerpt is empty, got %q", got)
	}
	if got := ApplyFloor("", ""); got != "" {
		t.Fatalf("expected empty result without raw text, got %q", got)
	}
}
