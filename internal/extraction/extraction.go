package extraction

import (
	"fmt"
	"log/slog"

	"PublicationsImporter/internal/domain"
	"PublicationsImporter/internal/ports"
	"PublicationsImporter/pkg/textutil"
)

const (
	// MinExcerpt is the shortest excerpt accepted before the floor applies.
	MinExcerpt = 80
	// FloorTail is how much trailing content replaces a too-short excerpt.
	FloorTail = 3000
)

// Strategy captures a single format-specific extraction (HTML, PDF, etc.).
type Strategy interface {
	Kind() domain.ContentKind
	Extract(content string) string
}

// Registry keeps a mapping from content kinds to their strategies.
type Registry struct {
	strategies map[domain.ContentKind]Strategy
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: map[domain.ContentKind]Strategy{}}
}

// Register adds or replaces a strategy implementation.
func (r *Registry) Register(strategy Strategy) {
	if r.strategies == nil {
		r.strategies = map[domain.ContentKind]Strategy{}
	}
	r.strategies[strategy.Kind()] = strategy
}

// Resolve picks the strategy for kind. Kinds without their own strategy are
// treated as opaque payloads; a failed fetch has nothing to extract.
func (r *Registry) Resolve(kind domain.ContentKind) (Strategy, error) {
	if kind == domain.KindNone {
		return nil, fmt.Errorf("no content to extract for kind %q", kind)
	}
	if strategy, ok := r.strategies[kind]; ok {
		return strategy, nil
	}
	if strategy, ok := r.strategies[domain.KindOpaque]; ok {
		return strategy, nil
	}
	return nil, fmt.Errorf("no extraction strategy for %q and no opaque fallback", kind)
}

// Extractor dispatches fetched content to the matching strategy and
// guarantees a usable excerpt whenever any content exists.
type Extractor struct {
	registry *Registry
	logger   *slog.Logger
}

var _ ports.Extractor = (*Extractor)(nil)

// NewExtractor wires a registry.
func NewExtractor(reg *Registry, logger *slog.Logger) *Extractor {
	return &Extractor{registry: reg, logger: logger}
}

// Extract returns the excerpt for a successful fetch, or "" for a failed one.
func (e *Extractor) Extract(result domain.FetchResult) string {
	if result.Failed() {
		return ""
	}

	excerpt := ""
	if strategy, err := e.registry.Resolve(result.Kind); err == nil {
		excerpt = strategy.Extract(result.Content)
	} else {
		e.debug("no strategy registered", "kind", result.Kind, "url", result.URL, "error", err)
	}

	return ApplyFloor(excerpt, result.Content)
}

// ApplyFloor replaces an empty or too-short excerpt with the trailing slice of
// the original content.
func ApplyFloor(excerpt, original string) string {
	if textutil.Len(excerpt) >= MinExcerpt {
		return excerpt
	}
	return textutil.Tail(original, FloorTail)
}

func (e *Extractor) debug(msg string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
