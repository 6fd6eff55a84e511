package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"PublicationsImporter/internal/domain"
)

type memoryStore struct {
	mu        sync.Mutex
	docs      []domain.StoredDocument
	existsErr error
	appendErr error

	// records between their dedup check and their write
	inFlight    int
	maxInFlight int
}

func (s *memoryStore) ExistsByURL(_ context.Context, url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight++
	s.maxInFlight = max(s.maxInFlight, s.inFlight)
	if s.existsErr != nil {
		return false, s.existsErr
	}
	for _, d := range s.docs {
		if d.URL == url {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryStore) Append(_ context.Context, doc domain.StoredDocument) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--
	if s.appendErr != nil {
		return "", s.appendErr
	}
	doc.ID = fmt.Sprintf("doc-%d", len(s.docs)+1)
	s.docs = append(s.docs, doc)
	return doc.ID, nil
}

func (s *memoryStore) ListRecent(context.Context, int) ([]domain.StoredDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.StoredDocument(nil), s.docs...), nil
}

func (s *memoryStore) Get(_ context.Context, id string) (domain.StoredDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.docs {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.StoredDocument{}, domain.ErrNotFound
}

func (s *memoryStore) peakInFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxInFlight
}

func (s *memoryStore) byURL(url string) []domain.StoredDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.StoredDocument
	for _, d := range s.docs {
		if d.URL == url {
			out = append(out, d)
		}
	}
	return out
}

// fakeFetcher serves canned results.
type fakeFetcher struct {
	results map[string]domain.FetchResult
	delay   time.Duration
	onFetch func(url string)

	calls atomic.Int64
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) domain.FetchResult {
	f.calls.Add(1)
	if f.onFetch != nil {
		f.onFetch(url)
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if res, ok := f.results[url]; ok {
		return res
	}
	return domain.FetchResult{URL: url, Kind: domain.KindHTML, Content: "<p>" + url + "</p>"}
}

type passthroughExtractor struct{}

func (passthroughExtractor) Extract(res domain.FetchResult) string {
	if res.Failed() {
		return ""
	}
	return res.Content
}

type fakeSummarizer struct {
	fail  map[string]bool
	calls atomic.Int64
}

func (s *fakeSummarizer) Summarize(_ context.Context, title, excerpt string) (string, error) {
	s.calls.Add(1)
	if s.fail[title] {
		return "", &domain.SummarizationError{Cause: errors.New("429 rate limited")}
	}
	return "- " + title + ": " + strings.TrimSpace(excerpt), nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (n *recordingNotifier) Publish(_ context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return n.err
}

type staticSource struct {
	records []domain.Record
	err     error
}

func (s staticSource) Load(context.Context, string) ([]domain.Record, error) {
	return s.records, s.err
}
