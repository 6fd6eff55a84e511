package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"PublicationsImporter/internal/config"
	"PublicationsImporter/internal/domain"
	"PublicationsImporter/internal/ports"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultUserAgent    = "PublicationsImporter/1.0"
	defaultMaxBodyBytes = 50 << 20
	sniffLen            = 512
)

// PDFDecoder turns a PDF payload into plain text.
type PDFDecoder interface {
	DecodeText(data []byte) (string, error)
}

// HTTPFetcher implements ports.Fetcher with a bounded-time GET.
type HTTPFetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
	pdf          PDFDecoder
	logger       *slog.Logger
}

var _ ports.Fetcher = (*HTTPFetcher)(nil)

// New builds a fetcher from configuration; a nil decoder selects the
// built-in PDF text decoder.
func New(cfg config.FetcherConfig, decoder PDFDecoder, logger *slog.Logger) *HTTPFetcher {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	if decoder == nil {
		decoder = NewPDFTextDecoder()
	}

	return &HTTPFetcher{
		client:       &http.Client{Timeout: timeout},
		userAgent:    userAgent,
		maxBodyBytes: maxBody,
		pdf:          decoder,
		logger:       logger,
	}
}

// Fetch retrieves the document and classifies it. Every failure collapses
// into a KindNone result.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) domain.FetchResult {
	result, err := f.fetch(ctx, rawURL)
	if err != nil {
		f.warn("fetch failed", "url", rawURL, "error", err)
		return domain.FetchResult{URL: rawURL, Kind: domain.KindNone}
	}
	return result
}

func (f *HTTPFetcher) fetch(ctx context.Context, rawURL string) (domain.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return domain.FetchResult{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.FetchResult{}, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.FetchResult{}, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		return domain.FetchResult{}, fmt.Errorf("read body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	kind := Classify(rawURL, contentType, body)

	var content string
	switch kind {
	case domain.KindPDF:
		content, err = f.pdf.DecodeText(body)
		if err != nil {
			return domain.FetchResult{}, fmt.Errorf("decode pdf: %w", err)
		}
	default:
		content, err = decodeUTF8(body, contentType)
		if err != nil {
			return domain.FetchResult{}, fmt.Errorf("decode body: %w", err)
		}
	}

	f.debug("fetched", "url", rawURL, "kind", kind, "bytes", len(body))
	return domain.FetchResult{
		URL:         rawURL,
		ContentType: contentType,
		Kind:        kind,
		Content:     content,
	}, nil
}

// Classify decides the content kind: PDF by header or extension first, then
// markup by header or sniffing, otherwise opaque.
func Classify(rawURL, contentType string, body []byte) domain.ContentKind {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "pdf") || hasPDFExtension(rawURL) {
		return domain.KindPDF
	}
	if strings.Contains(ct, "html") || looksLikeMarkup(body) {
		return domain.KindHTML
	}
	return domain.KindOpaque
}

func hasPDFExtension(rawURL string) bool {
	path := rawURL
	if parsed, err := url.Parse(rawURL); err == nil && parsed.Path != "" {
		path = parsed.Path
	}
	return strings.HasSuffix(strings.ToLower(path), ".pdf")
}

var markupPrefixes = [][]byte{
	[]byte("<!doctype html"),
	[]byte("<html"),
	[]byte("<head"),
	[]byte("<body"),
}

func looksLikeMarkup(body []byte) bool {
	head := body
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	if strings.HasPrefix(http.DetectContentType(head), "text/html") {
		return true
	}
	lower := bytes.ToLower(head)
	for _, prefix := range markupPrefixes {
		if bytes.Contains(lower, prefix) {
			return true
		}
	}
	return false
}

func decodeUTF8(body []byte, contentType string) (string, error) {
	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return string(body), nil
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

func (f *HTTPFetcher) debug(msg string, args ...interface{}) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}

func (f *HTTPFetcher) warn(msg string, args ...interface{}) {
	if f.logger != nil {
		f.logger.Warn(msg, args...)
	}
}
