package records

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"PublicationsImporter/internal/domain"
	"PublicationsImporter/internal/ports"
)

var (
	titleColumns = []string{"title"}
	urlColumns   = []string{"link", "url"}
)

// CSVSource loads records from a delimited file with a header row.
type CSVSource struct {
	logger *slog.Logger
}

var _ ports.RecordSource = (*CSVSource)(nil)

// NewCSVSource creates a record source.
func NewCSVSource(logger *slog.Logger) *CSVSource {
	return &CSVSource{logger: logger}
}

// Load reads the file at path. Files ending in .tsv are tab separated.
func (s *CSVSource) Load(ctx context.Context, path string) ([]domain.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open records file: %w", err)
	}
	defer file.Close()

	delimiter := ','
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		delimiter = '\t'
	}

	records, err := Parse(ctx, file, delimiter)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if s.logger != nil {
		s.logger.Info("records loaded", "path", path, "count", len(records))
	}
	return records, nil
}

// Parse decodes records from r. The first non-empty line is the header;
// empty lines are skipped by the csv reader.
func Parse(ctx context.Context, r io.Reader, delimiter rune) ([]domain.Record, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("records file has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := normalizeHeader(header)
	titleIdx := findColumn(columns, titleColumns)
	urlIdx := findColumn(columns, urlColumns)

	var out []domain.Record
	for row := 1; ; {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}
		fields = pad(fields, len(columns))
		out = append(out, domain.Record{
			Row:   row,
			Title: resolveTitle(fields, titleIdx, row),
			URL:   cell(fields, urlIdx),
		})
		row++
	}

	return out, nil
}

func normalizeHeader(header []string) []string {
	columns := make([]string, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		columns[i] = strings.ToLower(strings.TrimSpace(name))
	}
	return columns
}

func findColumn(columns, aliases []string) int {
	for _, alias := range aliases {
		for i, name := range columns {
			if name == alias {
				return i
			}
		}
	}
	return -1
}

func resolveTitle(fields []string, titleIdx, row int) string {
	if title := cell(fields, titleIdx); title != "" {
		return title
	}
	for _, field := range fields {
		if v := strings.TrimSpace(field); v != "" {
			return v
		}
	}
	return fmt.Sprintf("paper-%d", row)
}

func cell(fields []string, idx int) string {
	if idx < 0 || idx >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[idx])
}

func pad(fields []string, n int) []string {
	for len(fields) < n {
		fields = append(fields, "")
	}
	return fields
}
