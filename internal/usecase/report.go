package usecase

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"PublicationsImporter/internal/domain"
)

// maxReportedFailures caps the failure lines in a notification.
const maxReportedFailures = 10

// LogReport writes the per-status tally and one line per failure.
func LogReport(logger *slog.Logger, report domain.BatchReport) {
	if logger == nil {
		return
	}

	counts := report.Counts()
	stored := 0
	for _, o := range report.Outcomes {
		if o.Status.Persisted() {
			stored++
		}
	}
	attrs := []any{
		"total", report.Total(),
		"stored", stored,
		"duration", report.FinishedAt.Sub(report.StartedAt).String(),
	}
	for _, status := range domain.Statuses {
		attrs = append(attrs, string(status), counts[status])
	}
	logger.Info("batch finished", attrs...)

	for _, o := range report.Failures() {
		logger.Debug("record not imported cleanly",
			"row", o.Record.Row,
			"url", o.Record.URL,
			"status", o.Status,
			"error", o.Err,
		)
	}
}

// FormatReport renders a plain-text batch summary for chat delivery.
func FormatReport(source string, report domain.BatchReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Publications import: %s\n", source)
	fmt.Fprintf(&b, "%d records in %s\n", report.Total(), report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))

	counts := report.Counts()
	for _, status := range domain.Statuses {
		if counts[status] == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s: %d\n", status, counts[status])
	}

	failures := report.Failures()
	if len(failures) == 0 {
		return strings.TrimRight(b.String(), "\n")
	}

	b.WriteString("\nFailures:\n")
	for i, o := range failures {
		if i == maxReportedFailures {
			fmt.Fprintf(&b, "... and %d more\n", len(failures)-maxReportedFailures)
			break
		}
		target := o.Record.URL
		if target == "" {
			target = o.Record.Title
		}
		fmt.Fprintf(&b, "- row %d [%s] %s\n", o.Record.Row, o.Status, target)
	}

	return strings.TrimRight(b.String(), "\n")
}
