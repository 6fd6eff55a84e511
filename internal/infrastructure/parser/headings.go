package parser

import "strings"

// htmlTargets is the vocabulary matched against HTML heading text.
var htmlTargets = []string{"results", "result", "discussion", "conclusion", "conclusions", "results and discussion"}

// pdfTargets is the vocabulary matched against plain-text lines.
var pdfTargets = []string{"results", "result", "discussion", "conclusion", "conclusions"}

// IsTargetHeading reports whether an HTML heading names a wanted section.
func IsTargetHeading(text string) bool {
	low := strings.ToLower(strings.TrimSpace(text))
	if low == "" {
		return false
	}
	for _, w := range htmlTargets {
		if strings.Contains(low, w) {
			return true
		}
	}
	return false
}

// IsTargetLine reports whether a plain-text line opens a wanted section:
// the line is the section name, starts with it followed by a space, or
// carries it as a "name:" label.
func IsTargetLine(line string) bool {
	low := strings.ToLower(strings.TrimSpace(line))
	if low == "" {
		return false
	}
	for _, w := range pdfTargets {
		if low == w || strings.HasPrefix(low, w+" ") || strings.Contains(low, w+":") {
			return true
		}
	}
	return false
}

// MentionsTarget is the looser check applied to a heading that closes a
// section: any occurrence of a section name restarts collection.
func MentionsTarget(line string) bool {
	low := strings.ToLower(strings.TrimSpace(line))
	for _, w := range pdfTargets {
		if strings.Contains(low, w) {
			return true
		}
	}
	return false
}

// IsProbableHeading detects headings in text that has no markup: a
// non-empty, fully upper-case line between 2 and 119 characters.
// Lines without letters ("12", "---") count as upper-case and match too.
func IsProbableHeading(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || line != strings.ToUpper(line) {
		return false
	}
	n := len([]rune(line))
	return n > 1 && n < 120
}
