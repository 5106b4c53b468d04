// Package redact provides deterministic PII scanning and redaction of
// resume text. It runs before any text reaches the scorer and never makes
// external calls.
package redact

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// piiPatterns maps a PII category to its detection pattern.
var piiPatterns = map[string]*regexp.Regexp{
	"email":   regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),
	"phone":   regexp.MustCompile(`(?:\+?\d[\s\-()]?){7,}\d`),
	"ssn":     regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
	"address": regexp.MustCompile(`\b\d+\s+\w+(?:\s+\w+)?\s+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Way|Court|Ct)\b`),
}

// redactOrder fixes the replacement order. SSN goes before phone because
// the phone pattern also matches dash-separated SSNs; a stable order keeps
// redaction deterministic.
var redactOrder = []string{"ssn", "email", "phone", "address"}

// Report is the result of a PII scan: unique matches per category.
type Report struct {
	Found map[string][]string `json:"found"`
	Count int                 `json:"count"`
}

// Counts returns the number of unique matches per category, the form
// consumed by the bias auditor's pii_scan probe.
func (r Report) Counts() map[string]int {
	counts := make(map[string]int, len(r.Found))
	for category, items := range r.Found {
		counts[category] = len(items)
	}
	return counts
}

// Scan finds PII matches in text, deduplicated per category.
func Scan(text string) Report {
	report := Report{Found: map[string][]string{}}
	for category, pattern := range piiPatterns {
		matches := pattern.FindAllString(text, -1)
		if len(matches) == 0 {
			continue
		}
		seen := make(map[string]bool, len(matches))
		var unique []string
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				unique = append(unique, m)
			}
		}
		sort.Strings(unique)
		report.Found[category] = unique
		report.Count += len(unique)
	}
	return report
}

// Redact replaces every scanned match with its category token, e.g.
// <REDACTED_EMAIL>.
func Redact(text string, report Report) string {
	redacted := text
	for _, category := range redactOrder {
		token := fmt.Sprintf("<REDACTED_%s>", strings.ToUpper(category))
		for _, item := range report.Found[category] {
			redacted = strings.ReplaceAll(redacted, item, token)
		}
	}
	return redacted
}

// PrepareForScoring scrubs injection attempts and redacts PII. This is the
// only path by which resume text may reach the scorer.
func PrepareForScoring(text string) string {
	scrubbed := ScrubInjection(text)
	return Redact(scrubbed, Scan(scrubbed))
}
