package redact

import (
	"regexp"
	"strings"
)

// injectionPatterns match lines that attempt to smuggle instructions to the
// scoring model inside resume text.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*(SYSTEM|ASSISTANT|DEVELOPER)\s*:`),
	regexp.MustCompile(`(?i)ignore (all )?previous instructions`),
	regexp.MustCompile(`(?i)assign score\s*=\s*1\.0`),
	regexp.MustCompile(`(?i)you will (?:comply|follow|always)`),
}

// ScrubInjection drops every line matching a known injection pattern.
func ScrubInjection(text string) string {
	if text == "" {
		return ""
	}
	var keep []string
	for _, line := range strings.Split(text, "\n") {
		if matchesInjection(line) {
			continue
		}
		keep = append(keep, line)
	}
	return strings.Join(keep, "\n")
}

// ContainsInjection reports whether any line of text matches a known
// injection pattern. The parser step uses it to log suspicious resumes
// before scrubbing.
func ContainsInjection(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if matchesInjection(line) {
			return true
		}
	}
	return false
}

func matchesInjection(line string) bool {
	for _, pattern := range injectionPatterns {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}
