package classify

import (
	"regexp"
	"strings"
)

// OffensiveDetector matches text against a blocked-terms list,
// case-insensitive and word-boundary anchored.
type OffensiveDetector struct {
	re *regexp.Regexp
}

func NewOffensiveDetector(terms []string) *OffensiveDetector {
	if len(terms) == 0 {
		return &OffensiveDetector{}
	}
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(t))
	}
	return &OffensiveDetector{
		re: regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`),
	}
}

func DefaultOffensiveDetector() *OffensiveDetector {
	return NewOffensiveDetector(defaultBlockedTerms)
}

type OffensiveResult struct {
	Offensive bool
	Matches   []string
}

func (d *OffensiveDetector) Detect(text string) OffensiveResult {
	if d.re == nil || text == "" {
		return OffensiveResult{}
	}
	found := d.re.FindAllString(text, -1)
	if len(found) == 0 {
		return OffensiveResult{}
	}
	seen := make(map[string]struct{}, len(found))
	matches := make([]string, 0, len(found))
	for _, m := range found {
		key := strings.ToLower(m)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		matches = append(matches, key)
	}
	return OffensiveResult{Offensive: true, Matches: matches}
}

// Censor replaces each matched term with its first character followed by
// asterisks, preserving length.
func (d *OffensiveDetector) Censor(text string) string {
	if d.re == nil || text == "" {
		return text
	}
	return d.re.ReplaceAllStringFunc(text, func(m string) string {
		runes := []rune(m)
		if len(runes) <= 1 {
			return m
		}
		return string(runes[0]) + strings.Repeat("*", len(runes)-1)
	})
}
