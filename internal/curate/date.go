package curate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrNoDate reports that no publication date could be resolved from text.
// Callers drop the owning candidate; dates are never defaulted to "today".
var ErrNoDate = errors.New("no date found")

// datePattern pairs a regular expression with the time layouts that can parse
// its match. The list is ordered and the first matching pattern wins; later
// patterns are never consulted, even if they would match a longer span.
type datePattern struct {
	re      *regexp.Regexp
	layouts []string

	// dayMonthNoYear marks the "8th May" style: the ordinal suffix is
	// stripped and the current year appended before parsing.
	dayMonthNoYear bool
}

var datePatterns = []datePattern{
	{re: regexp.MustCompile(`\d{4}-\d{2}-\d{2}`), layouts: []string{"2006-01-02"}},                                   // 2025-05-08
	{re: regexp.MustCompile(`\d{2}/\d{2}/\d{4}`), layouts: []string{"01/02/2006"}},                                   // 05/08/2025
	{re: regexp.MustCompile(`\d{1,2}\s+[A-Za-z]+\s+\d{4}`), layouts: []string{"2 January 2006", "2 Jan 2006"}},       // 8 May 2025
	{re: regexp.MustCompile(`[A-Za-z]+\s+\d{1,2},\s+\d{4}`), layouts: []string{"January 2, 2006", "Jan 2, 2006"}},    // May 8, 2025
	{re: regexp.MustCompile(`\d{1,2}\.\d{1,2}\.\d{4}`), layouts: []string{"2.1.2006"}},                               // 8.5.2025
	{re: regexp.MustCompile(`\d{1,2}(st|nd|rd|th)?\s+[A-Za-z]{3,}`), layouts: []string{"2 January 2006", "2 Jan 2006"}, dayMonthNoYear: true}, // 8th May
	{re: regexp.MustCompile(`\d{4}\.\d{2}\.\d{2}`), layouts: []string{"2006.01.02"}},                                 // 2025.05.08
}

var ordinalSuffix = regexp.MustCompile(`^(\d{1,2})(?:st|nd|rd|th)`)

// NormalizeDate resolves a publication date from free text surrounding a news
// link. A date strictly in the future relative to now is pulled back exactly
// one year, which covers year-less "day month" text spilling past a year
// boundary, rather than being rejected.
func NormalizeDate(text string, now time.Time) (time.Time, error) {
	for _, p := range datePatterns {
		match := p.re.FindString(text)
		if match == "" {
			continue
		}

		if p.dayMonthNoYear {
			match = ordinalSuffix.ReplaceAllString(match, "$1")
			match = fmt.Sprintf("%s %d", match, now.Year())
		}

		for _, layout := range p.layouts {
			parsed, err := time.Parse(layout, match)
			if err != nil {
				continue
			}
			if parsed.After(now) {
				parsed = parsed.AddDate(-1, 0, 0)
			}
			return parsed, nil
		}

		// First pattern won but its match does not parse: the text has
		// no resolvable date.
		return time.Time{}, fmt.Errorf("%w: unparseable %q", ErrNoDate, match)
	}
	return time.Time{}, ErrNoDate
}

// CleanTitle trims a crawled link title at the first double line-break, which
// is where trailing navigation boilerplate usually starts.
func CleanTitle(title string) string {
	if idx := strings.Index(title, "\n\n"); idx >= 0 {
		return title[:idx]
	}
	return title
}
