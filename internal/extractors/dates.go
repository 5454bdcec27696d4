package extractors

import (
	"regexp"
	"strings"
	"time"

	"github.com/agritrust/batchcert/internal/models"
)

// Date-literal shapes tried against a matched substring before generic
// parsing. Matching the literal first keeps surrounding label text ("Exp:
// 12/31/2026 keep refrigerated") from defeating normalization.
var dateLiteralPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{4}[.\-/]\d{1,2}[.\-/]\d{1,2}`),
	regexp.MustCompile(`\d{1,2}[.\-/]\d{1,2}[.\-/]\d{4}`),
	regexp.MustCompile(`(?i)(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2},?\s+\d{4}`),
}

var dateLayouts = []string{
	"2006-1-2",
	"2006.1.2",
	"2006/1/2",
	"1/2/2006",
	"1-2-2006",
	"1.2.2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"January 2 2006",
}

// parseDate normalizes a date-bearing substring to yyyy-mm-dd. The raw
// substring is always retained; when no valid calendar date can be derived
// the result carries only Raw, so callers can still see what was matched.
func parseDate(raw string) *models.DateValue {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	for _, p := range dateLiteralPatterns {
		literal := p.FindString(raw)
		if literal == "" {
			continue
		}
		if iso, ok := parseLiteral(literal); ok {
			return &models.DateValue{ISO: iso, Raw: raw}
		}
	}

	if iso, ok := parseLiteral(raw); ok {
		return &models.DateValue{ISO: iso, Raw: raw}
	}

	return &models.DateValue{Raw: raw}
}

func parseLiteral(s string) (string, bool) {
	s = normalizeMonthName(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

var monthPrefixPattern = regexp.MustCompile(`(?i)^(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)([a-z]*)`)

// normalizeMonthName canonicalizes month casing and clips nonstandard
// abbreviations ("SEPT 5, 2025") down to forms time.Parse accepts.
func normalizeMonthName(s string) string {
	m := monthPrefixPattern.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	prefix := strings.ToUpper(m[1][:1]) + strings.ToLower(m[1][1:])
	rest := s[len(m[0]):]
	full := prefix + strings.ToLower(m[2])
	for _, name := range []string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	} {
		if full == name {
			return full + rest
		}
	}
	return prefix + rest
}

// columnDate flattens a DateValue for the persisted record, preferring the
// normalized form.
func columnDate(d *models.DateValue) *string {
	if d == nil {
		return nil
	}
	if d.ISO != "" {
		return &d.ISO
	}
	if d.Raw != "" {
		return &d.Raw
	}
	return nil
}
