// Package normalize holds the pure functions that canonicalize header
// labels, dates, and monetary amounts found in imported files.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Years outside this range are treated as parse failures rather than
// plausible transaction dates.
const (
	minYear = 2001
	maxYear = 2099
)

// Header lower-cases and trims a column label, then maps it through the
// synonym table. Unmapped labels pass through unchanged so fallback chains
// can still find them under their original name.
func Header(label string, synonyms map[string]string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	if canonical, ok := synonyms[key]; ok {
		return canonical
	}
	return key
}

var (
	sepDMYPattern     = regexp.MustCompile(`^(\d{1,2})[/.-](\d{1,2})[/.-](\d{4})$`)
	sepYMDPattern     = regexp.MustCompile(`^(\d{4})[/.-](\d{1,2})[/.-](\d{1,2})$`)
	sepShortYrPattern = regexp.MustCompile(`^(\d{1,2})[/.-](\d{1,2})[/.-](\d{2})$`)
	compactPattern    = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`)
)

// genericLayouts is the last-resort sweep for dates that match none of the
// numeric patterns.
var genericLayouts = []string{
	"2 Jan 2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
	"2006-01-02T15:04:05Z07:00",
}

// Date parses a date written in any of the supported formats and returns it
// as midnight UTC. monthFirst flips ambiguous numeric dates like 03/04/2024
// to month-before-day; the default policy is day-first. The second return is
// false when no pattern yields a calendar date with a year in [2001,2099].
func Date(text string, monthFirst bool) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}

	if m := sepDMYPattern.FindStringSubmatch(text); m != nil {
		day, month := atoi(m[1]), atoi(m[2])
		if monthFirst {
			day, month = month, day
		}
		if d, ok := makeDate(atoi(m[3]), month, day); ok {
			return d, true
		}
	}

	if m := sepYMDPattern.FindStringSubmatch(text); m != nil {
		if d, ok := makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3])); ok {
			return d, true
		}
	}

	if m := sepShortYrPattern.FindStringSubmatch(text); m != nil {
		day, month := atoi(m[1]), atoi(m[2])
		if monthFirst {
			day, month = month, day
		}
		if d, ok := makeDate(2000+atoi(m[3]), month, day); ok {
			return d, true
		}
	}

	if m := compactPattern.FindStringSubmatch(text); m != nil {
		if d, ok := makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3])); ok {
			return d, true
		}
	}

	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			if d, ok := makeDate(t.Year(), int(t.Month()), t.Day()); ok {
				return d, true
			}
		}
	}

	return time.Time{}, false
}

// makeDate validates the year range and rejects normalized overflow such as
// Feb 30 rolling into March.
func makeDate(year, month, day int) (time.Time, bool) {
	if year < minYear || year > maxYear {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// Amount parses a monetary cell into a non-negative decimal. Currency
// symbols, thousands separators, and whitespace are stripped; parentheses or
// a leading/trailing minus mark a negative value whose absolute value is
// returned — direction lives on the transaction type, not the amount sign.
// Unparseable input normalizes to zero, which downstream treats as invalid.
func Amount(text string) decimal.Decimal {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Zero
	}

	if len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
		s = s[1 : len(s)-1]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "-")

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		}
	}

	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	return d.Abs()
}
