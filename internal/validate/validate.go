package validate

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reEmail    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reUsername = regexp.MustCompile(`^[A-Za-z0-9@.+_-]{1,150}$`)
	reSlug     = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	reNonSlug  = regexp.MustCompile(`[^a-z0-9]+`)
)

var maxPrice = decimal.New(1, 8) // 10 digits with 2 fractional

// MaxQty caps one cart line.
const MaxQty = 50

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Username follows the usual letters, digits and @/./+/-/_ rule.
func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reUsername.MatchString(s)
}

// Qty parses a quantity between 1 and MaxQty.
func Qty(s string) (int, bool) {
	n, err := cast.ToIntE(strings.TrimSpace(s))
	if err != nil || n < 1 || n > MaxQty {
		return 0, false
	}
	return n, true
}

// ID parses a positive numeric record id.
func ID(s string) (int64, bool) {
	n, err := cast.ToInt64E(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Stock parses a non-negative integer.
func Stock(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := cast.ToIntE(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Price parses a money amount with at most two fractional digits. The result
// always carries exactly two.
func Price(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() || d.Exponent() < -2 || d.GreaterThanOrEqual(maxPrice) {
		return decimal.Zero, false
	}
	return d.Round(2), true
}

// Text trims s and checks it is non-empty and at most max bytes.
func Text(s string, max int) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > max {
		return "", false
	}
	return s, true
}

func Slug(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len(s) <= 200 && reSlug.MatchString(s)
}

// HasHeaderBreak reports whether s would split a mail header.
func HasHeaderBreak(s string) bool { return strings.ContainsAny(s, "\r\n") }

// Slugify lowercases s, folds accents to ASCII and joins words with '-'.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	out := reNonSlug.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(out, "-")
}

// Password enforces a length window and the four character classes.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 64 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}
