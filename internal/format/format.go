// Package format holds the small text helpers shared by the local bucket
// and the CLI views.
package format

import (
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slug lowercases text, folds accents ("Café" -> "cafe"), drops everything
// but ASCII letters, digits, spaces and hyphens, and joins words with single
// hyphens.
func Slug(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		folded = text
	}

	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == ' ' || r == '-' || r == '\t' || r == '\n':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Truncate shortens text to max runes, appending "..." when cut.
func Truncate(text string, max int) string {
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	return string(r[:max]) + "..."
}

// StarRating renders a 0-5 rating as filled and empty stars. A fractional
// part shows as one extra empty star, matching the dashboard widgets.
func StarRating(rating float64) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	full := int(rating)
	half := rating != float64(full)
	empty := 5 - full
	if half {
		empty--
	}
	var b strings.Builder
	b.WriteString(strings.Repeat("★", full))
	if half {
		b.WriteString("☆")
	}
	b.WriteString(strings.Repeat("☆", empty))
	return b.String()
}

// Domain returns the host of rawURL without a leading "www.", or rawURL
// itself when it does not parse as an absolute URL.
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// ValidURL reports whether rawURL is an absolute URL with a scheme and host.
func ValidURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// Date renders t as "Jan 2, 2006", or "-" for the zero time.
func Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Jan 2, 2006")
}

// Ago renders t relative to now ("3 days ago"), or "-" for the zero time.
func Ago(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}
