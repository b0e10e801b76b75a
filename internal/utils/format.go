package utils

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006 at 15:04"
)

// FormatDate renders a date for display; zero and nil render empty.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// FormatDateTime renders a timestamp for display.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateTimeLayout)
}

// Truncate shortens text to at most maxLength runes, cutting at the last
// word boundary and appending an ellipsis.
func Truncate(text string, maxLength int) string {
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}

	cut := string([]rune(text)[:maxLength])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}

// LinkedInShareURL builds the LinkedIn share-offsite link for a page.
func LinkedInShareURL(title, summary, pageURL string) string {
	q := url.Values{}
	q.Set("url", pageURL)
	q.Set("title", title)
	q.Set("summary", summary)
	return "https://www.linkedin.com/sharing/share-offsite/?" + q.Encode()
}

// SafeRedirectTarget returns target when it is a local absolute path and
// fallback otherwise, so ?next= cannot send users to another host.
func SafeRedirectTarget(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return fallback
	}
	return target
}
