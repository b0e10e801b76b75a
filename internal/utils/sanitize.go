package utils

import "github.com/microcosm-cc/bluemonday"

var ugcPolicy = bluemonday.UGCPolicy()

// SanitizeHTML keeps the safe subset of user generated HTML.
func SanitizeHTML(input string) string {
	return ugcPolicy.Sanitize(input)
}
