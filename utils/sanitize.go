package utils

import "github.com/microcosm-cc/bluemonday"

var (
	sanitizer = bluemonday.UGCPolicy()
	stripper  = bluemonday.StrictPolicy()
)

// Sanitize cleans HTML content to prevent XSS attacks while keeping
// user-generated markup.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

// StripTags removes all HTML, used for plain-text fields such as
// nicknames and titles.
func StripTags(input string) string {
	return stripper.Sanitize(input)
}
