// Package sanitize derives safe storage filenames from user-supplied ones.
package sanitize

import (
	"path"
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// Filename collapses a user-supplied filename into a form safe to use as a
// storage key: any path components are stripped and runs of characters outside
// [A-Za-z0-9_.-] become a single underscore. Leading and trailing dots and
// underscores are trimmed, so the result may be empty for degenerate input.
func Filename(name string) string {
	// Strip both Unix and Windows style path components regardless of host OS.
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	name = unsafeChars.ReplaceAllString(name, "_")
	return strings.Trim(name, "._")
}
