// Package filename derives note file names from titles and creation times.
package filename

import (
	"regexp"
	"strings"
	"time"

	"github.com/starford/nerdnotes/internal/models"
)

// Fallback is the slug used when a title has no word characters.
const Fallback = "untitled"

// nonWord matches runs of characters that are not letters, digits or '_'.
var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// SanitizeTitle turns a title into a filesystem-safe slug: runs of non-word
// characters collapse to one '-', leading and trailing '-' are dropped, and
// case is preserved.
func SanitizeTitle(title string) string {
	slug := nonWord.ReplaceAllString(strings.TrimSpace(title), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return Fallback
	}
	return slug
}

// New returns the file name for a note created at now.
func New(title string, now time.Time) string {
	return now.Format(models.TimestampLayout) + "-" + SanitizeTitle(title) + models.Extension
}

// Timestamp recovers the creation time encoded at the start of name.
func Timestamp(name string) (time.Time, bool) {
	if len(name) < len(models.TimestampLayout) {
		return time.Time{}, false
	}
	ts, err := time.ParseInLocation(models.TimestampLayout, name[:len(models.TimestampLayout)], time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// IsNote reports whether name has the note file extension.
func IsNote(name string) bool {
	return strings.HasSuffix(name, models.Extension)
}
