package task

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxSlugLength = 50
	fallbackSlug  = "task"
	minIDWidth    = 3
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	umlauts         = strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss")
)

// GenerateSlug converts a task title to the slug used in its filename.
// Accented letters fold to ASCII; a title with nothing usable left becomes
// "task".
func GenerateSlug(title string) string {
	slug := umlauts.Replace(strings.ToLower(title))
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, slug); err == nil {
		slug = folded
	}
	slug = strings.Trim(nonAlphanumeric.ReplaceAllString(slug, "-"), "-")

	switch {
	case slug == "":
		return fallbackSlug
	case len(slug) <= maxSlugLength:
		return slug
	}

	cut := slug[:maxSlugLength]
	if slug[maxSlugLength] != '-' {
		if idx := strings.LastIndex(cut, "-"); idx > 0 {
			cut = cut[:idx]
		}
	}
	return strings.TrimRight(cut, "-")
}

// GenerateFilename creates a task filename such as 007-water-plants.md. The
// id is zero padded to at least three digits so files sort by id.
func GenerateFilename(id int, slug string) string {
	return fmt.Sprintf("%0*d-%s.md", minIDWidth, id, slug)
}
