package schedule

import (
	"strings"
	"unicode"
)

// Slugify converts a title to its canonical URL slug: lowercase, strip
// everything outside [a-z0-9], collapse runs of whitespace and hyphens to
// a single hyphen, trim leading and trailing hyphens.
//
// Slugs are the route-matching contract with the presentation layer, so
// the transform is bit-exact and total: any input yields a slug (possibly
// empty). Two distinct titles normalizing to the same slug is a
// data-integrity defect surfaced by the content validation pass, not here.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	pendingHyphen := false

	for _, r := range strings.ToLower(title) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			pendingHyphen = true
		}
	}

	return b.String()
}
