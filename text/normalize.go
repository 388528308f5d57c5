package text

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalize returns the canonical comparison form of s: Unicode
// compatibility composition, fullwidth and halfwidth forms folded,
// leading and trailing whitespace trimmed, and internal whitespace
// runs collapsed to single spaces.
func Normalize(s string) string {
	s = width.Fold.String(s)
	s = norm.NFKC.String(s)
	return strings.Join(strings.Fields(s), " ")
}
