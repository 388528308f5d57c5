package text

// Similarity scores how well candidate matches the expected string, in
// [0, 1]. Both inputs should already be normalized. Equal strings score
// 1. When one string contains the other, the score starts at 0.5 and
// grows with the length ratio, so containment clears a moderate
// threshold even when the surrounding text is long. Otherwise the score
// is the complementary edit-distance ratio.
func Similarity(expected, candidate string) float64 {
	if expected == candidate {
		if expected == "" {
			return 0
		}
		return 1
	}
	if expected == "" || candidate == "" {
		return 0
	}

	a := []rune(expected)
	b := []rune(candidate)
	shorter, longer := len(a), len(b)
	if shorter > longer {
		shorter, longer = longer, shorter
	}

	if contains(a, b) || contains(b, a) {
		return 0.5 + 0.5*float64(shorter)/float64(longer)
	}

	dist := editDistance(a, b)
	return 1 - float64(dist)/float64(longer)
}

func contains(haystack, needle []rune) bool {
	if len(needle) > len(haystack) {
		return false
	}
	return indexRunes(haystack, needle) >= 0
}

func indexRunes(haystack, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
outer:
	for i := 0; i+len(needle) <= len(haystack); i++ {
		for j := range needle {
			if haystack[i+j] != needle[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}

// editDistance computes the Levenshtein distance with a two-row table.
func editDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
