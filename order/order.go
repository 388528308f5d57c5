package order

import (
	"sort"

	"github.com/tsawler/slidepatch/model"
)

// Box is the geometry of one shape, in EMUs.
type Box struct {
	Top  int64
	Left int64
}

// Reading returns the indices of boxes in reading order: rows top to
// bottom, left to right within a row. Boxes whose tops differ by at most
// tolerance belong to the same row. Ties are broken by input order, so
// the result is deterministic for identical input.
func Reading(boxes []Box, tolerance int64) []int {
	idx := make([]int, len(boxes))
	for i := range idx {
		idx[i] = i
	}

	// First pass: vertical order, input order on equal tops.
	sort.SliceStable(idx, func(a, b int) bool {
		return boxes[idx[a]].Top < boxes[idx[b]].Top
	})

	// Second pass: cluster rows against a running anchor, then order
	// each row left to right. Clustering against the row anchor keeps
	// the comparison transitive, which a pairwise tolerance sort is not.
	out := make([]int, 0, len(idx))
	for start := 0; start < len(idx); {
		anchor := boxes[idx[start]].Top
		end := start + 1
		for end < len(idx) && boxes[idx[end]].Top-anchor <= tolerance {
			end++
		}
		row := make([]int, end-start)
		copy(row, idx[start:end])
		sort.SliceStable(row, func(a, b int) bool {
			return boxes[row[a]].Left < boxes[row[b]].Left
		})
		out = append(out, row...)
		start = end
	}
	return out
}

// Candidate describes one shape, already in canonical order, for title
// classification.
type Candidate struct {
	Placeholder model.PlaceholderKind
	Top         int64
	HasText     bool
	// FontSize is the first run's size in points, or 0 when unknown.
	FontSize float64
}

// TitleOptions holds the thresholds for heuristic title detection.
type TitleOptions struct {
	// TopBand is the distance from the slide top, in EMUs, within which
	// a shape may be classified as a title by font size.
	TopBand int64
	// FontDelta is how far, in points, a candidate's font size must
	// exceed the slide's median body font size.
	FontDelta float64
}

// Title returns the index of the slide's title within cands, or -1 when
// no text-bearing shape exists. The priority chain is fixed: an explicit
// title placeholder wins; otherwise the topmost text-bearing shape whose
// font size exceeds the median by FontDelta inside the top band;
// otherwise the first text-bearing shape in canonical order.
func Title(cands []Candidate, opts TitleOptions) int {
	for i, c := range cands {
		if c.Placeholder.IsTitle() {
			return i
		}
	}

	if med, ok := medianFontSize(cands); ok {
		// cands are in canonical order, so the first hit is the topmost.
		for i, c := range cands {
			if !c.HasText || c.FontSize <= 0 {
				continue
			}
			if c.Top <= opts.TopBand && c.FontSize >= med+opts.FontDelta {
				return i
			}
		}
	}

	for i, c := range cands {
		if c.HasText {
			return i
		}
	}
	return -1
}

// medianFontSize returns the median first-run size over text-bearing
// candidates with a known size.
func medianFontSize(cands []Candidate) (float64, bool) {
	var sizes []float64
	for _, c := range cands {
		if c.HasText && c.FontSize > 0 {
			sizes = append(sizes, c.FontSize)
		}
	}
	if len(sizes) == 0 {
		return 0, false
	}
	sort.Float64s(sizes)
	n := len(sizes)
	if n%2 == 1 {
		return sizes[n/2], true
	}
	return (sizes[n/2-1] + sizes[n/2]) / 2, true
}
