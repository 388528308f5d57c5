package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tsawler/slidepatch/model"
	"github.com/tsawler/slidepatch/order"
	"github.com/tsawler/slidepatch/pptx"
)

// Sentinel errors for locator resolution.
var (
	// ErrOutOfRange indicates an index in the locator exceeds the live
	// document's bounds.
	ErrOutOfRange = errors.New("locator out of range")
	// ErrAmbiguousLegacyIndex indicates a flat index cannot be mapped to
	// a unique paragraph under the documented flattening rule.
	ErrAmbiguousLegacyIndex = errors.New("ambiguous legacy index")
	// ErrShapeIDMismatch indicates the locator's native shape id does
	// not match the shape found at the locator's canonical index.
	ErrShapeIDMismatch = errors.New("shape id mismatch")
)

// Options holds the ordering and title-classification thresholds. Zero
// values select the defaults; extraction and mutation must be run with
// the same Options for addresses to round-trip.
type Options struct {
	// RowTolerance is the vertical band, in EMUs, within which shapes
	// are treated as one row.
	RowTolerance int64
	// TitleTopBand is the distance from the slide top, in EMUs, within
	// which a shape may be classified as a title by font size.
	TitleTopBand int64
	// TitleFontDelta is how far, in points, a title candidate's font
	// size must exceed the slide's median body font size.
	TitleFontDelta float64
}

// Defaults, in EMUs and points. The top band matches the original
// heuristic of roughly a third of a slide height's top region.
const (
	DefaultRowTolerance   int64   = 50000
	DefaultTitleTopBand   int64   = 350000
	DefaultTitleFontDelta float64 = 4.0
)

func (o Options) withDefaults() Options {
	if o.RowTolerance <= 0 {
		o.RowTolerance = DefaultRowTolerance
	}
	if o.TitleTopBand <= 0 {
		o.TitleTopBand = DefaultTitleTopBand
	}
	if o.TitleFontDelta <= 0 {
		o.TitleFontDelta = DefaultTitleFontDelta
	}
	return o
}

// OrderedShapes returns the slide's shapes in canonical order. This is
// the only path by which shape indices are assigned anywhere in the
// module.
func OrderedShapes(s *pptx.Slide, opts Options) []*pptx.Shape {
	opts = opts.withDefaults()
	shapes := s.Shapes()
	boxes := make([]order.Box, len(shapes))
	for i, sh := range shapes {
		boxes[i] = order.Box{Top: sh.Top(), Left: sh.Left()}
	}
	perm := order.Reading(boxes, opts.RowTolerance)
	ordered := make([]*pptx.Shape, len(perm))
	for i, j := range perm {
		ordered[i] = shapes[j]
	}
	return ordered
}

// TitleShape classifies the slide's title and returns its canonical
// index and handle, or (-1, nil) when the slide has no text-bearing
// shape. Extraction labeling and mutation targeting both use this.
func TitleShape(s *pptx.Slide, opts Options) (int, *pptx.Shape) {
	opts = opts.withDefaults()
	ordered := OrderedShapes(s, opts)
	cands := make([]order.Candidate, len(ordered))
	for i, sh := range ordered {
		cands[i] = order.Candidate{
			Placeholder: sh.PlaceholderKind(),
			Top:         sh.Top(),
			HasText:     !sh.IsTable() && sh.HasText(),
			FontSize:    sh.FirstRunFontSize(),
		}
	}
	idx := order.Title(cands, order.TitleOptions{
		TopBand:   opts.TitleTopBand,
		FontDelta: opts.TitleFontDelta,
	})
	if idx < 0 {
		return -1, nil
	}
	return idx, ordered[idx]
}

// Resolve maps a locator to the paragraph it addresses on the slide.
// Table locators resolve to the cell's first paragraph. The returned
// paragraph is a live handle suitable for mutation.
func Resolve(s *pptx.Slide, loc model.Locator, opts Options) (*pptx.Paragraph, error) {
	opts = opts.withDefaults()
	switch loc.Kind {
	case model.LocatorShapeParagraph:
		sh, err := shapeAt(s, loc, opts)
		if err != nil {
			return nil, err
		}
		paras := sh.Paragraphs()
		if loc.ParagraphIndex < 0 || loc.ParagraphIndex >= len(paras) {
			return nil, fmt.Errorf("%w: paragraph %d of %d in shape %d",
				ErrOutOfRange, loc.ParagraphIndex, len(paras), loc.ShapeIndex)
		}
		return paras[loc.ParagraphIndex], nil

	case model.LocatorTableCell:
		sh, err := shapeAt(s, loc, opts)
		if err != nil {
			return nil, err
		}
		tbl := sh.Table()
		if tbl == nil {
			return nil, fmt.Errorf("%w: shape %d is not a table", ErrOutOfRange, loc.ShapeIndex)
		}
		cell := tbl.Cell(loc.Row, loc.Col)
		if cell == nil {
			return nil, fmt.Errorf("%w: cell (%d,%d) in %dx%d table",
				ErrOutOfRange, loc.Row, loc.Col, tbl.Rows(), tbl.Cols())
		}
		paras := cell.Paragraphs()
		if len(paras) == 0 {
			return nil, fmt.Errorf("%w: cell (%d,%d) has no paragraphs", ErrOutOfRange, loc.Row, loc.Col)
		}
		return paras[0], nil

	case model.LocatorLegacy:
		if loc.GlobalIndex == nil {
			return nil, fmt.Errorf("%w: legacy locator missing global_index", ErrOutOfRange)
		}
		return resolveLegacy(s, *loc.GlobalIndex, opts)

	default:
		return nil, fmt.Errorf("%w: unknown locator kind %q", ErrOutOfRange, loc.Kind)
	}
}

// shapeAt indexes the canonical shape list and applies the native
// shape-id cross-check when the locator carries one.
func shapeAt(s *pptx.Slide, loc model.Locator, opts Options) (*pptx.Shape, error) {
	ordered := OrderedShapes(s, opts)
	if loc.ShapeIndex < 0 || loc.ShapeIndex >= len(ordered) {
		return nil, fmt.Errorf("%w: shape %d of %d", ErrOutOfRange, loc.ShapeIndex, len(ordered))
	}
	sh := ordered[loc.ShapeIndex]
	if loc.ShapeID != "" && sh.ID() != "" && sh.ID() != loc.ShapeID {
		return nil, fmt.Errorf("%w: shape %d has id %s, locator recorded %s",
			ErrShapeIDMismatch, loc.ShapeIndex, sh.ID(), loc.ShapeID)
	}
	return sh, nil
}

// WalkEntry pairs one flat-walk paragraph with the canonical indices
// it was reached through.
type WalkEntry struct {
	ShapeIndex     int
	ParagraphIndex int // raw index within the shape
	Paragraph      *pptx.Paragraph
}

// FlatWalk returns the slide's paragraphs in the flat order global
// indices are assigned: canonically ordered shapes, skipping the title
// shape and table shapes, non-blank paragraphs only. The document
// builder and the legacy resolution path both consume this walk, so
// recorded global indices cannot drift from resolution.
func FlatWalk(s *pptx.Slide, opts Options) []WalkEntry {
	opts = opts.withDefaults()
	_, title := TitleShape(s, opts)
	var walk []WalkEntry
	for shapeIdx, sh := range OrderedShapes(s, opts) {
		if sh == title || sh.IsTable() {
			continue
		}
		for paraIdx, p := range sh.Paragraphs() {
			if strings.TrimSpace(p.Text()) == "" {
				continue
			}
			walk = append(walk, WalkEntry{
				ShapeIndex:     shapeIdx,
				ParagraphIndex: paraIdx,
				Paragraph:      p,
			})
		}
	}
	return walk
}

// GlobalWalk returns the flat walk's paragraphs without their indices.
func GlobalWalk(s *pptx.Slide, opts Options) []*pptx.Paragraph {
	entries := FlatWalk(s, opts)
	walk := make([]*pptx.Paragraph, len(entries))
	for i, e := range entries {
		walk[i] = e.Paragraph
	}
	return walk
}

// resolveLegacy replays the flat walk. An index beyond the walk is out
// of range on a table-free slide; with tables present the producer may
// have counted cells under an undocumented rule, so the mapping is
// ambiguous and resolution refuses to guess.
func resolveLegacy(s *pptx.Slide, globalIndex int, opts Options) (*pptx.Paragraph, error) {
	if globalIndex < 0 {
		return nil, fmt.Errorf("%w: negative flat index %d", ErrOutOfRange, globalIndex)
	}
	walk := GlobalWalk(s, opts)
	if globalIndex < len(walk) {
		return walk[globalIndex], nil
	}
	for _, sh := range s.Shapes() {
		if sh.IsTable() {
			return nil, fmt.Errorf("%w: flat index %d beyond %d paragraphs on a slide with tables",
				ErrAmbiguousLegacyIndex, globalIndex, len(walk))
		}
	}
	return nil, fmt.Errorf("%w: flat index %d of %d", ErrOutOfRange, globalIndex, len(walk))
}
