package model

import "fmt"

// LocatorKind discriminates the address forms a Locator can take.
type LocatorKind string

// Locator kinds.
const (
	// LocatorShapeParagraph addresses a paragraph by canonical shape
	// index and raw paragraph index within that shape.
	LocatorShapeParagraph LocatorKind = "shape_paragraph"
	// LocatorTableCell addresses a table cell by canonical shape index
	// and (row, col) within the table grid.
	LocatorTableCell LocatorKind = "table_cell"
	// LocatorLegacy addresses a paragraph by flat position across the
	// slide. Kept for producers that predate structured addressing.
	LocatorLegacy LocatorKind = "legacy"
)

// Locator identifies one paragraph or table cell within a slide. It is a
// tagged union: Kind selects which fields are meaningful. GlobalIndex is
// additionally populated on primary locators recorded at extraction time
// so that flat-index consumers keep working.
type Locator struct {
	Kind LocatorKind `json:"kind"`

	// Primary addressing (shape_paragraph, table_cell).
	ShapeIndex     int    `json:"shape_index,omitempty"`
	ShapeID        string `json:"shape_id,omitempty"` // native id, secondary cross-check only
	ParagraphIndex int    `json:"paragraph_index_in_shape,omitempty"`

	// Table cell addressing (table_cell).
	Row int `json:"row,omitempty"`
	Col int `json:"col,omitempty"`

	// Flat addressing (legacy), also recorded on extraction output.
	GlobalIndex *int `json:"global_index,omitempty"`

	// GroupPath is reserved for recursive group addressing. It is never
	// populated today: grouped shapes are flattened before ordering.
	GroupPath []int `json:"group_path,omitempty"`
}

// ShapeParagraphLocator builds a primary locator.
func ShapeParagraphLocator(shapeIndex, paragraphIndex int) Locator {
	return Locator{
		Kind:           LocatorShapeParagraph,
		ShapeIndex:     shapeIndex,
		ParagraphIndex: paragraphIndex,
	}
}

// TableCellLocator builds a table cell locator.
func TableCellLocator(shapeIndex, row, col int) Locator {
	return Locator{
		Kind:       LocatorTableCell,
		ShapeIndex: shapeIndex,
		Row:        row,
		Col:        col,
	}
}

// LegacyLocator builds a flat-index locator.
func LegacyLocator(globalIndex int) Locator {
	return Locator{
		Kind:        LocatorLegacy,
		GlobalIndex: &globalIndex,
	}
}

// WithGlobalIndex returns a copy of the locator carrying the given flat
// index for compatibility export.
func (l Locator) WithGlobalIndex(globalIndex int) Locator {
	l.GlobalIndex = &globalIndex
	return l
}

// Validate checks that the locator is well formed for its kind.
func (l Locator) Validate() error {
	switch l.Kind {
	case LocatorShapeParagraph:
		if l.ShapeIndex < 0 || l.ParagraphIndex < 0 {
			return fmt.Errorf("shape_paragraph locator has negative index (shape %d, paragraph %d)", l.ShapeIndex, l.ParagraphIndex)
		}
	case LocatorTableCell:
		if l.ShapeIndex < 0 || l.Row < 0 || l.Col < 0 {
			return fmt.Errorf("table_cell locator has negative index (shape %d, row %d, col %d)", l.ShapeIndex, l.Row, l.Col)
		}
	case LocatorLegacy:
		if l.GlobalIndex == nil {
			return fmt.Errorf("legacy locator missing global_index")
		}
		if *l.GlobalIndex < 0 {
			return fmt.Errorf("legacy locator has negative global_index %d", *l.GlobalIndex)
		}
	default:
		return fmt.Errorf("unknown locator kind %q", l.Kind)
	}
	return nil
}

// String returns a short human-readable form for reports and logs.
func (l Locator) String() string {
	switch l.Kind {
	case LocatorShapeParagraph:
		return fmt.Sprintf("shape %d, paragraph %d", l.ShapeIndex, l.ParagraphIndex)
	case LocatorTableCell:
		return fmt.Sprintf("shape %d, cell (%d,%d)", l.ShapeIndex, l.Row, l.Col)
	case LocatorLegacy:
		if l.GlobalIndex != nil {
			return fmt.Sprintf("flat paragraph %d", *l.GlobalIndex)
		}
		return "flat paragraph (unset)"
	}
	return string(l.Kind)
}
