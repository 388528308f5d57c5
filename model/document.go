package model

// PlaceholderKind classifies a shape by its placeholder role, independent
// of its visual position.
type PlaceholderKind string

// Placeholder kinds. PlaceholderNone means the shape is not a placeholder.
const (
	PlaceholderTitle       PlaceholderKind = "title"
	PlaceholderCenterTitle PlaceholderKind = "center_title"
	PlaceholderBody        PlaceholderKind = "body"
	PlaceholderDate        PlaceholderKind = "date"
	PlaceholderFooter      PlaceholderKind = "footer"
	PlaceholderSlideNumber PlaceholderKind = "slide_number"
	PlaceholderOther       PlaceholderKind = "other"
	PlaceholderNone        PlaceholderKind = ""
)

// IsTitle reports whether the kind marks a title placeholder.
func (k PlaceholderKind) IsTitle() bool {
	return k == PlaceholderTitle || k == PlaceholderCenterTitle
}

// Document represents a complete deck snapshot produced by extraction.
type Document struct {
	SourcePath  string   `json:"file,omitempty"`
	TotalSlides int      `json:"total_slides"`
	SlideWidth  int64    `json:"slide_width,omitempty"`  // EMUs
	SlideHeight int64    `json:"slide_height,omitempty"` // EMUs
	Fingerprint string   `json:"fingerprint,omitempty"`
	Slides      []*Slide `json:"slides"`
}

// GetSlide returns a slide by number (1-indexed), or nil.
func (d *Document) GetSlide(number int) *Slide {
	if number < 1 || number > len(d.Slides) {
		return nil
	}
	return d.Slides[number-1]
}

// Slide holds the extracted content of one slide.
type Slide struct {
	SlideNumber     int             `json:"slide_number"` // 1-indexed, stable
	SlideID         string          `json:"slide_id,omitempty"`
	Title           string          `json:"title"`
	TitleLocator    *Locator        `json:"title_locator,omitempty"`
	Content         []ContentEntry  `json:"content"`
	Shapes          []*Shape        `json:"content_shapes"`
	Tables          []*TableData    `json:"tables,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	HasHeaderFooter bool            `json:"has_header_footer,omitempty"`
}

// ContentEntry is one paragraph in the slide's flat content sequence.
// The embedded Locator carries the full structured address plus the
// compatibility global_index assigned by the builder.
type ContentEntry struct {
	Locator
	Text      string `json:"text"`
	Level     int    `json:"level"`
	Alignment string `json:"alignment,omitempty"`
	Runs      []Run  `json:"runs"`
}

// ShapeKind describes the structural type of a shape.
type ShapeKind string

// Shape kinds.
const (
	ShapeTextBox     ShapeKind = "textbox"
	ShapePlaceholder ShapeKind = "placeholder"
	ShapeTable       ShapeKind = "table"
)

// Shape is one text-bearing or table shape in canonical order.
type Shape struct {
	ShapeIndex  int             `json:"shape_index"` // canonical position within the slide
	ShapeID     string          `json:"shape_id,omitempty"`
	Name        string          `json:"name,omitempty"`
	Kind        ShapeKind       `json:"type"`
	Placeholder PlaceholderKind `json:"placeholder,omitempty"`
	Top         int64           `json:"top"`  // EMUs
	Left        int64           `json:"left"` // EMUs
	Paragraphs  []*Paragraph    `json:"paragraphs"`
	Table       *TableData      `json:"table_data,omitempty"`
}

// Paragraph is one paragraph within a shape or table cell. Index is the
// raw position within the shape's paragraph list, including paragraphs
// whose text is empty.
type Paragraph struct {
	Index     int    `json:"index"`
	Text      string `json:"text"`
	Level     int    `json:"level"`
	Alignment string `json:"alignment,omitempty"`
	Runs      []Run  `json:"runs"`
}

// Run is a span of text with uniform formatting. The first run of a
// paragraph is the one whose formatting survives a text replacement.
type Run struct {
	Text     string  `json:"text"`
	FontSize float64 `json:"font_size,omitempty"` // points
	FontName string  `json:"font_name,omitempty"`
	Bold     bool    `json:"bold,omitempty"`
	Italic   bool    `json:"italic,omitempty"`
}

// TableData holds the extracted content of a table shape. Spanned
// continuation cells are omitted from Cells.
type TableData struct {
	ShapeIndex int         `json:"shape_index"`
	ShapeID    string      `json:"shape_id,omitempty"`
	Rows       int         `json:"rows"`
	Cols       int         `json:"cols"`
	Cells      []TableCell `json:"cells"`
}

// TableCell is one addressable cell of a table.
type TableCell struct {
	Row        int          `json:"row"`
	Col        int          `json:"col"`
	Text       string       `json:"text"`
	Paragraphs []*Paragraph `json:"paragraphs,omitempty"`
}

// Cell returns the cell at (row, col), or nil when the position is not
// present (out of range or a spanned continuation cell).
func (t *TableData) Cell(row, col int) *TableCell {
	for i := range t.Cells {
		if t.Cells[i].Row == row && t.Cells[i].Col == col {
			return &t.Cells[i]
		}
	}
	return nil
}
