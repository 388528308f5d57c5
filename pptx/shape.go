package pptx

import (
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/tsawler/slidepatch/model"
)

// Shape is a live handle onto one text-bearing or table shape.
type Shape struct {
	slide *Slide
	node  *xmlquery.Node

	id   string
	name string
	ph   string // raw placeholder type attribute
	top  int64
	left int64

	paragraphs []*Paragraph
	table      *Table
}

// newTextShape builds a handle for an <sp> element, or nil when the
// shape carries no text.
func newTextShape(s *Slide, n *xmlquery.Node) *Shape {
	txBody := childElem(n, "txBody")
	if txBody == nil {
		return nil
	}

	sh := &Shape{slide: s, node: n}
	if cNvPr := findFirst(n, "nvSpPr", "cNvPr"); cNvPr != nil {
		sh.id = attr(cNvPr, "id")
		sh.name = attr(cNvPr, "name")
	}
	if ph := findFirst(n, "nvSpPr", "nvPr", "ph"); ph != nil {
		sh.ph = attr(ph, "type")
		if sh.ph == "" {
			sh.ph = "body" // a ph element with no type attribute is a body placeholder
		}
	}
	sh.top, sh.left = shapeOffset(findFirst(n, "spPr", "xfrm"))

	for p := txBody.FirstChild; p != nil; p = p.NextSibling {
		if p.Type == xmlquery.ElementNode && p.Data == "p" {
			sh.paragraphs = append(sh.paragraphs, &Paragraph{shape: sh, node: p})
		}
	}
	if !sh.HasText() {
		return nil
	}
	return sh
}

// newTableShape builds a handle for a <graphicFrame> that holds a table,
// or nil for charts and other graphic content.
func newTableShape(s *Slide, n *xmlquery.Node) *Shape {
	tbl := findFirst(n, "graphic", "graphicData", "tbl")
	if tbl == nil {
		return nil
	}

	sh := &Shape{slide: s, node: n}
	if cNvPr := findFirst(n, "nvGraphicFramePr", "cNvPr"); cNvPr != nil {
		sh.id = attr(cNvPr, "id")
		sh.name = attr(cNvPr, "name")
	}
	sh.top, sh.left = shapeOffset(childElem(n, "xfrm"))
	sh.table = newTable(sh, tbl)
	return sh
}

// shapeOffset reads the top/left offset from an xfrm element, in EMUs.
// Shapes that inherit their geometry from the layout have no xfrm and
// report (0, 0); input-order tiebreaking keeps ordering stable for them.
func shapeOffset(xfrm *xmlquery.Node) (top, left int64) {
	if xfrm == nil {
		return 0, 0
	}
	off := childElem(xfrm, "off")
	if off == nil {
		return 0, 0
	}
	top, _ = strconv.ParseInt(attr(off, "y"), 10, 64)
	left, _ = strconv.ParseInt(attr(off, "x"), 10, 64)
	return top, left
}

// ID returns the native shape id, or "".
func (sh *Shape) ID() string { return sh.id }

// Name returns the shape name, or "".
func (sh *Shape) Name() string { return sh.name }

// Top returns the shape's top offset in EMUs.
func (sh *Shape) Top() int64 { return sh.top }

// Left returns the shape's left offset in EMUs.
func (sh *Shape) Left() int64 { return sh.left }

// IsTable reports whether the shape is a table.
func (sh *Shape) IsTable() bool { return sh.table != nil }

// Table returns the table handle, or nil for text shapes.
func (sh *Shape) Table() *Table { return sh.table }

// Paragraphs returns the shape's paragraphs in document order,
// including paragraphs whose text is empty. Table shapes have none.
func (sh *Shape) Paragraphs() []*Paragraph { return sh.paragraphs }

// PlaceholderKind maps the shape's placeholder type onto the model enum.
func (sh *Shape) PlaceholderKind() model.PlaceholderKind {
	switch sh.ph {
	case "":
		return model.PlaceholderNone
	case "title":
		return model.PlaceholderTitle
	case "ctrTitle":
		return model.PlaceholderCenterTitle
	case "body", "subTitle":
		return model.PlaceholderBody
	case "dt":
		return model.PlaceholderDate
	case "ftr":
		return model.PlaceholderFooter
	case "sldNum":
		return model.PlaceholderSlideNumber
	default:
		return model.PlaceholderOther
	}
}

// Kind returns the structural shape kind for model export.
func (sh *Shape) Kind() model.ShapeKind {
	switch {
	case sh.IsTable():
		return model.ShapeTable
	case sh.ph != "":
		return model.ShapePlaceholder
	default:
		return model.ShapeTextBox
	}
}

// Text returns all paragraph text joined by newlines.
func (sh *Shape) Text() string {
	var b strings.Builder
	for i, p := range sh.paragraphs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p.Text())
	}
	return b.String()
}

// HasText reports whether any paragraph carries non-blank text.
func (sh *Shape) HasText() bool {
	for _, p := range sh.paragraphs {
		if strings.TrimSpace(p.Text()) != "" {
			return true
		}
	}
	return false
}

// FirstRunFontSize returns the font size in points of the first run of
// the first non-empty paragraph, or 0 when unknown.
func (sh *Shape) FirstRunFontSize() float64 {
	for _, p := range sh.paragraphs {
		if strings.TrimSpace(p.Text()) == "" {
			continue
		}
		runs := p.Runs()
		if len(runs) == 0 {
			return 0
		}
		return runs[0].FontSize
	}
	return 0
}

// Paragraph is a live handle onto one <a:p> element.
type Paragraph struct {
	shape *Shape
	node  *xmlquery.Node
}

// Text returns the paragraph text: run text in order, with explicit line
// breaks rendered as newlines and field values included.
func (p *Paragraph) Text() string {
	return paragraphText(p.node)
}

func paragraphText(pNode *xmlquery.Node) string {
	var b strings.Builder
	for n := pNode.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != xmlquery.ElementNode {
			continue
		}
		switch n.Data {
		case "r", "fld":
			if t := childElem(n, "t"); t != nil {
				b.WriteString(t.InnerText())
			}
		case "br":
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Level returns the paragraph's outline level (0 to 8).
func (p *Paragraph) Level() int {
	if pPr := childElem(p.node, "pPr"); pPr != nil {
		if lvl, err := strconv.Atoi(attr(pPr, "lvl")); err == nil {
			return lvl
		}
	}
	return 0
}

// Alignment returns the paragraph alignment attribute (l, ctr, r, just),
// or "".
func (p *Paragraph) Alignment() string {
	if pPr := childElem(p.node, "pPr"); pPr != nil {
		return attr(pPr, "algn")
	}
	return ""
}

// Runs returns the formatting of each text run as values.
func (p *Paragraph) Runs() []model.Run {
	var runs []model.Run
	for n := p.node.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != xmlquery.ElementNode || n.Data != "r" {
			continue
		}
		run := model.Run{}
		if t := childElem(n, "t"); t != nil {
			run.Text = t.InnerText()
		}
		if rPr := childElem(n, "rPr"); rPr != nil {
			if sz, err := strconv.Atoi(attr(rPr, "sz")); err == nil {
				run.FontSize = float64(sz) / 100
			}
			run.Bold = boolAttr(rPr, "b")
			run.Italic = boolAttr(rPr, "i")
			if latin := childElem(rPr, "latin"); latin != nil {
				run.FontName = attr(latin, "typeface")
			} else if ea := childElem(rPr, "ea"); ea != nil {
				run.FontName = attr(ea, "typeface")
			}
		}
		runs = append(runs, run)
	}
	return runs
}

// SetText replaces the paragraph's content with text. The first run
// keeps its run properties and receives the new text; all other runs,
// line breaks, and fields are removed. A paragraph with no runs gets a
// new run created in place.
func (p *Paragraph) SetText(text string) {
	var first *xmlquery.Node
	var rest []*xmlquery.Node
	for n := p.node.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != xmlquery.ElementNode {
			continue
		}
		switch n.Data {
		case "r":
			if first == nil {
				first = n
			} else {
				rest = append(rest, n)
			}
		case "br", "fld":
			rest = append(rest, n)
		}
	}

	if first == nil {
		first = &xmlquery.Node{
			Type:         xmlquery.ElementNode,
			Data:         "r",
			Prefix:       runPrefix(p.node),
			NamespaceURI: p.node.NamespaceURI,
		}
		insertBefore(p.node, first, childElem(p.node, "endParaRPr"))
	}

	t := childElem(first, "t")
	if t == nil {
		t = &xmlquery.Node{
			Type:         xmlquery.ElementNode,
			Data:         "t",
			Prefix:       first.Prefix,
			NamespaceURI: first.NamespaceURI,
		}
		xmlquery.AddChild(first, t)
	}
	setNodeText(t, text)

	for _, n := range rest {
		xmlquery.RemoveFromTree(n)
	}
	p.shape.slide.markDirty()
}

// runPrefix guesses the DrawingML namespace prefix for new run elements
// from the paragraph element itself.
func runPrefix(pNode *xmlquery.Node) string {
	if pNode.Prefix != "" {
		return pNode.Prefix
	}
	return "a"
}

// Table is a live handle onto an <a:tbl> element.
type Table struct {
	shape *Shape
	rows  [][]*Cell
	cols  int
}

func newTable(sh *Shape, tbl *xmlquery.Node) *Table {
	t := &Table{shape: sh}
	if grid := childElem(tbl, "tblGrid"); grid != nil {
		for n := grid.FirstChild; n != nil; n = n.NextSibling {
			if n.Type == xmlquery.ElementNode && n.Data == "gridCol" {
				t.cols++
			}
		}
	}
	for tr := tbl.FirstChild; tr != nil; tr = tr.NextSibling {
		if tr.Type != xmlquery.ElementNode || tr.Data != "tr" {
			continue
		}
		var row []*Cell
		for tc := tr.FirstChild; tc != nil; tc = tc.NextSibling {
			if tc.Type != xmlquery.ElementNode || tc.Data != "tc" {
				continue
			}
			cell := &Cell{table: t, node: tc}
			cell.spanned = attr(tc, "vMerge") != "" || attr(tc, "hMerge") != ""
			if txBody := childElem(tc, "txBody"); txBody != nil {
				for p := txBody.FirstChild; p != nil; p = p.NextSibling {
					if p.Type == xmlquery.ElementNode && p.Data == "p" {
						cell.paragraphs = append(cell.paragraphs, &Paragraph{shape: sh, node: p})
					}
				}
			}
			row = append(row, cell)
		}
		t.rows = append(t.rows, row)
	}
	if t.cols == 0 && len(t.rows) > 0 {
		t.cols = len(t.rows[0])
	}
	return t
}

// Rows returns the number of rows.
func (t *Table) Rows() int { return len(t.rows) }

// Cols returns the number of columns.
func (t *Table) Cols() int { return t.cols }

// Cell returns the cell at (row, col), or nil when out of range.
func (t *Table) Cell(row, col int) *Cell {
	if row < 0 || row >= len(t.rows) {
		return nil
	}
	if col < 0 || col >= len(t.rows[row]) {
		return nil
	}
	return t.rows[row][col]
}

// Cell is a live handle onto one table cell.
type Cell struct {
	table      *Table
	node       *xmlquery.Node
	paragraphs []*Paragraph
	spanned    bool
}

// Spanned reports whether the cell is a merged continuation cell.
func (c *Cell) Spanned() bool { return c.spanned }

// Paragraphs returns the cell's paragraphs in document order.
func (c *Cell) Paragraphs() []*Paragraph { return c.paragraphs }

// Text returns the cell's paragraph text joined by newlines.
func (c *Cell) Text() string {
	var b strings.Builder
	for i, p := range c.paragraphs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p.Text())
	}
	return b.String()
}

// DOM helpers. xmlquery keeps local names in Node.Data, so navigation
// here matches by local name and ignores namespace prefixes.

func childElem(n *xmlquery.Node, name string) *xmlquery.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == name {
			return c
		}
	}
	return nil
}

// findFirst descends through a chain of child element names.
func findFirst(n *xmlquery.Node, names ...string) *xmlquery.Node {
	cur := n
	for _, name := range names {
		cur = childElem(cur, name)
		if cur == nil {
			return nil
		}
	}
	return cur
}

func attr(n *xmlquery.Node, name string) string {
	for _, a := range n.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func boolAttr(n *xmlquery.Node, name string) bool {
	v := attr(n, name)
	return v == "1" || v == "true"
}

// setNodeText replaces the element's children with a single text node.
func setNodeText(n *xmlquery.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		xmlquery.RemoveFromTree(c)
		c = next
	}
	xmlquery.AddChild(n, &xmlquery.Node{Type: xmlquery.TextNode, Data: text})
}

// insertBefore links n into parent's children immediately before ref.
// A nil ref appends.
func insertBefore(parent, n, ref *xmlquery.Node) {
	if ref == nil {
		xmlquery.AddChild(parent, n)
		return
	}
	n.Parent = parent
	n.NextSibling = ref
	n.PrevSibling = ref.PrevSibling
	if ref.PrevSibling != nil {
		ref.PrevSibling.NextSibling = n
	} else {
		parent.FirstChild = n
	}
	ref.PrevSibling = n
}
