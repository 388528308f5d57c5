package extract

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/tsawler/slidepatch/model"
	"github.com/tsawler/slidepatch/pptx"
	"github.com/tsawler/slidepatch/resolver"
)

// Build produces the canonical document snapshot for a presentation.
// The same Options must later be passed to the mutation engine for
// recorded locators to resolve to the same elements.
func Build(f *pptx.File, opts resolver.Options) (*model.Document, error) {
	doc := &model.Document{
		SourcePath:  f.Path(),
		TotalSlides: f.SlideCount(),
	}
	doc.SlideWidth, doc.SlideHeight = f.SlideSize()

	for _, s := range f.Slides() {
		doc.Slides = append(doc.Slides, buildSlide(f, s, opts))
	}
	doc.Fingerprint = Fingerprint(f, opts)
	return doc, nil
}

func buildSlide(f *pptx.File, s *pptx.Slide, opts resolver.Options) *model.Slide {
	ordered := resolver.OrderedShapes(s, opts)
	titleIdx, titleShape := resolver.TitleShape(s, opts)

	slide := &model.Slide{
		SlideNumber:     s.Number(),
		SlideID:         s.SlideID(),
		Content:         make([]model.ContentEntry, 0),
		Shapes:          make([]*model.Shape, 0, len(ordered)),
		Notes:           s.Notes(),
		HasHeaderFooter: detectHeaderFooter(f, ordered),
	}

	if titleShape != nil {
		slide.Title = titleText(titleShape)
		loc := model.ShapeParagraphLocator(titleIdx, firstTextParagraph(titleShape))
		loc.ShapeID = titleShape.ID()
		slide.TitleLocator = &loc
	}

	for shapeIdx, sh := range ordered {
		ms := &model.Shape{
			ShapeIndex:  shapeIdx,
			ShapeID:     sh.ID(),
			Name:        sh.Name(),
			Kind:        sh.Kind(),
			Placeholder: sh.PlaceholderKind(),
			Top:         sh.Top(),
			Left:        sh.Left(),
			Paragraphs:  buildParagraphs(sh.Paragraphs()),
		}
		if sh.IsTable() {
			ms.Table = buildTable(sh, shapeIdx)
			slide.Tables = append(slide.Tables, ms.Table)
		}
		slide.Shapes = append(slide.Shapes, ms)
	}

	// Flat content and global indices come from the resolver's walk,
	// the same walk legacy resolution replays. The walk excludes the
	// title shape and tables; legacy flat numbering predates structured
	// addressing and never counted either.
	for globalIndex, we := range resolver.FlatWalk(s, opts) {
		ms := slide.Shapes[we.ShapeIndex]
		mp := ms.Paragraphs[we.ParagraphIndex]
		loc := model.ShapeParagraphLocator(we.ShapeIndex, we.ParagraphIndex).WithGlobalIndex(globalIndex)
		loc.ShapeID = ms.ShapeID
		slide.Content = append(slide.Content, model.ContentEntry{
			Locator:   loc,
			Text:      mp.Text,
			Level:     mp.Level,
			Alignment: mp.Alignment,
			Runs:      mp.Runs,
		})
	}
	return slide
}

// buildParagraphs converts live paragraphs to values, keeping raw
// indices so locators can address paragraphs that are currently blank.
func buildParagraphs(paras []*pptx.Paragraph) []*model.Paragraph {
	out := make([]*model.Paragraph, 0, len(paras))
	for i, p := range paras {
		out = append(out, &model.Paragraph{
			Index:     i,
			Text:      strings.TrimSpace(p.Text()),
			Level:     p.Level(),
			Alignment: p.Alignment(),
			Runs:      p.Runs(),
		})
	}
	return out
}

func buildTable(sh *pptx.Shape, shapeIdx int) *model.TableData {
	tbl := sh.Table()
	data := &model.TableData{
		ShapeIndex: shapeIdx,
		ShapeID:    sh.ID(),
		Rows:       tbl.Rows(),
		Cols:       tbl.Cols(),
		Cells:      make([]model.TableCell, 0),
	}
	for row := 0; row < tbl.Rows(); row++ {
		for col := 0; col < tbl.Cols(); col++ {
			cell := tbl.Cell(row, col)
			if cell == nil || cell.Spanned() {
				continue
			}
			data.Cells = append(data.Cells, model.TableCell{
				Row:        row,
				Col:        col,
				Text:       strings.TrimSpace(cell.Text()),
				Paragraphs: buildParagraphs(cell.Paragraphs()),
			})
		}
	}
	return data
}

// titleText joins the title shape's non-blank paragraphs.
func titleText(sh *pptx.Shape) string {
	var parts []string
	for _, p := range sh.Paragraphs() {
		if t := strings.TrimSpace(p.Text()); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

// firstTextParagraph returns the raw index of the first non-blank
// paragraph, which is what a title locator addresses.
func firstTextParagraph(sh *pptx.Shape) int {
	for i, p := range sh.Paragraphs() {
		if strings.TrimSpace(p.Text()) != "" {
			return i
		}
	}
	return 0
}

// detectHeaderFooter reports whether any shape sits in the top or
// bottom tenth of the slide, which is where header and footer
// placeholders live.
func detectHeaderFooter(f *pptx.File, shapes []*pptx.Shape) bool {
	_, height := f.SlideSize()
	if height <= 0 {
		return false
	}
	band := height / 10
	for _, sh := range shapes {
		if sh.Top() > height-band || (sh.Top() < band && isFooterKind(sh.PlaceholderKind())) {
			return true
		}
	}
	return false
}

func isFooterKind(k model.PlaceholderKind) bool {
	switch k {
	case model.PlaceholderFooter, model.PlaceholderDate, model.PlaceholderSlideNumber:
		return true
	}
	return false
}

// Fingerprint hashes the canonical structure of the presentation: per
// slide, the shape count and each shape's paragraph count or table
// dimensions. Text content is excluded so that text replacements do not
// invalidate it; structural edits do.
func Fingerprint(f *pptx.File, opts resolver.Options) string {
	h := blake3.New()
	for _, s := range f.Slides() {
		ordered := resolver.OrderedShapes(s, opts)
		fmt.Fprintf(h, "slide %d: %d shapes\n", s.Number(), len(ordered))
		for i, sh := range ordered {
			if sh.IsTable() {
				fmt.Fprintf(h, "  %d table %dx%d\n", i, sh.Table().Rows(), sh.Table().Cols())
				continue
			}
			fmt.Fprintf(h, "  %d text %d\n", i, len(sh.Paragraphs()))
		}
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:16])
}
