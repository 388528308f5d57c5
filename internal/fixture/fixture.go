// Package fixture builds small synthetic PPTX packages for tests.
//
// A Deck describes slides declaratively; Write produces a real ZIP
// package in a temp directory with the presentation part, relationship
// parts, slide parts, and optional notes parts, so tests exercise the
// same parsing path as production files.
//
//	deck := fixture.Deck{
//	    Slides: []fixture.SlideSpec{{
//	        Shapes: []fixture.ShapeSpec{
//	            fixture.Title("Quarterly Review"),
//	            fixture.Text(2000000, 500000, "First point", "Second point"),
//	        },
//	    }},
//	}
//	path := deck.Write(t)
package fixture

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Deck describes a synthetic presentation.
type Deck struct {
	SlideWidth  int64 // EMUs; zero defaults to 12192000 (16:9)
	SlideHeight int64 // EMUs; zero defaults to 6858000
	Slides      []SlideSpec

	// Raw parts are written after generation and override generated
	// parts with the same name. Useful for malformed-input tests.
	Raw map[string]string
}

// SlideSpec describes one slide.
type SlideSpec struct {
	Shapes []ShapeSpec
	Notes  string
}

// ShapeSpec describes one shape. Exactly one of Paragraphs, Table, or
// Group should be set; a spec with none of them emits an empty <sp>.
type ShapeSpec struct {
	ID          string // auto-assigned when empty
	Name        string
	Placeholder string // ph type attribute; "" omits the ph element
	Top, Left   int64
	NoOffset    bool // omit xfrm, as layout-inherited shapes do

	Paragraphs []ParagraphSpec
	Table      *TableSpec
	Group      []ShapeSpec
}

// ParagraphSpec describes one paragraph.
type ParagraphSpec struct {
	Level int
	Align string
	Runs  []RunSpec
}

// RunSpec describes one run, line break, or field inside a paragraph.
type RunSpec struct {
	Text   string
	Size   float64 // points; zero omits the sz attribute
	Bold   bool
	Italic bool
	Font   string

	Break bool // emit <a:br/> instead of a run
	Field bool // emit an <a:fld> carrying Text
}

// TableSpec describes a table shape.
type TableSpec struct {
	Rows [][]CellSpec
}

// CellSpec describes one table cell. HMerge and VMerge mark merged
// continuation cells.
type CellSpec struct {
	Text   string
	HMerge bool
	VMerge bool
}

// Title returns a title-placeholder shape near the slide top.
func Title(text string) ShapeSpec {
	return ShapeSpec{
		Name:        "Title 1",
		Placeholder: "title",
		Top:         200000,
		Left:        500000,
		Paragraphs:  []ParagraphSpec{Para(text)},
	}
}

// Text returns a plain text box at the given position with one
// paragraph per line.
func Text(top, left int64, lines ...string) ShapeSpec {
	sh := ShapeSpec{Top: top, Left: left}
	for _, line := range lines {
		sh.Paragraphs = append(sh.Paragraphs, Para(line))
	}
	return sh
}

// Para returns a single-run paragraph.
func Para(text string) ParagraphSpec {
	return ParagraphSpec{Runs: []RunSpec{{Text: text}}}
}

// Row returns a table row of plain cells.
func Row(texts ...string) []CellSpec {
	row := make([]CellSpec, len(texts))
	for i, t := range texts {
		row[i] = CellSpec{Text: t}
	}
	return row
}

// Write builds the package under t.TempDir() and returns its path.
func (d Deck) Write(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.pptx")
	if err := d.WriteFile(path); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

// WriteFile builds the package at the given path.
func (d Deck) WriteFile(path string) error {
	parts := d.parts()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return err
		}
		if _, err := w.Write([]byte(p.data)); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

type part struct {
	name string
	data string
}

func (d Deck) parts() []part {
	width, height := d.SlideWidth, d.SlideHeight
	if width == 0 {
		width = 12192000
	}
	if height == 0 {
		height = 6858000
	}

	parts := []part{
		{"[Content_Types].xml", d.contentTypes()},
		{"_rels/.rels", rootRels},
		{"ppt/presentation.xml", d.presentation(width, height)},
		{"ppt/_rels/presentation.xml.rels", d.presentationRels()},
	}
	for i, slide := range d.Slides {
		n := i + 1
		parts = append(parts, part{
			fmt.Sprintf("ppt/slides/slide%d.xml", n),
			slide.xml(),
		})
		if slide.Notes != "" {
			parts = append(parts,
				part{
					fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n),
					slideRels(n),
				},
				part{
					fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", n),
					notesXML(slide.Notes),
				},
			)
		}
	}

	if len(d.Raw) == 0 {
		return parts
	}
	seen := make(map[string]bool)
	for i, p := range parts {
		if data, ok := d.Raw[p.name]; ok {
			parts[i].data = data
			seen[p.name] = true
		}
	}
	for name, data := range d.Raw {
		if !seen[name] {
			parts = append(parts, part{name, data})
		}
	}
	return parts
}

const xmlDecl = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const rootRels = xmlDecl + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>` +
	`</Relationships>`

func (d Deck) contentTypes() string {
	var b strings.Builder
	b.WriteString(xmlDecl)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	for i, slide := range d.Slides {
		fmt.Fprintf(&b, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i+1)
		if slide.Notes != "" {
			fmt.Fprintf(&b, `<Override PartName="/ppt/notesSlides/notesSlide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"/>`, i+1)
		}
	}
	b.WriteString(`</Types>`)
	return b.String()
}

func (d Deck) presentation(width, height int64) string {
	var b strings.Builder
	b.WriteString(xmlDecl)
	b.WriteString(`<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	b.WriteString(`<p:sldIdLst>`)
	for i := range d.Slides {
		fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+1)
	}
	b.WriteString(`</p:sldIdLst>`)
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d"/>`, width, height)
	b.WriteString(`</p:presentation>`)
	return b.String()
}

func (d Deck) presentationRels() string {
	var b strings.Builder
	b.WriteString(xmlDecl)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for i := range d.Slides {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, i+1, i+1)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func slideRels(n int) string {
	return xmlDecl + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		fmt.Sprintf(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide" Target="../notesSlides/notesSlide%d.xml"/>`, n) +
		`</Relationships>`
}

func notesXML(notes string) string {
	var b strings.Builder
	b.WriteString(xmlDecl)
	b.WriteString(`<p:notes xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	b.WriteString(`<p:cSld><p:spTree>`)
	// The slide-image placeholder real producers emit; parsing skips it.
	b.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Slide Image Placeholder 1"/><p:cNvSpPr/><p:nvPr><p:ph type="sldImg"/></p:nvPr></p:nvSpPr><p:spPr/></p:sp>`)
	b.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Notes Placeholder 2"/><p:cNvSpPr/><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/>`)
	for _, line := range strings.Split(notes, "\n") {
		b.WriteString(`<a:p><a:r><a:t>`)
		b.WriteString(escape(line))
		b.WriteString(`</a:t></a:r></a:p>`)
	}
	b.WriteString(`</p:txBody></p:sp>`)
	b.WriteString(`</p:spTree></p:cSld></p:notes>`)
	return b.String()
}

func (s SlideSpec) xml() string {
	var b strings.Builder
	b.WriteString(xmlDecl)
	b.WriteString(`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	b.WriteString(`<p:cSld><p:spTree>`)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)
	id := 2
	for _, sh := range s.Shapes {
		sh.write(&b, &id)
	}
	b.WriteString(`</p:spTree></p:cSld></p:sld>`)
	return b.String()
}

func (sh ShapeSpec) write(b *strings.Builder, id *int) {
	shapeID := sh.ID
	if shapeID == "" {
		shapeID = fmt.Sprintf("%d", *id)
	}
	*id++

	switch {
	case sh.Group != nil:
		b.WriteString(`<p:grpSp>`)
		fmt.Fprintf(b, `<p:nvGrpSpPr><p:cNvPr id="%s" name="%s"/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`,
			escape(shapeID), escape(sh.Name))
		for _, child := range sh.Group {
			child.write(b, id)
		}
		b.WriteString(`</p:grpSp>`)

	case sh.Table != nil:
		b.WriteString(`<p:graphicFrame>`)
		fmt.Fprintf(b, `<p:nvGraphicFramePr><p:cNvPr id="%s" name="%s"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr>`,
			escape(shapeID), escape(sh.Name))
		if !sh.NoOffset {
			fmt.Fprintf(b, `<p:xfrm><a:off x="%d" y="%d"/><a:ext cx="3000000" cy="1000000"/></p:xfrm>`, sh.Left, sh.Top)
		}
		b.WriteString(`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table">`)
		sh.Table.write(b)
		b.WriteString(`</a:graphicData></a:graphic></p:graphicFrame>`)

	default:
		b.WriteString(`<p:sp><p:nvSpPr>`)
		fmt.Fprintf(b, `<p:cNvPr id="%s" name="%s"/><p:cNvSpPr/><p:nvPr>`, escape(shapeID), escape(sh.Name))
		if sh.Placeholder != "" {
			fmt.Fprintf(b, `<p:ph type="%s"/>`, escape(sh.Placeholder))
		}
		b.WriteString(`</p:nvPr></p:nvSpPr><p:spPr>`)
		if !sh.NoOffset {
			fmt.Fprintf(b, `<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="3000000" cy="1000000"/></a:xfrm>`, sh.Left, sh.Top)
		}
		b.WriteString(`</p:spPr>`)
		if len(sh.Paragraphs) > 0 {
			b.WriteString(`<p:txBody><a:bodyPr/>`)
			for _, p := range sh.Paragraphs {
				p.write(b)
			}
			b.WriteString(`</p:txBody>`)
		}
		b.WriteString(`</p:sp>`)
	}
}

func (p ParagraphSpec) write(b *strings.Builder) {
	b.WriteString(`<a:p>`)
	if p.Level > 0 || p.Align != "" {
		b.WriteString(`<a:pPr`)
		if p.Level > 0 {
			fmt.Fprintf(b, ` lvl="%d"`, p.Level)
		}
		if p.Align != "" {
			fmt.Fprintf(b, ` algn="%s"`, escape(p.Align))
		}
		b.WriteString(`/>`)
	}
	for _, r := range p.Runs {
		r.write(b)
	}
	b.WriteString(`<a:endParaRPr lang="en-US"/>`)
	b.WriteString(`</a:p>`)
}

func (r RunSpec) write(b *strings.Builder) {
	if r.Break {
		b.WriteString(`<a:br/>`)
		return
	}
	if r.Field {
		fmt.Fprintf(b, `<a:fld id="{1F9619AE-1111-2222-3333-444455556666}" type="slidenum"><a:t>%s</a:t></a:fld>`, escape(r.Text))
		return
	}

	b.WriteString(`<a:r>`)
	b.WriteString(`<a:rPr lang="en-US"`)
	if r.Size > 0 {
		fmt.Fprintf(b, ` sz="%d"`, int(r.Size*100))
	}
	if r.Bold {
		b.WriteString(` b="1"`)
	}
	if r.Italic {
		b.WriteString(` i="1"`)
	}
	if r.Font != "" {
		fmt.Fprintf(b, `><a:latin typeface="%s"/></a:rPr>`, escape(r.Font))
	} else {
		b.WriteString(`/>`)
	}
	fmt.Fprintf(b, `<a:t>%s</a:t></a:r>`, escape(r.Text))
}

func (t TableSpec) write(b *strings.Builder) {
	b.WriteString(`<a:tbl><a:tblPr/><a:tblGrid>`)
	cols := 0
	if len(t.Rows) > 0 {
		cols = len(t.Rows[0])
	}
	for i := 0; i < cols; i++ {
		b.WriteString(`<a:gridCol w="1500000"/>`)
	}
	b.WriteString(`</a:tblGrid>`)
	for _, row := range t.Rows {
		b.WriteString(`<a:tr h="370840">`)
		for _, c := range row {
			b.WriteString(`<a:tc`)
			if c.HMerge {
				b.WriteString(` hMerge="1"`)
			}
			if c.VMerge {
				b.WriteString(` vMerge="1"`)
			}
			b.WriteString(`>`)
			fmt.Fprintf(b, `<a:txBody><a:bodyPr/><a:p><a:r><a:t>%s</a:t></a:r></a:p></a:txBody><a:tcPr/>`, escape(c.Text))
			b.WriteString(`</a:tc>`)
		}
		b.WriteString(`</a:tr>`)
	}
	b.WriteString(`</a:tbl>`)
}

func escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
