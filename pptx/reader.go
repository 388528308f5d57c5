package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Precompiled selectors for the fixed paths into slide and notes
// documents. Name tests must carry the producer prefix: with the pinned
// xmlquery/xpath an unprefixed name test matches only unprefixed
// elements, and PresentationML parts use the conventional p: prefix.
var (
	slideTreeQuery = xpath.MustCompile("/p:sld/p:cSld/p:spTree")
	notesTreeQuery = xpath.MustCompile("/p:notes/p:cSld/p:spTree")
)

// ErrNotPresentation indicates the input is not a readable PPTX package.
var ErrNotPresentation = errors.New("not a pptx presentation")

// File is an open presentation. All parts are held in memory so the
// package can be rewritten on Save without the source staying open.
type File struct {
	path        string
	names       []string // entry order from the source archive
	parts       map[string][]byte
	slides      []*Slide
	slideWidth  int64
	slideHeight int64
}

// Open reads a PPTX file into memory and parses its slides.
func Open(filename string) (*File, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	defer zr.Close()

	f := &File{
		path:  filename,
		parts: make(map[string][]byte),
	}
	for _, entry := range zr.File {
		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name, err)
		}
		f.names = append(f.names, entry.Name)
		f.parts[entry.Name] = data
	}

	if err := f.validate(); err != nil {
		return nil, err
	}
	if err := f.parsePresentation(); err != nil {
		return nil, fmt.Errorf("parsing presentation: %w", err)
	}
	if err := f.parseSlides(); err != nil {
		return nil, err
	}
	return f, nil
}

// validate checks that required PPTX parts exist.
func (f *File) validate() error {
	for _, name := range []string{"[Content_Types].xml", "ppt/presentation.xml"} {
		if _, ok := f.parts[name]; !ok {
			return fmt.Errorf("%w: missing %s", ErrNotPresentation, name)
		}
	}
	for name := range f.parts {
		if isSlidePart(name) {
			return nil
		}
	}
	return fmt.Errorf("%w: no slides found", ErrNotPresentation)
}

func isSlidePart(name string) bool {
	return strings.HasPrefix(name, "ppt/slides/slide") &&
		strings.HasSuffix(name, ".xml") &&
		!strings.Contains(name, "_rels")
}

// parsePresentation reads slide geometry and the authoritative slide
// order from ppt/presentation.xml and its relationships.
func (f *File) parsePresentation() error {
	var pres presentationXML
	if err := xml.Unmarshal(f.parts["ppt/presentation.xml"], &pres); err != nil {
		return err
	}
	if pres.SlideSz != nil {
		f.slideWidth = pres.SlideSz.Cx
		f.slideHeight = pres.SlideSz.Cy
	}
	return nil
}

// slideOrder returns slide part names in presentation order: sldIdLst
// order when the relationships resolve, filename-number order otherwise.
// The returned map carries the native slide id per part, when known.
func (f *File) slideOrder() ([]string, map[string]string) {
	ids := make(map[string]string)

	var pres presentationXML
	var rels relationshipsXML
	presOK := xml.Unmarshal(f.parts["ppt/presentation.xml"], &pres) == nil
	relsOK := false
	if data, ok := f.parts["ppt/_rels/presentation.xml.rels"]; ok {
		relsOK = xml.Unmarshal(data, &rels) == nil
	}

	if presOK && relsOK && pres.SlideIdList != nil {
		byID := make(map[string]string)
		for _, rel := range rels.Relationship {
			byID[rel.ID] = rel.Target
		}
		var ordered []string
		for _, sld := range pres.SlideIdList.SlideId {
			target, ok := byID[sld.RID]
			if !ok {
				continue
			}
			part := path.Clean(path.Join("ppt", strings.TrimPrefix(target, "/ppt/")))
			if !strings.HasPrefix(target, "/") {
				part = path.Clean(path.Join("ppt", target))
			}
			if _, exists := f.parts[part]; exists {
				ordered = append(ordered, part)
				ids[part] = sld.ID
			}
		}
		if len(ordered) > 0 {
			return ordered, ids
		}
	}

	// Fallback: sort slideN.xml parts by N.
	var names []string
	for _, name := range f.names {
		if isSlidePart(name) {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return slidePartNumber(names[i]) < slidePartNumber(names[j])
	})
	return names, ids
}

// slidePartNumber extracts N from "ppt/slides/slideN.xml".
func slidePartNumber(name string) int {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(name, "ppt/slides/slide"), ".xml")
	var n int
	fmt.Sscanf(trimmed, "%d", &n)
	return n
}

// parseSlides parses every slide part into a DOM and builds handles.
func (f *File) parseSlides() error {
	parts, ids := f.slideOrder()
	for i, part := range parts {
		doc, err := xmlquery.Parse(bytes.NewReader(f.parts[part]))
		if err != nil {
			return fmt.Errorf("parsing %s: %w", part, err)
		}
		s := &Slide{
			file:    f,
			part:    part,
			number:  i + 1,
			slideID: ids[part],
			doc:     doc,
		}
		s.parseShapes()
		s.parseNotes()
		f.slides = append(f.slides, s)
	}
	if len(f.slides) == 0 {
		return fmt.Errorf("%w: no slides could be parsed", ErrNotPresentation)
	}
	return nil
}

// Path returns the filename the presentation was opened from.
func (f *File) Path() string { return f.path }

// Slides returns the slides in presentation order.
func (f *File) Slides() []*Slide { return f.slides }

// SlideCount returns the number of slides.
func (f *File) SlideCount() int { return len(f.slides) }

// Slide returns the slide with the given 1-indexed number, or nil.
func (f *File) Slide(number int) *Slide {
	if number < 1 || number > len(f.slides) {
		return nil
	}
	return f.slides[number-1]
}

// SlideSize returns the slide dimensions in EMUs. Zero when the
// presentation does not declare them.
func (f *File) SlideSize() (width, height int64) {
	return f.slideWidth, f.slideHeight
}

// Slide is a live handle onto one slide's DOM.
type Slide struct {
	file    *File
	part    string
	number  int
	slideID string
	doc     *xmlquery.Node
	shapes  []*Shape
	notes   string
	dirty   bool
}

// Number returns the 1-indexed slide number.
func (s *Slide) Number() int { return s.number }

// SlideID returns the native slide id from the presentation, or "".
func (s *Slide) SlideID() string { return s.slideID }

// PartName returns the archive part this slide was parsed from.
func (s *Slide) PartName() string { return s.part }

// Shapes returns the slide's text-bearing and table shapes in raw file
// order, with grouped shapes flattened.
func (s *Slide) Shapes() []*Shape { return s.shapes }

// Notes returns the speaker notes text, or "".
func (s *Slide) Notes() string { return s.notes }

func (s *Slide) markDirty() { s.dirty = true }

// parseShapes walks the slide's shape tree and builds handles for
// text-bearing shapes and tables. Groups are flattened recursively, as
// in the extraction contract; pictures and empty shapes are skipped.
func (s *Slide) parseShapes() {
	spTree := xmlquery.QuerySelector(s.doc, slideTreeQuery)
	if spTree == nil {
		return
	}
	s.collectShapes(spTree)
}

func (s *Slide) collectShapes(tree *xmlquery.Node) {
	for n := tree.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != xmlquery.ElementNode {
			continue
		}
		switch n.Data {
		case "sp":
			if sh := newTextShape(s, n); sh != nil {
				s.shapes = append(s.shapes, sh)
			}
		case "graphicFrame":
			if sh := newTableShape(s, n); sh != nil {
				s.shapes = append(s.shapes, sh)
			}
		case "grpSp":
			s.collectShapes(n)
		}
	}
}

// parseNotes loads the speaker notes via the slide's relationships.
func (s *Slide) parseNotes() {
	relsPart := path.Join(path.Dir(s.part), "_rels", path.Base(s.part)+".rels")
	data, ok := s.file.parts[relsPart]
	if !ok {
		return
	}
	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		return
	}

	var notesPart string
	for _, rel := range rels.Relationship {
		if strings.Contains(rel.Type, "notesSlide") {
			notesPart = rel.Target
			break
		}
	}
	if notesPart == "" {
		return
	}
	if strings.HasPrefix(notesPart, "../") {
		notesPart = "ppt/" + strings.TrimPrefix(notesPart, "../")
	} else if !strings.HasPrefix(notesPart, "ppt/") {
		notesPart = "ppt/slides/" + notesPart
	}
	data, ok = s.file.parts[notesPart]
	if !ok {
		return
	}

	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return
	}
	spTree := xmlquery.QuerySelector(doc, notesTreeQuery)
	if spTree == nil {
		return
	}

	var text strings.Builder
	for n := spTree.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != xmlquery.ElementNode || n.Data != "sp" {
			continue
		}
		// Skip the slide-image placeholder.
		if ph := findFirst(n, "nvSpPr", "nvPr", "ph"); ph != nil && attr(ph, "type") == "sldImg" {
			continue
		}
		txBody := childElem(n, "txBody")
		if txBody == nil {
			continue
		}
		for p := txBody.FirstChild; p != nil; p = p.NextSibling {
			if p.Type != xmlquery.ElementNode || p.Data != "p" {
				continue
			}
			if t := strings.TrimSpace(paragraphText(p)); t != "" {
				if text.Len() > 0 {
					text.WriteString("\n")
				}
				text.WriteString(t)
			}
		}
	}
	s.notes = text.String()
}
