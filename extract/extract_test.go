package extract

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/tsawler/slidepatch/internal/fixture"
	"github.com/tsawler/slidepatch/model"
	"github.com/tsawler/slidepatch/pptx"
	"github.com/tsawler/slidepatch/resolver"
)

func buildDoc(t *testing.T, deck fixture.Deck) *model.Document {
	t.Helper()
	f, err := pptx.Open(deck.Write(t))
	if err != nil {
		t.Fatalf("opening fixture: %v", err)
	}
	doc, err := Build(f, resolver.Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return doc
}

func reportDeck() fixture.Deck {
	return fixture.Deck{
		Slides: []fixture.SlideSpec{
			{
				Shapes: []fixture.ShapeSpec{
					fixture.Title("2024年第三季度销售情况"),
					fixture.Text(2000000, 500000, "本季度销售额增长", "重点区域表现稳定"),
					{
						Top: 4000000, Left: 500000,
						Table: &fixture.TableSpec{
							Rows: [][]fixture.CellSpec{
								fixture.Row("区域", "销售额"),
								fixture.Row("华北", "120万"),
							},
						},
					},
				},
				Notes: "内部备注",
			},
			{
				Shapes: []fixture.ShapeSpec{
					fixture.Text(500000, 500000, "总结"),
				},
			},
		},
	}
}

func TestBuildDocument(t *testing.T) {
	doc := buildDoc(t, reportDeck())

	if doc.TotalSlides != 2 || len(doc.Slides) != 2 {
		t.Fatalf("TotalSlides = %d, len(Slides) = %d", doc.TotalSlides, len(doc.Slides))
	}
	if doc.SlideWidth != 12192000 || doc.SlideHeight != 6858000 {
		t.Errorf("slide size = %dx%d", doc.SlideWidth, doc.SlideHeight)
	}
	if doc.Fingerprint == "" {
		t.Error("missing fingerprint")
	}
	if doc.SourcePath == "" {
		t.Error("missing source path")
	}
}

func TestBuildSlideTitle(t *testing.T) {
	doc := buildDoc(t, reportDeck())
	s := doc.GetSlide(1)

	if s.Title != "2024年第三季度销售情况" {
		t.Errorf("Title = %q", s.Title)
	}
	if s.TitleLocator == nil {
		t.Fatal("missing title locator")
	}
	if s.TitleLocator.Kind != model.LocatorShapeParagraph || s.TitleLocator.ShapeIndex != 0 {
		t.Errorf("TitleLocator = %+v", s.TitleLocator)
	}
	if s.TitleLocator.ShapeID == "" {
		t.Error("title locator missing native shape id")
	}
	if s.SlideID != "256" {
		t.Errorf("SlideID = %q", s.SlideID)
	}
	if s.Notes != "内部备注" {
		t.Errorf("Notes = %q", s.Notes)
	}
}

func TestBuildContentExcludesTitleAndTables(t *testing.T) {
	doc := buildDoc(t, reportDeck())
	s := doc.GetSlide(1)

	if len(s.Content) != 2 {
		t.Fatalf("len(Content) = %d, want 2", len(s.Content))
	}
	for _, e := range s.Content {
		if e.Text == s.Title {
			t.Error("title leaked into flat content")
		}
	}
	if s.Content[0].Text != "本季度销售额增长" || s.Content[1].Text != "重点区域表现稳定" {
		t.Errorf("content = %q / %q", s.Content[0].Text, s.Content[1].Text)
	}

	// Shapes still records everything, title and table included.
	if len(s.Shapes) != 3 {
		t.Errorf("len(Shapes) = %d, want 3", len(s.Shapes))
	}
}

func TestBuildGlobalIndices(t *testing.T) {
	doc := buildDoc(t, reportDeck())
	s := doc.GetSlide(1)

	for i, e := range s.Content {
		if e.GlobalIndex == nil {
			t.Fatalf("content[%d] missing global_index", i)
		}
		if *e.GlobalIndex != i {
			t.Errorf("content[%d].GlobalIndex = %d", i, *e.GlobalIndex)
		}
		if e.Kind != model.LocatorShapeParagraph {
			t.Errorf("content[%d].Kind = %s", i, e.Kind)
		}
		if e.ShapeID == "" {
			t.Errorf("content[%d] missing shape id", i)
		}
	}
}

func TestBuildParagraphIndicesAreRaw(t *testing.T) {
	deck := fixture.Deck{
		Slides: []fixture.SlideSpec{{
			Shapes: []fixture.ShapeSpec{
				fixture.Title("T"),
				{
					Top: 2000000, Left: 500000,
					Paragraphs: []fixture.ParagraphSpec{
						{}, // blank paragraph at raw index 0
						fixture.Para("visible"),
					},
				},
			},
		}},
	}
	doc := buildDoc(t, deck)
	s := doc.GetSlide(1)

	if len(s.Content) != 1 {
		t.Fatalf("len(Content) = %d, want 1", len(s.Content))
	}
	// The locator records the raw index, blanks included, so it stays
	// valid against the live shape.
	if s.Content[0].ParagraphIndex != 1 {
		t.Errorf("ParagraphIndex = %d, want 1", s.Content[0].ParagraphIndex)
	}

	sh := s.Shapes[1]
	if len(sh.Paragraphs) != 2 {
		t.Fatalf("len(Paragraphs) = %d, want 2 raw", len(sh.Paragraphs))
	}
	if sh.Paragraphs[0].Index != 0 || sh.Paragraphs[0].Text != "" {
		t.Errorf("raw paragraph 0 = %+v", sh.Paragraphs[0])
	}
}

func TestBuildTable(t *testing.T) {
	doc := buildDoc(t, reportDeck())
	s := doc.GetSlide(1)

	if len(s.Tables) != 1 {
		t.Fatalf("len(Tables) = %d, want 1", len(s.Tables))
	}
	tbl := s.Tables[0]
	if tbl.Rows != 2 || tbl.Cols != 2 {
		t.Errorf("table %dx%d, want 2x2", tbl.Rows, tbl.Cols)
	}
	if tbl.ShapeIndex != 2 {
		t.Errorf("table ShapeIndex = %d, want 2", tbl.ShapeIndex)
	}
	if len(tbl.Cells) != 4 {
		t.Fatalf("len(Cells) = %d, want 4", len(tbl.Cells))
	}
	if tbl.Cells[0].Text != "区域" || tbl.Cells[3].Text != "120万" {
		t.Errorf("cells = %+v", tbl.Cells)
	}
}

func TestBuildTableSkipsSpannedCells(t *testing.T) {
	deck := fixture.Deck{
		Slides: []fixture.SlideSpec{{
			Shapes: []fixture.ShapeSpec{{
				Top: 1000000, Left: 500000,
				Table: &fixture.TableSpec{
					Rows: [][]fixture.CellSpec{
						fixture.Row("head", "spans"),
						{{Text: "body"}, {VMerge: true}},
					},
				},
			}},
		}},
	}
	doc := buildDoc(t, deck)
	tbl := doc.GetSlide(1).Tables[0]

	if len(tbl.Cells) != 3 {
		t.Fatalf("len(Cells) = %d, want 3 (spanned cell omitted)", len(tbl.Cells))
	}
	for _, c := range tbl.Cells {
		if c.Row == 1 && c.Col == 1 {
			t.Error("spanned continuation cell present in extraction")
		}
	}
}

// Every locator the builder records must resolve, through the
// resolver, back to the paragraph it was recorded from, by the primary
// address and by the compatibility global index alike.
func TestNoLegacyIndexDrift(t *testing.T) {
	deck := reportDeck()
	// A blank paragraph and a second text shape make raw and flat
	// numbering diverge.
	deck.Slides[0].Shapes[1].Paragraphs = append(
		[]fixture.ParagraphSpec{{}},
		deck.Slides[0].Shapes[1].Paragraphs...)
	deck.Slides[0].Shapes = append(deck.Slides[0].Shapes,
		fixture.Text(5000000, 500000, "补充说明"))

	f, err := pptx.Open(deck.Write(t))
	if err != nil {
		t.Fatal(err)
	}
	opts := resolver.Options{}
	doc, err := Build(f, opts)
	if err != nil {
		t.Fatal(err)
	}

	for _, slide := range doc.Slides {
		live := f.Slide(slide.SlideNumber)
		for i, entry := range slide.Content {
			p, err := resolver.Resolve(live, entry.Locator, opts)
			if err != nil {
				t.Fatalf("slide %d content %d: primary resolve: %v", slide.SlideNumber, i, err)
			}
			if got := strings.TrimSpace(p.Text()); got != entry.Text {
				t.Errorf("slide %d content %d: primary resolved %q, recorded %q",
					slide.SlideNumber, i, got, entry.Text)
			}

			if entry.GlobalIndex == nil {
				t.Fatalf("slide %d content %d: missing global index", slide.SlideNumber, i)
			}
			q, err := resolver.Resolve(live, model.LegacyLocator(*entry.GlobalIndex), opts)
			if err != nil {
				t.Fatalf("slide %d content %d: legacy resolve: %v", slide.SlideNumber, i, err)
			}
			if q != p {
				t.Errorf("slide %d content %d: global index %d resolves to a different paragraph",
					slide.SlideNumber, i, *entry.GlobalIndex)
			}
		}
	}
}

// A slide with no text-bearing shape has an empty title and no title
// locator; the empty string is the serialized form of "no title".
func TestBuildSlideWithoutTitle(t *testing.T) {
	deck := fixture.Deck{
		Slides: []fixture.SlideSpec{{
			Shapes: []fixture.ShapeSpec{{
				Top: 1000000, Left: 500000,
				Table: &fixture.TableSpec{Rows: [][]fixture.CellSpec{fixture.Row("only", "tables")}},
			}},
		}},
	}
	doc := buildDoc(t, deck)
	s := doc.GetSlide(1)
	if s.Title != "" {
		t.Errorf("Title = %q, want empty", s.Title)
	}
	if s.TitleLocator != nil {
		t.Errorf("TitleLocator = %+v, want nil", s.TitleLocator)
	}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"title":""`) {
		t.Errorf("serialized slide missing empty title: %s", data)
	}
	if strings.Contains(string(data), "title_locator") {
		t.Errorf("title_locator serialized for a title-less slide: %s", data)
	}
}

func TestDetectHeaderFooter(t *testing.T) {
	withFooter := fixture.Deck{
		Slides: []fixture.SlideSpec{{
			Shapes: []fixture.ShapeSpec{
				fixture.Text(1000000, 500000, "body"),
				{
					Top: 6600000, Left: 500000, // bottom tenth of 6858000
					Placeholder: "ftr",
					Paragraphs:  []fixture.ParagraphSpec{fixture.Para("Confidential")},
				},
			},
		}},
	}
	if doc := buildDoc(t, withFooter); !doc.GetSlide(1).HasHeaderFooter {
		t.Error("footer shape not detected")
	}

	without := fixture.Deck{
		Slides: []fixture.SlideSpec{{
			Shapes: []fixture.ShapeSpec{
				fixture.Text(1000000, 500000, "body only"),
			},
		}},
	}
	if doc := buildDoc(t, without); doc.GetSlide(1).HasHeaderFooter {
		t.Error("header/footer reported on a plain slide")
	}
}

func TestFingerprintStableUnderTextChange(t *testing.T) {
	f, err := pptx.Open(reportDeck().Write(t))
	if err != nil {
		t.Fatal(err)
	}
	before := Fingerprint(f, resolver.Options{})

	f.Slide(1).Shapes()[1].Paragraphs()[0].SetText("全年销售额增长")
	after := Fingerprint(f, resolver.Options{})
	if before != after {
		t.Error("text replacement changed the structural fingerprint")
	}
}

func TestFingerprintChangesWithStructure(t *testing.T) {
	base := reportDeck()
	a := buildDoc(t, base)

	changed := reportDeck()
	changed.Slides[0].Shapes = append(changed.Slides[0].Shapes,
		fixture.Text(5000000, 500000, "新增段落"))
	b := buildDoc(t, changed)

	if a.Fingerprint == b.Fingerprint {
		t.Error("added shape did not change the fingerprint")
	}
	if len(a.Fingerprint) != 32 {
		t.Errorf("fingerprint length = %d, want 32 hex chars", len(a.Fingerprint))
	}
}
