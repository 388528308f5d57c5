package resolver

import (
	"errors"
	"testing"

	"github.com/tsawler/slidepatch/internal/fixture"
	"github.com/tsawler/slidepatch/model"
	"github.com/tsawler/slidepatch/pptx"
)

func openSlide(t *testing.T, deck fixture.Deck) *pptx.Slide {
	t.Helper()
	f, err := pptx.Open(deck.Write(t))
	if err != nil {
		t.Fatalf("opening fixture: %v", err)
	}
	return f.Slide(1)
}

// layoutDeck has shapes deliberately out of reading order in the file:
// the body comes first, then the title, then two columns in one row.
func layoutDeck() fixture.Deck {
	return fixture.Deck{
		Slides: []fixture.SlideSpec{{
			Shapes: []fixture.ShapeSpec{
				fixture.Text(2000000, 500000, "body one", "body two"),
				fixture.Title("Deck Title"),
				fixture.Text(4000000, 6000000, "right column"),
				fixture.Text(4010000, 500000, "left column"),
			},
		}},
	}
}

func TestOrderedShapes(t *testing.T) {
	s := openSlide(t, layoutDeck())
	ordered := OrderedShapes(s, Options{})
	if len(ordered) != 4 {
		t.Fatalf("len = %d, want 4", len(ordered))
	}
	want := []string{"Deck Title", "body one\nbody two", "left column", "right column"}
	for i, sh := range ordered {
		if sh.Text() != want[i] {
			t.Errorf("ordered[%d] = %q, want %q", i, sh.Text(), want[i])
		}
	}
}

func TestTitleShapePlaceholder(t *testing.T) {
	s := openSlide(t, layoutDeck())
	idx, sh := TitleShape(s, Options{})
	if idx != 0 || sh == nil || sh.Text() != "Deck Title" {
		t.Errorf("TitleShape = (%d, %v)", idx, sh)
	}
}

func TestTitleShapeHeuristic(t *testing.T) {
	deck := fixture.Deck{
		Slides: []fixture.SlideSpec{{
			Shapes: []fixture.ShapeSpec{
				{
					Top: 150000, Left: 500000,
					Paragraphs: []fixture.ParagraphSpec{{
						Runs: []fixture.RunSpec{{Text: "Big Heading", Size: 28}},
					}},
				},
				{
					Top: 2000000, Left: 500000,
					Paragraphs: []fixture.ParagraphSpec{{
						Runs: []fixture.RunSpec{{Text: "body text", Size: 18}},
					}},
				},
				{
					Top: 3000000, Left: 500000,
					Paragraphs: []fixture.ParagraphSpec{{
						Runs: []fixture.RunSpec{{Text: "more body", Size: 18}},
					}},
				},
			},
		}},
	}
	s := openSlide(t, deck)
	idx, sh := TitleShape(s, Options{})
	if idx != 0 || sh == nil || sh.Text() != "Big Heading" {
		t.Errorf("TitleShape = (%d, %v), want the oversized top shape", idx, sh)
	}
}

func TestTitleShapeNone(t *testing.T) {
	deck := fixture.Deck{
		Slides: []fixture.SlideSpec{{
			Shapes: []fixture.ShapeSpec{{
				Top: 1000000, Left: 500000,
				Table: &fixture.TableSpec{Rows: [][]fixture.CellSpec{fixture.Row("only", "tables")}},
			}},
		}},
	}
	s := openSlide(t, deck)
	if idx, sh := TitleShape(s, Options{}); idx != -1 || sh != nil {
		t.Errorf("TitleShape on table-only slide = (%d, %v), want (-1, nil)", idx, sh)
	}
}

func TestResolveShapeParagraph(t *testing.T) {
	s := openSlide(t, layoutDeck())

	p, err := Resolve(s, model.ShapeParagraphLocator(1, 1), Options{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.Text() != "body two" {
		t.Errorf("resolved %q, want body two", p.Text())
	}

	// The title is addressable as an ordinary shape.
	p, err = Resolve(s, model.ShapeParagraphLocator(0, 0), Options{})
	if err != nil {
		t.Fatalf("Resolve title: %v", err)
	}
	if p.Text() != "Deck Title" {
		t.Errorf("resolved %q, want Deck Title", p.Text())
	}
}

func TestResolveOutOfRange(t *testing.T) {
	s := openSlide(t, layoutDeck())
	cases := []model.Locator{
		model.ShapeParagraphLocator(9, 0),
		model.ShapeParagraphLocator(1, 9),
		model.TableCellLocator(1, 0, 0), // shape 1 is not a table
	}
	for _, loc := range cases {
		if _, err := Resolve(s, loc, Options{}); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Resolve(%s) = %v, want ErrOutOfRange", loc, err)
		}
	}
}

// Out-of-contract locators arriving below the mutation engine's schema
// gate must still come back as ErrOutOfRange, never a panic.
func TestResolveNegativeIndices(t *testing.T) {
	s := openSlide(t, layoutDeck())
	cases := []model.Locator{
		model.ShapeParagraphLocator(-1, 0),
		model.ShapeParagraphLocator(1, -1),
		model.LegacyLocator(-1),
	}
	for _, loc := range cases {
		if _, err := Resolve(s, loc, Options{}); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Resolve(%s) = %v, want ErrOutOfRange", loc, err)
		}
	}
}

func TestResolveNegativeTableCell(t *testing.T) {
	deck := fixture.Deck{
		Slides: []fixture.SlideSpec{{
			Shapes: []fixture.ShapeSpec{{
				Top: 1000000, Left: 500000,
				Table: &fixture.TableSpec{
					Rows: [][]fixture.CellSpec{fixture.Row("a", "b")},
				},
			}},
		}},
	}
	s := openSlide(t, deck)
	for _, loc := range []model.Locator{
		model.TableCellLocator(0, -1, 0),
		model.TableCellLocator(0, 0, -1),
		model.TableCellLocator(-1, 0, 0),
	} {
		if _, err := Resolve(s, loc, Options{}); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Resolve(%s) = %v, want ErrOutOfRange", loc, err)
		}
	}
}

func TestResolveShapeIDCrossCheck(t *testing.T) {
	s := openSlide(t, layoutDeck())
	ordered := OrderedShapes(s, Options{})

	loc := model.ShapeParagraphLocator(1, 0)
	loc.ShapeID = ordered[1].ID()
	if _, err := Resolve(s, loc, Options{}); err != nil {
		t.Errorf("matching shape id rejected: %v", err)
	}

	loc.ShapeID = "9999"
	if _, err := Resolve(s, loc, Options{}); !errors.Is(err, ErrShapeIDMismatch) {
		t.Errorf("Resolve with wrong shape id = %v, want ErrShapeIDMismatch", err)
	}
}

func TestResolveTableCell(t *testing.T) {
	deck := fixture.Deck{
		Slides: []fixture.SlideSpec{{
			Shapes: []fixture.ShapeSpec{
				fixture.Title("With Table"),
				{
					Top: 2000000, Left: 500000,
					Table: &fixture.TableSpec{
						Rows: [][]fixture.CellSpec{
							fixture.Row("Region", "Sales"),
							fixture.Row("North", "120"),
						},
					},
				},
			},
		}},
	}
	s := openSlide(t, deck)

	p, err := Resolve(s, model.TableCellLocator(1, 1, 0), Options{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.Text() != "North" {
		t.Errorf("resolved %q, want North", p.Text())
	}

	if _, err := Resolve(s, model.TableCellLocator(1, 5, 0), Options{}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("out-of-range cell = %v, want ErrOutOfRange", err)
	}
}

func TestGlobalWalk(t *testing.T) {
	deck := fixture.Deck{
		Slides: []fixture.SlideSpec{{
			Shapes: []fixture.ShapeSpec{
				fixture.Title("Skipped Title"),
				{
					Top: 2000000, Left: 500000,
					Paragraphs: []fixture.ParagraphSpec{
						fixture.Para("first"),
						{}, // blank, skipped
						fixture.Para("second"),
					},
				},
				{
					Top: 3000000, Left: 500000,
					Table: &fixture.TableSpec{Rows: [][]fixture.CellSpec{fixture.Row("cell")}},
				},
				fixture.Text(4000000, 500000, "third"),
			},
		}},
	}
	s := openSlide(t, deck)

	walk := GlobalWalk(s, Options{})
	if len(walk) != 3 {
		t.Fatalf("len(walk) = %d, want 3", len(walk))
	}
	want := []string{"first", "second", "third"}
	for i, p := range walk {
		if p.Text() != want[i] {
			t.Errorf("walk[%d] = %q, want %q", i, p.Text(), want[i])
		}
	}

	// FlatWalk carries the canonical indices each paragraph was reached
	// through, raw paragraph positions included (the blank in shape 1
	// is skipped but still counted).
	entries := FlatWalk(s, Options{})
	wantIdx := []struct{ shape, para int }{{1, 0}, {1, 2}, {3, 0}}
	for i, e := range entries {
		if e.ShapeIndex != wantIdx[i].shape || e.ParagraphIndex != wantIdx[i].para {
			t.Errorf("entries[%d] = (%d, %d), want (%d, %d)",
				i, e.ShapeIndex, e.ParagraphIndex, wantIdx[i].shape, wantIdx[i].para)
		}
		if e.Paragraph != walk[i] {
			t.Errorf("entries[%d] paragraph diverges from GlobalWalk", i)
		}
	}
}

func TestResolveLegacy(t *testing.T) {
	deck := fixture.Deck{
		Slides: []fixture.SlideSpec{{
			Shapes: []fixture.ShapeSpec{
				fixture.Title("Title"),
				fixture.Text(2000000, 500000, "first", "second"),
			},
		}},
	}
	s := openSlide(t, deck)

	p, err := Resolve(s, model.LegacyLocator(1), Options{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.Text() != "second" {
		t.Errorf("resolved %q, want second", p.Text())
	}

	// Beyond range on a table-free slide is plainly out of range.
	if _, err := Resolve(s, model.LegacyLocator(5), Options{}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("beyond range = %v, want ErrOutOfRange", err)
	}

	if _, err := Resolve(s, model.Locator{Kind: model.LocatorLegacy}, Options{}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("missing global_index = %v, want ErrOutOfRange", err)
	}
}

func TestResolveLegacyAmbiguous(t *testing.T) {
	deck := fixture.Deck{
		Slides: []fixture.SlideSpec{{
			Shapes: []fixture.ShapeSpec{
				fixture.Text(500000, 500000, "only paragraph"),
				{
					Top: 2000000, Left: 500000,
					Table: &fixture.TableSpec{
						Rows: [][]fixture.CellSpec{fixture.Row("a", "b")},
					},
				},
			},
		}},
	}
	s := openSlide(t, deck)

	// Index 5 is beyond the walk; the producer may have counted the
	// table's cells, so resolution must refuse rather than guess.
	if _, err := Resolve(s, model.LegacyLocator(5), Options{}); !errors.Is(err, ErrAmbiguousLegacyIndex) {
		t.Errorf("beyond range with tables = %v, want ErrAmbiguousLegacyIndex", err)
	}
}

func TestRoundTripAddressing(t *testing.T) {
	// Every locator recorded from the canonical walk must resolve back
	// to the paragraph it was recorded from.
	s := openSlide(t, layoutDeck())
	opts := Options{}
	_, title := TitleShape(s, opts)

	for shapeIdx, sh := range OrderedShapes(s, opts) {
		if sh == title || sh.IsTable() {
			continue
		}
		for paraIdx, p := range sh.Paragraphs() {
			got, err := Resolve(s, model.ShapeParagraphLocator(shapeIdx, paraIdx), opts)
			if err != nil {
				t.Fatalf("Resolve(%d, %d): %v", shapeIdx, paraIdx, err)
			}
			if got.Text() != p.Text() {
				t.Errorf("round trip (%d, %d): got %q, want %q", shapeIdx, paraIdx, got.Text(), p.Text())
			}
		}
	}

	for i, p := range GlobalWalk(s, opts) {
		got, err := Resolve(s, model.LegacyLocator(i), opts)
		if err != nil {
			t.Fatalf("Resolve legacy %d: %v", i, err)
		}
		if got.Text() != p.Text() {
			t.Errorf("legacy round trip %d: got %q, want %q", i, got.Text(), p.Text())
		}
	}
}
