package suggest

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tsawler/slidepatch/model"
)

// Options controls target classification.
type Options struct {
	// TitleMarkers are substrings of the free-text location field that
	// mark a title suggestion when no structured target is present.
	// Matches via this path produce low-confidence modifications.
	TitleMarkers []string
}

func (o Options) withDefaults() Options {
	if len(o.TitleMarkers) == 0 {
		o.TitleMarkers = []string{"标题", "title"}
	}
	return o
}

// Translate converts suggestions into a modification batch addressed
// against the given extraction snapshot. Suggestions that cannot be
// translated are skipped and reported through the joined error; the
// returned batch contains every suggestion that could be addressed.
func Translate(doc *model.Document, suggs []model.Suggestion, opts Options) ([]model.Modification, error) {
	opts = opts.withDefaults()

	var mods []model.Modification
	var errs []error
	for i, sg := range suggs {
		mod, err := translateOne(doc, sg, opts)
		if err != nil {
			errs = append(errs, fmt.Errorf("suggestion %d: %w", i, err))
			continue
		}
		mods = append(mods, mod)
	}

	// Group by slide; within a slide the input order is preserved.
	sort.SliceStable(mods, func(a, b int) bool {
		return mods[a].SlideIndex < mods[b].SlideIndex
	})
	return mods, errors.Join(errs...)
}

func translateOne(doc *model.Document, sg model.Suggestion, opts Options) (model.Modification, error) {
	if sg.SlideNumber < 1 {
		return model.Modification{}, fmt.Errorf("slide_number %d is not 1-based", sg.SlideNumber)
	}
	if sg.ModificationSuggestion == "" {
		return model.Modification{}, fmt.Errorf("empty modification_suggestion")
	}
	slide := doc.GetSlide(sg.SlideNumber)
	if slide == nil {
		return model.Modification{}, fmt.Errorf("slide_number %d beyond %d slides", sg.SlideNumber, len(doc.Slides))
	}

	mod := model.Modification{
		SlideIndex: sg.SlideNumber - 1,
		OldText:    sg.CurrentContent,
		NewText:    sg.ModificationSuggestion,
		Priority:   sg.Priority,
	}

	if sg.TargetType == "table" && !isTableTarget(sg) {
		return model.Modification{}, fmt.Errorf("table target missing shape_index/row/col")
	}

	switch {
	case isTableTarget(sg):
		mod.ChangeType = model.ReplaceTableCell
		mod.Locator = model.TableCellLocator(*sg.ShapeIndex, *sg.Row, *sg.Col)

	case isTitleTarget(sg, opts):
		if slide.TitleLocator == nil {
			return model.Modification{}, fmt.Errorf("slide %d has no title", sg.SlideNumber)
		}
		mod.ChangeType = model.ReplaceByLocator
		mod.Locator = *slide.TitleLocator
		if sg.TargetType != "title" {
			// Classified from the location text, not a structured field.
			mod.LowConfidence = true
		}

	case sg.ShapeIndex != nil && sg.ParagraphIndexInShape != nil:
		mod.ChangeType = model.ReplaceByLocator
		mod.Locator = model.ShapeParagraphLocator(*sg.ShapeIndex, *sg.ParagraphIndexInShape)

	case sg.ParagraphIndex != nil:
		// The generator's paragraph_index may be flat. It goes into the
		// legacy slot; assuming it is shape-local is the one mistake
		// this translator exists to prevent.
		mod.ChangeType = model.ReplaceByLegacyIndex
		mod.Locator = model.LegacyLocator(*sg.ParagraphIndex)

	default:
		return model.Modification{}, fmt.Errorf("no addressable target")
	}

	if err := mod.Locator.Validate(); err != nil {
		return model.Modification{}, err
	}
	return mod, nil
}

func isTableTarget(sg model.Suggestion) bool {
	if sg.TargetType == "table" {
		return sg.ShapeIndex != nil && sg.Row != nil && sg.Col != nil
	}
	return sg.TargetType == "" && sg.ShapeIndex != nil && sg.Row != nil && sg.Col != nil
}

func isTitleTarget(sg model.Suggestion, opts Options) bool {
	if sg.TargetType == "title" {
		return true
	}
	if sg.TargetType != "" {
		return false
	}
	// Last resort: marker scan over the free-text location.
	loc := strings.ToLower(sg.Location)
	for _, marker := range opts.TitleMarkers {
		if strings.Contains(loc, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}
