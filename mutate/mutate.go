package mutate

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tsawler/slidepatch/extract"
	"github.com/tsawler/slidepatch/model"
	"github.com/tsawler/slidepatch/pptx"
	"github.com/tsawler/slidepatch/resolver"
	"github.com/tsawler/slidepatch/text"
)

// DefaultSimilarityThreshold is the minimum fallback-match score.
const DefaultSimilarityThreshold = 0.6

// Options configures an apply run. Resolver must match the options the
// snapshot was extracted with.
type Options struct {
	Resolver resolver.Options
	// SimilarityThreshold is the minimum score for a fallback match.
	// Zero selects the default.
	SimilarityThreshold float64
	// SnapshotFingerprint, when set, is compared against the live
	// document's structure; a divergence is flagged on the report.
	SnapshotFingerprint string
}

func (o Options) threshold() float64 {
	if o.SimilarityThreshold <= 0 {
		return DefaultSimilarityThreshold
	}
	return o.SimilarityThreshold
}

// BatchSchemaError reports a malformed modification record. Its
// presence means nothing in the batch was applied.
type BatchSchemaError struct {
	Index  int
	Reason string
}

func (e *BatchSchemaError) Error() string {
	return fmt.Sprintf("modification %d: %s", e.Index, e.Reason)
}

// Apply runs a modification batch against the presentation and returns
// the per-item report. The only error return is a batch-level schema
// failure; per-item problems are recovered into the report and never
// abort the run.
func Apply(f *pptx.File, mods []model.Modification, opts Options) (*model.Report, error) {
	for i, m := range mods {
		if reason := checkSchema(m); reason != "" {
			return nil, &BatchSchemaError{Index: i, Reason: reason}
		}
	}

	report := &model.Report{BatchID: uuid.NewString()}
	if opts.SnapshotFingerprint != "" {
		live := extract.Fingerprint(f, opts.Resolver)
		report.StaleSnapshot = live != opts.SnapshotFingerprint
	}

	for i, m := range mods {
		report.Add(applyOne(f, i, m, opts))
	}
	return report, nil
}

// checkSchema validates one record. It returns "" when the record is
// well formed.
func checkSchema(m model.Modification) string {
	if m.NewText == "" {
		return "empty new_text"
	}
	if m.SlideIndex < 0 {
		return fmt.Sprintf("negative slide_index %d", m.SlideIndex)
	}
	if err := m.Locator.Validate(); err != nil {
		return err.Error()
	}
	switch m.ChangeType {
	case model.ReplaceByLocator:
		if m.Locator.Kind != model.LocatorShapeParagraph {
			return fmt.Sprintf("change_type %s requires a shape_paragraph locator, got %s", m.ChangeType, m.Locator.Kind)
		}
	case model.ReplaceByLegacyIndex:
		if m.Locator.Kind != model.LocatorLegacy {
			return fmt.Sprintf("change_type %s requires a legacy locator, got %s", m.ChangeType, m.Locator.Kind)
		}
	case model.ReplaceTableCell:
		if m.Locator.Kind != model.LocatorTableCell {
			return fmt.Sprintf("change_type %s requires a table_cell locator, got %s", m.ChangeType, m.Locator.Kind)
		}
	default:
		return fmt.Sprintf("unknown change_type %q", m.ChangeType)
	}
	return ""
}

func applyOne(f *pptx.File, index int, m model.Modification, opts Options) model.ValidationResult {
	res := model.ValidationResult{
		Index:      index,
		SlideIndex: m.SlideIndex,
		Locator:    m.Locator,
	}

	slide := f.Slide(m.SlideIndex + 1)
	if slide == nil {
		res.Status = model.StatusRejectedNotFound
		res.Message = fmt.Sprintf("slide %d of %d", m.SlideIndex, f.SlideCount())
		return res
	}

	para, err := resolver.Resolve(slide, m.Locator, opts.Resolver)
	if err != nil {
		res.Status = model.StatusRejectedNotFound
		res.Message = err.Error()
		return res
	}

	want := text.Normalize(m.OldText)
	if text.Normalize(para.Text()) == want {
		para.SetText(m.NewText)
		res.Status = model.StatusApplied
		return res
	}

	// The addressed paragraph no longer holds the expected text. Search
	// the shape first, then the whole slide, for the closest match.
	match, score := fallbackSearch(slide, m, opts)
	if match == nil || score < opts.threshold() {
		res.Status = model.StatusRejectedMismatch
		res.Message = fmt.Sprintf("expected %q, found %q", m.OldText, strings.TrimSpace(para.Text()))
		return res
	}

	res.MatchedText = strings.TrimSpace(match.Text())
	res.Message = fmt.Sprintf("fallback match with score %.2f", score)
	match.SetText(m.NewText)
	res.Status = model.StatusAppliedFallback
	return res
}

// fallbackSearch scans candidate paragraphs for the best normalized
// match against old_text. Paragraphs already holding the replacement
// text are skipped so a re-run does not edit an unrelated twin.
func fallbackSearch(slide *pptx.Slide, m model.Modification, opts Options) (*pptx.Paragraph, float64) {
	want := text.Normalize(m.OldText)
	if want == "" {
		return nil, 0
	}
	newNorm := text.Normalize(m.NewText)

	if m.Locator.Kind != model.LocatorLegacy {
		ordered := resolver.OrderedShapes(slide, opts.Resolver)
		if m.Locator.ShapeIndex < len(ordered) {
			if p, score := bestMatch(shapeParagraphs(ordered[m.Locator.ShapeIndex]), want, newNorm); p != nil && score >= opts.threshold() {
				return p, score
			}
		}
	}

	var all []*pptx.Paragraph
	for _, sh := range resolver.OrderedShapes(slide, opts.Resolver) {
		all = append(all, shapeParagraphs(sh)...)
	}
	return bestMatch(all, want, newNorm)
}

// shapeParagraphs collects a shape's paragraphs, descending into table
// cells for table shapes.
func shapeParagraphs(sh *pptx.Shape) []*pptx.Paragraph {
	if !sh.IsTable() {
		return sh.Paragraphs()
	}
	var out []*pptx.Paragraph
	tbl := sh.Table()
	for row := 0; row < tbl.Rows(); row++ {
		for col := 0; col < tbl.Cols(); col++ {
			cell := tbl.Cell(row, col)
			if cell == nil || cell.Spanned() {
				continue
			}
			out = append(out, cell.Paragraphs()...)
		}
	}
	return out
}

func bestMatch(paras []*pptx.Paragraph, want, newNorm string) (*pptx.Paragraph, float64) {
	var best *pptx.Paragraph
	bestScore := 0.0
	for _, p := range paras {
		cur := text.Normalize(p.Text())
		if cur == "" || cur == newNorm {
			continue
		}
		if score := text.Similarity(want, cur); score > bestScore {
			best, bestScore = p, score
		}
	}
	return best, bestScore
}
