// Package slidepatch provides a fluent API for extracting structured
// text from PPTX presentations and applying locator-addressed text
// replacements back onto them.
//
// Basic usage:
//
//	doc, err := slidepatch.Open("deck.pptx").Extract()
//	if err != nil {
//	    // handle error
//	}
//
// Applying a modification batch:
//
//	p := slidepatch.Open("deck.pptx")
//	defer p.Close()
//	report, err := p.Apply(batch.Modifications)
//	if err != nil {
//	    // schema failure, nothing was written
//	}
//	if report.Rejected == 0 {
//	    err = p.Save("out.pptx")
//	}
//
// With options:
//
//	doc, err := slidepatch.Open("deck.pptx").
//	    RowTolerance(25000).
//	    SimilarityThreshold(0.7).
//	    Extract()
//
// For advanced use cases, the lower-level pptx, extract, resolver, and
// mutate packages are also available.
package slidepatch

import (
	"github.com/tsawler/slidepatch/extract"
	"github.com/tsawler/slidepatch/model"
	"github.com/tsawler/slidepatch/mutate"
	"github.com/tsawler/slidepatch/pptx"
	"github.com/tsawler/slidepatch/suggest"
)

// Patcher is the fluent handle returned by Open. Configuration methods
// return the Patcher for chaining; terminal operations open the file
// lazily on first use.
type Patcher struct {
	filename string
	file     *pptx.File
	options  Options
	err      error
}

// Open prepares a presentation for extraction or mutation. The file is
// not read until a terminal operation runs.
func Open(filename string) *Patcher {
	return &Patcher{
		filename: filename,
		options:  defaultOptions(),
	}
}

// RowTolerance sets the vertical band, in EMUs, within which shapes are
// ordered as one row.
func (p *Patcher) RowTolerance(emu int64) *Patcher {
	p.options.rowTolerance = emu
	return p
}

// TitleTopBand sets how far from the slide top, in EMUs, a shape may be
// classified as a title by font size.
func (p *Patcher) TitleTopBand(emu int64) *Patcher {
	p.options.titleTopBand = emu
	return p
}

// TitleFontDelta sets how far, in points, a title candidate's font size
// must exceed the slide's median body size.
func (p *Patcher) TitleFontDelta(points float64) *Patcher {
	p.options.titleFontDelta = points
	return p
}

// SimilarityThreshold sets the minimum fallback-match score.
func (p *Patcher) SimilarityThreshold(score float64) *Patcher {
	p.options.similarityThreshold = score
	return p
}

// SnapshotFingerprint supplies the extraction-time fingerprint so Apply
// can flag stale snapshots on the report.
func (p *Patcher) SnapshotFingerprint(fp string) *Patcher {
	p.options.snapshotFingerprint = fp
	return p
}

func (p *Patcher) ensureOpen() error {
	if p.err != nil {
		return p.err
	}
	if p.file == nil {
		p.file, p.err = pptx.Open(p.filename)
	}
	return p.err
}

// File exposes the underlying live presentation, opening it if needed.
func (p *Patcher) File() (*pptx.File, error) {
	if err := p.ensureOpen(); err != nil {
		return nil, err
	}
	return p.file, nil
}

// Extract builds the canonical document snapshot.
func (p *Patcher) Extract() (*model.Document, error) {
	if err := p.ensureOpen(); err != nil {
		return nil, err
	}
	return extract.Build(p.file, p.options.resolverOptions())
}

// Translate converts generator suggestions into a modification batch
// addressed against this presentation's extraction snapshot.
func (p *Patcher) Translate(suggs []model.Suggestion) ([]model.Modification, error) {
	doc, err := p.Extract()
	if err != nil {
		return nil, err
	}
	return suggest.Translate(doc, suggs, suggest.Options{})
}

// Apply runs a modification batch against the in-memory presentation
// and returns the per-item report. Call Save to persist the result.
func (p *Patcher) Apply(mods []model.Modification) (*model.Report, error) {
	if err := p.ensureOpen(); err != nil {
		return nil, err
	}
	return mutate.Apply(p.file, mods, p.options.mutateOptions())
}

// Save writes the presentation, including any applied modifications.
func (p *Patcher) Save(filename string) error {
	if err := p.ensureOpen(); err != nil {
		return err
	}
	return p.file.Save(filename)
}

// Close releases the in-memory presentation. Further terminal
// operations reopen the file from disk.
func (p *Patcher) Close() error {
	p.file = nil
	p.err = nil
	return nil
}
