package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/tsawler/slidepatch/model"
	"github.com/tsawler/slidepatch/suggest"
)

// ExtractCmd extracts structured slide text to JSON.
type ExtractCmd struct {
	Input  string `arg:"" help:"Input presentation (.pptx)" type:"existingfile"`
	Output string `short:"o" help:"Output JSON path (default: stdout)" type:"path"`
}

func (c *ExtractCmd) Run(cfg *Config) error {
	doc, err := cfg.patcher(c.Input).Extract()
	if err != nil {
		return fmt.Errorf("extracting %s: %w", c.Input, err)
	}
	slog.Debug("extracted presentation", "file", c.Input, "slides", doc.TotalSlides)
	return writeJSON(c.Output, doc)
}

// TranslateCmd converts generator suggestions into a modification
// batch addressed against an extraction snapshot. The presentation
// itself is not needed, so translation can run offline.
type TranslateCmd struct {
	Suggestions string `arg:"" help:"Suggestions JSON from the generator" type:"existingfile"`
	Snapshot    string `arg:"" help:"Extraction snapshot JSON (output of the extract command)" type:"existingfile"`
	Output      string `short:"o" help:"Output batch JSON path (default: stdout)" type:"path"`
}

func (c *TranslateCmd) Run(cfg *Config) error {
	var suggs []model.Suggestion
	if err := readJSON(c.Suggestions, &suggs); err != nil {
		return err
	}
	var doc model.Document
	if err := readJSON(c.Snapshot, &doc); err != nil {
		return err
	}

	mods, err := suggest.Translate(&doc, suggs, suggest.Options{})
	if err != nil {
		// Untranslatable suggestions are skipped, not fatal.
		slog.Warn("some suggestions were skipped", "error", err)
	}
	slog.Debug("translated suggestions", "in", len(suggs), "out", len(mods))

	return writeJSON(c.Output, model.Batch{
		Fingerprint:   doc.Fingerprint,
		Modifications: mods,
	})
}

// ApplyCmd applies a modification batch and writes the mutated
// presentation. The exit code is zero on full or partial success; only
// a schema-invalid batch or unreadable input fails the command.
type ApplyCmd struct {
	Input  string `arg:"" help:"Input presentation (.pptx)" type:"existingfile"`
	Batch  string `arg:"" help:"Modification batch JSON" type:"existingfile"`
	Output string `short:"o" required:"" help:"Output presentation path" type:"path"`
	Report string `help:"Write the report JSON here instead of stdout" type:"path"`
}

func (c *ApplyCmd) Run(cfg *Config) error {
	batch, err := readBatch(c.Batch)
	if err != nil {
		return err
	}

	p := cfg.patcher(c.Input)
	if batch.Fingerprint != "" {
		p.SnapshotFingerprint(batch.Fingerprint)
	}
	report, err := p.Apply(batch.Modifications)
	if err != nil {
		return fmt.Errorf("applying batch: %w", err)
	}
	if report.StaleSnapshot {
		slog.Warn("presentation structure diverged from the extraction snapshot")
	}
	slog.Info("batch applied",
		"applied", report.Applied,
		"fallback", report.Fallback,
		"rejected", report.Rejected)

	if err := p.Save(c.Output); err != nil {
		return fmt.Errorf("saving %s: %w", c.Output, err)
	}
	return writeJSON(c.Report, report)
}

// readBatch accepts either the batch envelope or a bare modification
// array, which older producers emit.
func readBatch(path string) (*model.Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch: %w", err)
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var mods []model.Modification
		if err := json.Unmarshal(data, &mods); err != nil {
			return nil, fmt.Errorf("parsing batch %s: %w", path, err)
		}
		return &model.Batch{Modifications: mods}, nil
	}
	var batch model.Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parsing batch %s: %w", path, err)
	}
	return &batch, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// writeJSON writes indented JSON to path, or to stdout when path is "".
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	data = append(data, '\n')
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
