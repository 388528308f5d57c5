package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/tsawler/slidepatch/model"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadBatchEnvelope(t *testing.T) {
	path := writeTemp(t, "batch.json", `{
		"fingerprint": "abc123",
		"modifications": [
			{"slide_index": 0, "locator": {"kind": "legacy", "global_index": 1},
			 "old_text": "a", "new_text": "b", "change_type": "replace_by_legacy_index"}
		]
	}`)
	batch, err := readBatch(path)
	if err != nil {
		t.Fatalf("readBatch: %v", err)
	}
	if batch.Fingerprint != "abc123" {
		t.Errorf("Fingerprint = %q", batch.Fingerprint)
	}
	if len(batch.Modifications) != 1 || batch.Modifications[0].ChangeType != model.ReplaceByLegacyIndex {
		t.Errorf("modifications = %+v", batch.Modifications)
	}
}

func TestReadBatchBareArray(t *testing.T) {
	path := writeTemp(t, "mods.json", `[
		{"slide_index": 2, "locator": {"kind": "shape_paragraph", "shape_index": 1},
		 "old_text": "a", "new_text": "b", "change_type": "replace_by_locator"}
	]`)
	batch, err := readBatch(path)
	if err != nil {
		t.Fatalf("readBatch: %v", err)
	}
	if batch.Fingerprint != "" {
		t.Errorf("bare array produced fingerprint %q", batch.Fingerprint)
	}
	if len(batch.Modifications) != 1 || batch.Modifications[0].SlideIndex != 2 {
		t.Errorf("modifications = %+v", batch.Modifications)
	}
}

func TestReadBatchMalformed(t *testing.T) {
	if _, err := readBatch(writeTemp(t, "bad.json", `{not json`)); err == nil {
		t.Error("malformed batch accepted")
	}
	if _, err := readBatch(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing batch file accepted")
	}
}

func TestWriteJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := writeJSON(path, map[string]int{"n": 1}); err != nil {
		t.Fatalf("writeJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]int
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got["n"] != 1 {
		t.Errorf("round trip = %v", got)
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("empty path: %v", err)
	}
	if cfg.Ordering.RowTolerance != 0 {
		t.Errorf("default config = %+v", cfg)
	}

	path := writeTemp(t, "cfg.toml", `
[ordering]
row_tolerance = 25000

[title]
top_band = 500000
font_delta = 6.0

[matching]
similarity_threshold = 0.75
`)
	cfg, err = loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Ordering.RowTolerance != 25000 {
		t.Errorf("RowTolerance = %d", cfg.Ordering.RowTolerance)
	}
	if cfg.Title.TopBand != 500000 || cfg.Title.FontDelta != 6.0 {
		t.Errorf("Title = %+v", cfg.Title)
	}
	if cfg.Matching.SimilarityThreshold != 0.75 {
		t.Errorf("SimilarityThreshold = %v", cfg.Matching.SimilarityThreshold)
	}

	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing config accepted")
	}
}
