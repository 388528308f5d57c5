package model

// Suggestion is one record from the external content-suggestion
// generator. The record is treated as opaque input: Location is free
// text, and ParagraphIndex follows whatever numbering the generator
// used, which may be flat across the slide rather than shape-local. The
// optional structured fields are present when the generator echoed the
// locators it was given.
type Suggestion struct {
	SlideNumber            int     `json:"slide_number"` // 1-indexed
	Location               string  `json:"location,omitempty"`
	ParagraphIndex         *int    `json:"paragraph_index,omitempty"`
	TargetType             string  `json:"target_type,omitempty"` // title, content, table
	ShapeIndex             *int    `json:"shape_index,omitempty"`
	ParagraphIndexInShape  *int    `json:"paragraph_index_in_shape,omitempty"`
	Row                    *int    `json:"row,omitempty"`
	Col                    *int    `json:"col,omitempty"`
	ProblemType            string  `json:"problem_type,omitempty"`
	CurrentContent         string  `json:"current_content"`
	ModificationSuggestion string  `json:"modification_suggestion"`
	Priority               string  `json:"priority,omitempty"`
	Confidence             float64 `json:"confidence,omitempty"`
}

// ChangeType names the replacement path a Modification takes.
type ChangeType string

// Change types.
const (
	ReplaceByLocator     ChangeType = "replace_by_locator"
	ReplaceByLegacyIndex ChangeType = "replace_by_legacy_index"
	ReplaceTableCell     ChangeType = "replace_table_cell"
)

// Modification is one locator-addressed text replacement.
type Modification struct {
	SlideIndex int        `json:"slide_index"` // 0-indexed
	Locator    Locator    `json:"locator"`
	OldText    string     `json:"old_text"`
	NewText    string     `json:"new_text"`
	ChangeType ChangeType `json:"change_type"`

	// LowConfidence marks modifications whose target was classified from
	// free-text heuristics rather than structured fields.
	LowConfidence bool   `json:"low_confidence,omitempty"`
	Priority      string `json:"priority,omitempty"`
}

// Batch is the envelope the apply command consumes. Fingerprint, when
// present, is the extraction-time snapshot fingerprint and lets the
// engine flag stale snapshots.
type Batch struct {
	Fingerprint   string         `json:"fingerprint,omitempty"`
	Modifications []Modification `json:"modifications"`
}

// Status is the terminal state of one Modification.
type Status string

// Terminal statuses.
const (
	StatusApplied          Status = "applied"
	StatusAppliedFallback  Status = "applied_fallback"
	StatusRejectedMismatch Status = "rejected_mismatch"
	StatusRejectedNotFound Status = "rejected_not_found"
)

// Applied reports whether the status represents a performed replacement.
func (s Status) Applied() bool {
	return s == StatusApplied || s == StatusAppliedFallback
}

// ValidationResult records the outcome of one Modification.
type ValidationResult struct {
	Index       int     `json:"index"` // position within the batch
	SlideIndex  int     `json:"slide_index"`
	Locator     Locator `json:"locator"`
	Status      Status  `json:"status"`
	MatchedText string  `json:"matched_text,omitempty"` // set when fallback search chose the target
	Message     string  `json:"message,omitempty"`
}

// Report is the full per-batch outcome. The engine always produces one
// entry per Modification; callers decide from it whether to persist the
// mutated document.
type Report struct {
	BatchID       string             `json:"batch_id"`
	Results       []ValidationResult `json:"results"`
	Applied       int                `json:"applied"`
	Fallback      int                `json:"applied_fallback"`
	Rejected      int                `json:"rejected"`
	StaleSnapshot bool               `json:"stale_snapshot,omitempty"`
}

// Add appends a result and updates the counters.
func (r *Report) Add(res ValidationResult) {
	r.Results = append(r.Results, res)
	switch res.Status {
	case StatusApplied:
		r.Applied++
	case StatusAppliedFallback:
		r.Fallback++
	default:
		r.Rejected++
	}
}

// Clean reports whether every item in the batch was applied without
// fallback or rejection.
func (r *Report) Clean() bool {
	return r.Fallback == 0 && r.Rejected == 0
}
