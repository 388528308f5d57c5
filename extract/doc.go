// Package extract builds the value-only document model from a live
// presentation.
//
// The builder walks each slide in canonical order, classifies the
// title, and produces both a nested shape tree and a flat content
// sequence in which every entry carries a full locator. The flat
// sequence's global indices are assigned here and only here; downstream
// consumers replay them through the resolver package rather than
// recounting paragraphs under their own assumptions.
//
// The output holds no handle into the source presentation, so it can be
// marshaled to JSON and shared with external consumers without
// synchronization.
package extract
