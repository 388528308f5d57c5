// Package mutate applies modification batches to live presentations.
//
// A batch is first gated as a whole: one malformed record fails the
// entire apply before anything is written. Items are then processed
// sequentially and independently. Each item resolves its locator
// through the resolver package, validates the expected prior text
// against the live paragraph under normalization, and only then
// replaces text. On a mismatch the engine searches the slide for the
// best similar paragraph instead of editing the addressed one; below
// the similarity threshold it refuses and reports, leaving the
// document untouched for that item.
//
// The engine never inserts or removes shapes or paragraphs, so every
// locator recorded at extraction time stays valid for the whole batch
// regardless of application order.
package mutate
