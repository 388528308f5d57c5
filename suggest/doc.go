// Package suggest translates opaque generator suggestions into
// locator-addressed modifications.
//
// Generator records are loosely specified: the location field is free
// text and paragraph_index follows whatever numbering the generator
// chose, which is often flat across the slide. Translation prefers the
// structured fields a well-behaved generator echoes back; the free-text
// heuristics survive only as a last resort, and anything they produce
// is flagged low confidence. A generator paragraph_index is recorded
// under the legacy global-index slot only and is never treated as a
// shape-local index.
package suggest
