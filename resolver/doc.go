// Package resolver maps locators back onto live slide content.
//
// A locator recorded at extraction time only stays valid if mutation
// re-derives shape and paragraph positions exactly the way extraction
// did. This package is the single place where the canonical ordering
// and title classification from the order package are applied to live
// slides; both the document model builder and the mutation engine go
// through it, so the two passes cannot drift apart.
//
// # Basic Usage
//
// Resolve a locator against a slide:
//
//	para, err := resolver.Resolve(slide, loc, opts)
//
// # Primary and Legacy Paths
//
// Primary locators index the canonically ordered shape list and then
// the shape's raw paragraph list. Table locators add a (row, col) step.
// Legacy flat indices replay the builder's depth-first walk; when a
// slide contains tables, indices beyond the walk are ambiguous rather
// than merely out of range, and resolution fails with
// [ErrAmbiguousLegacyIndex] instead of guessing.
package resolver
