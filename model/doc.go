// Package model provides the value-only representation of extracted
// slide-deck content.
//
// This package defines the user-facing data structures produced by
// extraction and consumed by the suggestion translator and the mutation
// engine. Every type here holds only plain values: no handle into a live
// presentation ever appears in the tree, so any value can be marshaled to
// JSON unconditionally and handed to external consumers.
//
// # Document Structure
//
// The [Document] type represents a complete deck snapshot:
//
//	doc.Slides[0].Title          // classified title text
//	doc.Slides[0].Content        // flat entries, each with a full Locator
//	doc.Slides[0].Shapes         // nested form, canonical order
//
// # Addressing
//
// A [Locator] is a tagged union addressing exactly one paragraph or table
// cell on a slide. The primary form is (shape_index,
// paragraph_index_in_shape); table cells add (row, col). A flat
// global_index is carried for compatibility with producers that only
// understand slide-wide paragraph numbering. The two numbering schemes
// are kept in distinct locator kinds and are never coerced into one
// field.
//
// # Modification Batches
//
// A [Modification] is one locator-addressed text replacement. The
// mutation engine reports every item's terminal state as a
// [ValidationResult] inside a [Report].
package model
