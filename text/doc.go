// Package text provides the normalization and similarity primitives the
// mutation engine validates against.
//
// Expected-text comparison must tolerate the cosmetic drift that slide
// text accumulates: trailing whitespace, doubled spaces, fullwidth
// versus halfwidth punctuation. [Normalize] folds all of that into one
// comparison form. [Similarity] scores two already-normalized strings
// for the fallback search.
package text
