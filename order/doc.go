// Package order implements the canonical shape ordering and title
// classification shared by extraction and mutation.
//
// Both passes over a presentation must agree on which shape is "shape 3"
// for a recorded address to stay valid, so this package is the only
// place ordering logic exists. [Reading] maps raw shape geometry to a
// deterministic traversal order; [Title] classifies at most one shape
// per slide as the title. Callers elsewhere in the module reach these
// through the resolver package rather than re-sorting shapes themselves.
package order
