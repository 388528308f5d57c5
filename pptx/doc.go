// Package pptx reads and writes PPTX (Office Open XML Presentation)
// containers and exposes live handles onto slide content.
//
// This is the only package in the module that touches a live document.
// Slide XML is parsed into a DOM so that a text replacement rewrites
// only the affected runs and every other byte of markup survives a
// save untouched. Everything above this package works on value types
// from the model package and on the narrow handle API here:
//
//	f, err := pptx.Open("deck.pptx")
//	sh := f.Slides()[0].Shapes()[2]
//	sh.Paragraphs()[0].SetText("replacement")
//	err = f.Save("out.pptx")
//
// Shapes returns only text-bearing and table shapes, with grouped
// shapes flattened, in raw file order. Canonical reading order is the
// resolver package's concern, not this one's.
package pptx
