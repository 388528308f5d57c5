package pptx

import (
	"archive/zip"
	"fmt"
	"os"
)

// Save writes the presentation to filename. Parts whose slide DOM was
// mutated are re-serialized; every other part is copied byte for byte
// in the original archive order.
func (f *File) Save(filename string) error {
	out, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filename, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	dirty := make(map[string]*Slide)
	for _, s := range f.slides {
		if s.dirty {
			dirty[s.part] = s
		}
	}

	for _, name := range f.names {
		w, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		data := f.parts[name]
		if s, ok := dirty[name]; ok {
			data = []byte(s.doc.OutputXML(true))
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}
	return out.Close()
}
