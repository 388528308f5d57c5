package slidepatch

import (
	"github.com/tsawler/slidepatch/mutate"
	"github.com/tsawler/slidepatch/resolver"
)

// Options holds configuration for extraction and mutation. Extraction
// and apply must run with the same ordering thresholds for recorded
// locators to stay valid.
type Options struct {
	// Canonical ordering and title classification
	rowTolerance   int64
	titleTopBand   int64
	titleFontDelta float64

	// Mutation
	similarityThreshold float64
	snapshotFingerprint string
}

// defaultOptions returns the default configuration. Zero thresholds
// defer to the package-level defaults downstream.
func defaultOptions() Options {
	return Options{}
}

func (o Options) resolverOptions() resolver.Options {
	return resolver.Options{
		RowTolerance:   o.rowTolerance,
		TitleTopBand:   o.titleTopBand,
		TitleFontDelta: o.titleFontDelta,
	}
}

func (o Options) mutateOptions() mutate.Options {
	return mutate.Options{
		Resolver:            o.resolverOptions(),
		SimilarityThreshold: o.similarityThreshold,
		SnapshotFingerprint: o.snapshotFingerprint,
	}
}
