package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/tsawler/slidepatch"
)

// Config holds the threshold configuration loaded from a TOML file.
// Zero values defer to the library defaults.
type Config struct {
	Ordering struct {
		RowTolerance int64 `toml:"row_tolerance"` // EMUs
	} `toml:"ordering"`
	Title struct {
		TopBand   int64   `toml:"top_band"`   // EMUs
		FontDelta float64 `toml:"font_delta"` // points
	} `toml:"title"`
	Matching struct {
		SimilarityThreshold float64 `toml:"similarity_threshold"`
	} `toml:"matching"`
}

// loadConfig reads the config file when a path is given; an empty path
// yields the defaults.
func loadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// patcher builds a configured Patcher for the given presentation.
func (c *Config) patcher(filename string) *slidepatch.Patcher {
	p := slidepatch.Open(filename)
	if c.Ordering.RowTolerance > 0 {
		p.RowTolerance(c.Ordering.RowTolerance)
	}
	if c.Title.TopBand > 0 {
		p.TitleTopBand(c.Title.TopBand)
	}
	if c.Title.FontDelta > 0 {
		p.TitleFontDelta(c.Title.FontDelta)
	}
	if c.Matching.SimilarityThreshold > 0 {
		p.SimilarityThreshold(c.Matching.SimilarityThreshold)
	}
	return p
}
