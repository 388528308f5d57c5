// Command slidepatch extracts structured text from PPTX presentations
// and applies locator-addressed modification batches back onto them.
package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

const version = "0.1.0"

// CLI defines the command-line interface for slidepatch.
var CLI struct {
	// Global flags
	Config  string `help:"Path to TOML config file with ordering and matching thresholds" type:"path"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Extract   ExtractCmd   `cmd:"" help:"Extract structured slide text to JSON"`
	Translate TranslateCmd `cmd:"" help:"Convert generator suggestions into a modification batch"`
	Apply     ApplyCmd     `cmd:"" help:"Apply a modification batch to a presentation"`
	Version   VersionCmd   `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("slidepatch"),
		kong.Description("Paragraph-level PPTX text extraction and safe mutation"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	level := slog.LevelInfo
	if CLI.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := loadConfig(CLI.Config)
	ctx.FatalIfErrorf(err)

	err = ctx.Run(cfg)
	ctx.FatalIfErrorf(err)
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run(cfg *Config) error {
	_, err := os.Stdout.WriteString("slidepatch " + version + "\n")
	return err
}
