package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/hikes/internal/build"
	"github.com/conneroisu/hikes/internal/config"
	"github.com/conneroisu/hikes/internal/content"
)

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"b"},
	Short:   "Write every walkthrough as a static page",
	Long: `Render every page in the content directory through the site shell and
write the result to the output directory, one index.html per page.

Examples:
  hikes build                       # content/ -> dist/
  hikes build --output public --clean
  hikes build --stylesheet /globals.css`,
	PreRunE: bindPreRun(contentFlags, buildFlags),
	RunE:    runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	addContentFlags(buildCmd.Flags())
	addBuildFlags(buildCmd.Flags())
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	pages, err := content.Load(cfg.Content.Dir)
	if err != nil {
		return err
	}

	doc, err := newDocument(cfg)
	if err != nil {
		return err
	}

	gen, err := build.NewGenerator(doc, build.Options{
		OutputDir:  cfg.Build.OutputDir,
		ContentDir: cfg.Content.Dir,
		Clean:      cfg.Build.Clean,
	}, logger)
	if err != nil {
		return err
	}

	start := time.Now()
	written, err := gen.Generate(cmd.Context(), pages)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Built %d pages into %s in %s\n",
		len(written), cfg.Build.OutputDir, time.Since(start).Round(time.Millisecond))
	return nil
}
