package cmd

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/conneroisu/hikes/internal/config"
	"github.com/conneroisu/hikes/internal/document"
	"github.com/conneroisu/hikes/internal/font"
	"github.com/conneroisu/hikes/internal/logging"
	"github.com/conneroisu/hikes/internal/site"
)

// Flag names mapped to the config keys they override. Several commands
// share a flag name, so bindings happen in PreRunE for the running
// command only.
var (
	contentFlags = map[string]string{
		"content":    "content.dir",
		"stylesheet": "build.stylesheet",
	}
	buildFlags = map[string]string{
		"output": "build.output_dir",
		"clean":  "build.clean",
	}
	serverFlags = map[string]string{
		"port":       "server.port",
		"host":       "server.host",
		"hot-reload": "development.hot_reload",
	}
)

func addContentFlags(fs *pflag.FlagSet) {
	fs.StringP("content", "c", "content", "Content directory of HTML fragments")
	fs.String("stylesheet", "", "Stylesheet URL linked from every page")
}

func addBuildFlags(fs *pflag.FlagSet) {
	fs.StringP("output", "o", "dist", "Output directory for the static site")
	fs.Bool("clean", false, "Remove the output directory before writing")
}

func addServerFlags(fs *pflag.FlagSet) {
	fs.IntP("port", "p", 8080, "Port to serve on")
	fs.String("host", "localhost", "Host to bind to")
	fs.Bool("hot-reload", true, "Reload browsers when content changes")
}

// bindFlags binds each named flag present in fs to its config key.
func bindFlags(fs *pflag.FlagSet, bindings ...map[string]string) error {
	for _, binding := range bindings {
		for name, key := range binding {
			flag := fs.Lookup(name)
			if flag == nil {
				continue
			}
			if err := viper.BindPFlag(key, flag); err != nil {
				return err
			}
		}
	}
	return nil
}

// bindPreRun returns a PreRunE that binds the given flag sets.
func bindPreRun(bindings ...map[string]string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		return bindFlags(cmd.Flags(), bindings...)
	}
}

// newLogger builds the command logger from the log section.
func newLogger(cfg *config.Config, w io.Writer) logging.Logger {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	return logging.NewLogger(&logging.LoggerConfig{
		Level:     level,
		Format:    cfg.Log.Format,
		Output:    w,
		Component: "cli",
	})
}

// newShell loads the Inter face and builds the site shell.
func newShell() (*site.Shell, error) {
	return site.New(font.NewGoogleLoader())
}

// newDocument builds the document used by render and build.
func newDocument(cfg *config.Config) (*document.Document, error) {
	shell, err := newShell()
	if err != nil {
		return nil, err
	}
	return document.New(shell, document.WithStylesheet(cfg.Build.Stylesheet)), nil
}
