// Package cmd provides the command-line interface for hikes.
//
// Configuration is read from several sources with clear precedence:
//  1. Command-line flags (--config, --port, etc.) - highest priority
//  2. HIKES_CONFIG_FILE environment variable - custom config file path
//  3. Individual environment variables (HIKES_SERVER_PORT, etc.)
//  4. Configuration file (.hikes.yml) - lowest priority
//
// Environment variables follow the HIKES_<SECTION>_<OPTION> pattern, for
// example HIKES_CONTENT_DIR or HIKES_DEVELOPMENT_HOT_RELOAD.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/hikes/internal/errors"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hikes",
	Short: "TRG's Solidity Learning Hikes",
	Long: `hikes renders a collection of code walkthroughs for learning Solidity.

Every walkthrough is an HTML fragment in the content directory; hikes wraps
each one in the site shell and either serves it with live reload or writes
a static site.

Quick Start:
  hikes serve                     Preview the content directory
  hikes build                     Write the static site to dist/
  hikes render page.html          Render one fragment to stdout
  hikes config show               Print the effective configuration`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and runs it.
// Failures are printed to stderr in the structured error format.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", errors.FormatError(err))
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .hikes.yml, can also use HIKES_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig points viper at the config file and enables HIKES_ env vars.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("HIKES_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".hikes")
	}

	viper.SetEnvPrefix("HIKES")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// A missing file falls back to defaults
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
