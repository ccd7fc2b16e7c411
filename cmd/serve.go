package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conneroisu/hikes/internal/config"
	"github.com/conneroisu/hikes/internal/server"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Preview the walkthroughs with live reload",
	Long: `Start the preview server. Every page in the content directory is served
through the site shell, and open browsers reload when a page changes.

Examples:
  hikes serve
  hikes serve --port 3000 --content walkthroughs
  hikes serve --hot-reload=false`,
	PreRunE: bindPreRun(contentFlags, serverFlags),
	RunE:    runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	addContentFlags(serveCmd.Flags())
	addServerFlags(serveCmd.Flags())
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	shell, err := newShell()
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, shell, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %d pages at http://%s\n", len(srv.Pages()), cfg.Address())

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return srv.Shutdown(context.Background())
}
