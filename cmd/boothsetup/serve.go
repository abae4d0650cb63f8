package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/touchselfie/boothsetup/internal/config"
	"github.com/touchselfie/boothsetup/internal/logger"
	"github.com/touchselfie/boothsetup/internal/mcpserver"
	"github.com/touchselfie/boothsetup/internal/wizard"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Drive the wizard over MCP",
	Long: `Start an MCP server exposing one wizard session as tools
(wizard-state, wizard-set, wizard-next, wizard-prev, wizard-dismiss).

The server listens on a random local port and runs until interrupted.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, location, closeStore, err := openStore(ctx, settings)
	if err != nil {
		return err
	}
	defer closeStore()

	engine, err := wizard.New(ctx, store, printerDirectory(settings))
	if err != nil {
		return fmt.Errorf("failed to start wizard: %w", err)
	}

	srv := mcpserver.New(engine)
	srv.OnCommit = func(ctx context.Context, cfg *config.Configuration) {
		logger.Info("Configuration written to %s", location)
		runPostCommitHook(ctx, location, cfg)
	}

	if _, err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start MCP server: %w", err)
	}
	defer func() { _ = srv.Stop() }()

	fmt.Printf("MCP server listening on %s\n", srv.URL())
	<-ctx.Done()
	return nil
}
