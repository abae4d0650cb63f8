package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/touchselfie/boothsetup/internal/config"
	"github.com/touchselfie/boothsetup/internal/hooks"
	"github.com/touchselfie/boothsetup/internal/logger"
	"github.com/touchselfie/boothsetup/internal/tui/setup"
	"github.com/touchselfie/boothsetup/internal/wizard"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Run the setup wizard",
	Long: `Run the interactive setup wizard.

Changes are kept in memory until Save on the last page. Leaving the wizard
before that discards them. After a successful save the post_commit hook from
.boothsetup.hooks.yml runs, if configured.`,
	RunE: runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, location, closeStore, err := openStore(ctx, settings)
	if err != nil {
		return err
	}
	defer closeStore()

	engine, err := wizard.New(ctx, store, printerDirectory(settings))
	if err != nil {
		return fmt.Errorf("failed to start wizard: %w", err)
	}

	result, err := setup.Run(ctx, engine)
	if errors.Is(err, setup.ErrCancelled) {
		fmt.Println("Setup cancelled, nothing was saved.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("Configuration written to: %s\n", location)
	runPostCommitHook(ctx, location, result.Configuration)
	return nil
}

// runPostCommitHook runs the post_commit hook and prints its output.
// Hook failures never fail the command.
func runPostCommitHook(ctx context.Context, location string, cfg *config.Configuration) {
	output, err := hooks.RunPostCommit(ctx, settings.HooksDir, hooks.NewCommit(location, cfg))
	if err != nil {
		logger.Warn("Post-commit hook interrupted: %v", err)
		return
	}
	if output = strings.TrimSpace(output); output != "" {
		fmt.Println(output)
	}
}
