package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/touchselfie/boothsetup/internal/config"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the configuration file in $EDITOR",
	Long: `Open the configuration file in $EDITOR.

A file with all features disabled is created first if none exists.
Only the file backend can be edited this way.`,
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	if settings.Store != config.StoreFile {
		return fmt.Errorf("edit requires --store %s", config.StoreFile)
	}

	store := config.NewFileStore(settings.RecordPath())
	if !store.Exists() {
		cfg, err := config.FromMap(config.Defaults())
		if err != nil {
			return err
		}
		if err := store.Save(cmd.Context(), cfg); err != nil {
			return fmt.Errorf("failed to create %s: %w", store.Path(), err)
		}
	}

	c, err := editor.Command("boothsetup", store.Path())
	if err != nil {
		return fmt.Errorf("failed to prepare editor: %w", err)
	}
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("editor failed: %w", err)
	}

	// Reload to report records the wizard could not use.
	if _, err := store.Load(cmd.Context()); err != nil {
		return fmt.Errorf("configuration no longer loads: %w", err)
	}
	return nil
}
