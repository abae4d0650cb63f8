package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/touchselfie/boothsetup/internal/config"
	"github.com/touchselfie/boothsetup/internal/logger"
	"github.com/touchselfie/boothsetup/internal/tui/theme"
)

const (
	logoText1 = "█▀▄ █▀█ █▀█ ▀█▀ █ █   █▀ █▀▀ ▀█▀ █ █ █▀█"
	logoText2 = "█▄▀ █▄█ █▄█  █  █▀█   ▄█ ██▄  █  █▄█ █▀▀"
)

// Version set via ldflags during build
var version = "dev"

// settings is resolved before any subcommand runs.
var settings *config.Settings

func main() {
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "boothsetup",
	Short:             "Guided setup for the photobooth features",
	PersistentPreRunE: loadSettings,
	RunE:              runSetup,
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

boothsetup walks through the optional features of the photobooth (sharing,
effects, printing) and writes the choices to its configuration file.
Printers are discovered through CUPS when it is reachable; otherwise the
printing page is left out.`

	f := rootCmd.PersistentFlags()
	f.StringP("config", "c", "", "Configuration file to edit (default: ./boothsetup.yml)")
	f.BoolP("global", "g", false, "Edit the global configuration in the user config directory")
	f.String("store", config.StoreFile, "Configuration backend: file or nats")
	f.String("data-dir", "", "Data directory of the nats backend (default: .boothsetup)")
	f.String("profile", "", "Configuration profile of the nats backend (default: default)")
	f.String("cups-host", "", "CUPS host (default: localhost)")
	f.Int("cups-port", 0, "CUPS port (default: 631)")
	f.String("cups-user", "", "CUPS user")
	f.String("cups-password", "", "CUPS password")
	f.Bool("cups-tls", false, "Connect to CUPS over TLS")
	f.String("printing", "", "Printer discovery: auto or off (default: auto)")
	f.String("log-level", "", "Log level: debug, info, warn, error (default: info)")
	f.String("log-file", "", "Write logs to this file")
	f.String("hooks-dir", "", "Directory containing .boothsetup.hooks.yml (default: .)")

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadSettings resolves settings and configures logging.
func loadSettings(cmd *cobra.Command, args []string) error {
	s, err := config.LoadSettings(cmd.Flags())
	if err != nil {
		return err
	}
	if err := logger.Configure(s.LogLevel, s.LogFile); err != nil {
		return err
	}
	settings = s
	logger.Debug("Settings: store=%s config=%s printing=%s", s.Store, s.RecordPath(), s.Printing)
	return nil
}
