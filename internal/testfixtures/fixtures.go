package testfixtures

import (
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/touchselfie/boothsetup/internal/config"
)

// Disable colour so rendered views compare as plain text on every platform.
func init() {
	lipgloss.Writer.Profile = colorprofile.Ascii
}

// Canonical terminal size for TUI tests
const (
	TestTermWidth  = 120
	TestTermHeight = 40
)

// Printer names returned by the fake directory.
var Printers = []string{"LaserJet", "Inkjet"}

// AllFeaturesOff is the starting record of a fresh installation.
func AllFeaturesOff() map[string]any {
	return config.Defaults()
}

// PrintingConfigured is a record with printing already set up.
func PrintingConfigured() map[string]any {
	m := config.Defaults()
	m[config.KeyEnablePrint] = true
	m[config.KeyPrinterName] = "Inkjet"
	return m
}
