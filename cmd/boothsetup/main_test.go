package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
	"github.com/touchselfie/boothsetup/internal/config"
	"github.com/touchselfie/boothsetup/internal/nats"
	"github.com/touchselfie/boothsetup/internal/printers"
)

func TestHighlightYAML(t *testing.T) {
	source := "enable_email: true\nprinter_name: Inkjet\n"

	plain := highlightYAML(source, colorprofile.Ascii)
	require.Equal(t, "enable_email: true\nprinter_name: Inkjet", plain)
	require.Equal(t, plain, highlightYAML(source, colorprofile.NoTTY))

	colored := highlightYAML(source, colorprofile.TrueColor)
	require.NotEqual(t, plain, colored)
	require.Equal(t, plain, ansi.Strip(colored))
}

func TestFormatterFor(t *testing.T) {
	require.Equal(t, "terminal16m", formatterFor(colorprofile.TrueColor))
	require.Equal(t, "terminal256", formatterFor(colorprofile.ANSI256))
	require.Equal(t, "terminal16", formatterFor(colorprofile.ANSI))
	require.Empty(t, formatterFor(colorprofile.Ascii))
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	printHistory(&buf, "printer_name", []nats.Revision{
		{Revision: 1, Value: "LaserJet"},
		{Revision: 4, Deleted: true},
	})
	require.Equal(t, "\nprinter_name:\n  rev 1: LaserJet\n  rev 4: (deleted)\n", buf.String())
}

func TestOpenStore_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configuration.json")
	s := &config.Settings{Store: config.StoreFile, Config: path}

	store, location, closeFn, err := openStore(context.Background(), s)
	require.NoError(t, err)
	defer closeFn()
	require.Equal(t, path, location)
	require.IsType(t, &config.FileStore{}, store)
}

func TestOpenStore_NATS(t *testing.T) {
	s := &config.Settings{Store: config.StoreNATS, DataDir: t.TempDir(), Profile: "Main Hall"}

	store, location, closeFn, err := openStore(context.Background(), s)
	require.NoError(t, err)
	defer closeFn()
	require.Contains(t, location, "boothsetup-main-hall")
	require.IsType(t, &nats.KVStore{}, store)
}

func TestPrinterDirectory(t *testing.T) {
	off := printerDirectory(&config.Settings{Printing: config.PrintingOff})
	require.Equal(t, printers.Disabled{}, off)

	auto := printerDirectory(&config.Settings{Printing: config.PrintingAuto, CUPSHost: "localhost", CUPSPort: 631})
	require.IsType(t, &printers.CUPS{}, auto)
}

func TestRenderLogo(t *testing.T) {
	logo := ansi.Strip(renderLogo())
	require.Contains(t, logo, logoText1)
	require.Contains(t, logo, logoText2)
}
