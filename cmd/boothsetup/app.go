package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/touchselfie/boothsetup/internal/config"
	"github.com/touchselfie/boothsetup/internal/nats"
	"github.com/touchselfie/boothsetup/internal/printers"
)

// openStore opens the configuration backend chosen in s. The returned
// location describes where the record lives; close releases the backend.
func openStore(ctx context.Context, s *config.Settings) (store config.Store, location string, closeFn func(), err error) {
	switch s.Store {
	case config.StoreNATS:
		kv, err := nats.OpenKVStore(ctx, filepath.Join(s.DataDir, "nats"), s.Profile)
		if err != nil {
			return nil, "", nil, fmt.Errorf("opening nats store: %w", err)
		}
		location = fmt.Sprintf("nats bucket %s (%s)", kv.Bucket(), s.DataDir)
		return kv, location, func() { _ = kv.Close() }, nil
	default:
		fs := config.NewFileStore(s.RecordPath())
		return fs, fs.Path(), func() {}, nil
	}
}

// printerDirectory returns the printer directory chosen in s.
func printerDirectory(s *config.Settings) printers.Directory {
	if s.Printing == config.PrintingOff {
		return printers.Disabled{}
	}
	return printers.NewCUPS(printers.CUPSOptions{
		Host:     s.CUPSHost,
		Port:     s.CUPSPort,
		User:     s.CUPSUser,
		Password: s.CUPSPassword,
		TLS:      s.CUPSTLS,
	})
}
