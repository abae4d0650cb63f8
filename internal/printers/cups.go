package printers

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/phin1x/go-ipp"
	"github.com/touchselfie/boothsetup/internal/logger"
)

// CUPSOptions locates a CUPS scheduler.
type CUPSOptions struct {
	Host     string
	Port     int
	User     string
	Password string
	TLS      bool
}

// CUPS lists the queues of a CUPS scheduler over IPP.
type CUPS struct {
	opts   CUPSOptions
	client *ipp.CUPSClient
}

// NewCUPS returns a CUPS directory. No connection is made until Probe or
// ListPrinters is called.
func NewCUPS(opts CUPSOptions) *CUPS {
	if opts.Host == "" {
		opts.Host = "localhost"
	}
	if opts.Port == 0 {
		opts.Port = 631
	}
	return &CUPS{
		opts:   opts,
		client: ipp.NewCUPSClient(opts.Host, opts.Port, opts.User, opts.Password, opts.TLS),
	}
}

func (c *CUPS) addr() string {
	return fmt.Sprintf("%s:%d", c.opts.Host, c.opts.Port)
}

// Probe checks that the scheduler accepts connections.
func (c *CUPS) Probe(ctx context.Context) Capability {
	if err := ctx.Err(); err != nil {
		return Unavailable(err.Error())
	}
	if err := c.client.TestConnection(); err != nil {
		logger.Info("CUPS not reachable at %s, removing printer option: %v", c.addr(), err)
		return Unavailable(fmt.Sprintf("cups not reachable at %s: %v", c.addr(), err))
	}
	logger.Debug("CUPS reachable at %s", c.addr())
	return Available()
}

// ListPrinters returns the queue names sorted alphabetically.
func (c *CUPS) ListPrinters(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	found, err := c.client.GetPrinters([]string{ipp.AttributePrinterName})
	if err != nil {
		return nil, fmt.Errorf("listing printers on %s: %w", c.addr(), err)
	}
	names := slices.Sorted(maps.Keys(found))
	logger.Debug("CUPS returned %d printers", len(names))
	return names, nil
}
