// Package printers discovers the print queues a photobooth can send to.
//
// A Directory is optional: Probe reports whether it can be used at all, and
// the wizard leaves out everything printer related when it cannot.
package printers

import (
	"context"
	"errors"
	"slices"
)

// Capability is the outcome of probing a Directory.
type Capability struct {
	Available bool
	Reason    string // why the directory is unavailable, empty when available
}

// Available returns a Capability marking the directory usable.
func Available() Capability {
	return Capability{Available: true}
}

// Unavailable returns a Capability marking the directory unusable.
func Unavailable(reason string) Capability {
	return Capability{Reason: reason}
}

// Directory lists printer names.
type Directory interface {
	// Probe is called once at startup.
	Probe(ctx context.Context) Capability
	// ListPrinters returns printer names in display order.
	ListPrinters(ctx context.Context) ([]string, error)
}

// Disabled is a Directory that is never available.
type Disabled struct{}

func (Disabled) Probe(context.Context) Capability {
	return Unavailable("printing disabled")
}

func (Disabled) ListPrinters(context.Context) ([]string, error) {
	return nil, errors.New("printing disabled")
}

// Static is an in-memory Directory.
type Static struct {
	Names  []string
	Err    error  // returned by ListPrinters when set
	Reason string // when set, Probe reports unavailable with this reason

	Probes int // number of Probe calls
	Lists  int // number of ListPrinters calls
}

func (s *Static) Probe(context.Context) Capability {
	s.Probes++
	if s.Reason != "" {
		return Unavailable(s.Reason)
	}
	return Available()
}

func (s *Static) ListPrinters(ctx context.Context) ([]string, error) {
	s.Lists++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return slices.Clone(s.Names), nil
}
