package printers

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	ctx := context.Background()
	s := &Static{Names: []string{"LaserJet", "Inkjet"}}

	require.Equal(t, Available(), s.Probe(ctx))

	names, err := s.ListPrinters(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"LaserJet", "Inkjet"}, names)

	// Callers get their own copy.
	names[0] = "changed"
	again, err := s.ListPrinters(ctx)
	require.NoError(t, err)
	require.Equal(t, "LaserJet", again[0])
	require.Equal(t, 1, s.Probes)
	require.Equal(t, 2, s.Lists)
}

func TestStatic_FailureModes(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")

	s := &Static{Err: boom, Reason: "no cups"}
	capability := s.Probe(ctx)
	require.False(t, capability.Available)
	require.Equal(t, "no cups", capability.Reason)

	_, err := s.ListPrinters(ctx)
	require.ErrorIs(t, err, boom)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = (&Static{Names: []string{"a"}}).ListPrinters(cancelled)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDisabled(t *testing.T) {
	var d Directory = Disabled{}
	require.False(t, d.Probe(context.Background()).Available)
	_, err := d.ListPrinters(context.Background())
	require.Error(t, err)
}

// closedPort returns a localhost port with nothing listening on it.
func closedPort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func TestCUPS_UnreachableScheduler(t *testing.T) {
	ctx := context.Background()
	c := NewCUPS(CUPSOptions{Host: "127.0.0.1", Port: closedPort(t)})

	capability := c.Probe(ctx)
	require.False(t, capability.Available)
	require.Contains(t, capability.Reason, "cups not reachable")

	_, err := c.ListPrinters(ctx)
	require.Error(t, err)
}

func TestCUPS_Defaults(t *testing.T) {
	c := NewCUPS(CUPSOptions{})
	require.Equal(t, "localhost:631", c.addr())
}

func TestCUPS_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCUPS(CUPSOptions{Host: "127.0.0.1", Port: 1})
	require.False(t, c.Probe(ctx).Available)
	_, err := c.ListPrinters(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
