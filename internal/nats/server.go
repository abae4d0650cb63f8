package nats

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/touchselfie/boothsetup/internal/logger"
)

// JetStream limits for a configuration bucket. A record is a handful of
// scalars, so both stay tiny.
const (
	maxMemory = 1 << 20  // 1 MiB
	maxStore  = 16 << 20 // 16 MiB, history included

	readyTimeout    = 4 * time.Second
	drainTimeout    = 2 * time.Second
	shutdownTimeout = 5 * time.Second
)

// embedded is an in-process JetStream server holding one profile's bucket,
// plus the connection talking to it.
type embedded struct {
	ns *server.Server
	nc *nats.Conn
	js jetstream.JetStream
}

// profileDir returns the JetStream store directory of profile under dataDir.
// Profiles never share a store, so two booths on one machine do not contend
// for the same files.
func profileDir(dataDir, profile string) string {
	return filepath.Join(dataDir, BucketName(profile))
}

// startEmbedded boots a server that does not listen on any port and connects
// to it in-process.
func startEmbedded(dataDir, profile string) (*embedded, error) {
	storeDir := profileDir(dataDir, profile)
	logger.Debug("Starting embedded NATS for profile %q in %s", profile, storeDir)

	ns, err := server.NewServer(&server.Options{
		ServerName:         BucketName(profile),
		JetStream:          true,
		JetStreamMaxMemory: maxMemory,
		JetStreamMaxStore:  maxStore,
		StoreDir:           storeDir,
		DontListen:         true, // in-process only
		NoSigs:             true, // signals belong to the CLI
	})
	if err != nil {
		return nil, err
	}

	go ns.Start()

	if !ns.ReadyForConnections(readyTimeout) {
		ns.Shutdown()
		return nil, errors.New("nats server failed to start within timeout")
	}

	nc, err := nats.Connect("", nats.InProcessServer(ns), nats.Name("boothsetup"))
	if err != nil {
		e := &embedded{ns: ns}
		_ = e.close()
		return nil, err
	}

	js, err := jetstream.New(nc)
	if err != nil {
		e := &embedded{ns: ns, nc: nc}
		_ = e.close()
		return nil, err
	}

	return &embedded{ns: ns, nc: nc, js: js}, nil
}

// close drains the connection and stops the server. Neither step may hang
// the CLI on exit.
func (e *embedded) close() error {
	if e.nc != nil {
		drained := make(chan error, 1)
		go func() {
			drained <- e.nc.Drain()
		}()

		select {
		case err := <-drained:
			if err != nil {
				// Pending writes are lost either way; close hard.
				logger.Warn("NATS drain failed, forcing close: %v", err)
				e.nc.Close()
			}
		case <-time.After(drainTimeout):
			logger.Warn("NATS drain timed out after %s, forcing close", drainTimeout)
			e.nc.Close()
		}
	}

	if e.ns == nil {
		return nil
	}

	e.ns.Shutdown()
	stopped := make(chan struct{})
	go func() {
		e.ns.WaitForShutdown()
		close(stopped)
	}()

	select {
	case <-stopped:
		logger.Debug("Embedded NATS stopped")
		return nil
	case <-time.After(shutdownTimeout):
		// There is no force-stop API; give up waiting.
		return errors.New("nats server shutdown timed out")
	}
}
