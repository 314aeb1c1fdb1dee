package nats

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go/jetstream"

	"go.player.tech/internal/queue"
)

// EmbeddedConfig configures the in-process server used in dev mode.
type EmbeddedConfig struct {
	// DataDir holds the JetStream store
	DataDir string

	Host string

	// Port to listen on; -1 picks a free port
	Port int

	// InMemory keeps the stream out of DataDir
	InMemory bool

	Stream queue.NATSConfig
}

// EmbeddedServer is a NATS server running inside the process together with
// a Transport connected to it.
type EmbeddedServer struct {
	*Transport
	server  *server.Server
	dataDir string
}

// StartEmbedded starts the server, connects to it and configures the event
// stream.
func StartEmbedded(cfg EmbeddedConfig, logger *slog.Logger) (*EmbeddedServer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 4222
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./data/nats"
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create NATS data directory: %w", err)
	}

	ns, err := server.NewServer(&server.Options{
		ServerName: "player-embedded",
		Host:       cfg.Host,
		Port:       cfg.Port,
		JetStream:  true,
		StoreDir:   cfg.DataDir,
		NoLog:      true,
		NoSigs:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}
	go ns.Start()
	if !ns.ReadyForConnections(10 * time.Second) {
		ns.Shutdown()
		return nil, errors.New("embedded NATS server not ready after 10s")
	}

	storage := jetstream.FileStorage
	if cfg.InMemory {
		storage = jetstream.MemoryStorage
	}
	t, err := connect(ns.ClientURL(), cfg.Stream.WithDefaults(), storage, logger)
	if err != nil {
		ns.Shutdown()
		return nil, err
	}

	logger.Info("Embedded NATS server started", "url", ns.ClientURL(), "dataDir", cfg.DataDir)
	return &EmbeddedServer{Transport: t, server: ns, dataDir: cfg.DataDir}, nil
}

// ClientURL is the address other processes can connect to.
func (e *EmbeddedServer) ClientURL() string {
	return e.server.ClientURL()
}

// Close closes the connection, then shuts the server down and removes its
// store lock so the next start does not wait on it.
func (e *EmbeddedServer) Close() error {
	err := e.Transport.Close()

	e.server.Shutdown()
	e.server.WaitForShutdown()

	lock := filepath.Join(e.dataDir, "jetstream", "lock.lck")
	if rmErr := os.Remove(lock); rmErr != nil && !os.IsNotExist(rmErr) {
		err = errors.Join(err, rmErr)
	}
	e.logger.Info("Embedded NATS server stopped")
	return err
}
