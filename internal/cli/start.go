package cli

import (
	"context"
	"log/slog"

	"github.com/doclab/slipway/internal"
	"github.com/doclab/slipway/internal/server"
)

// Represents the 'slipway start' command.
type StartCmd struct{}

// Executes the start command.
//
// Starts the daemon on a Unix domain socket and blocks until the context is
// cancelled (e.g. via SIGINT or SIGTERM).
func (c *StartCmd) Run(ctx context.Context) error {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		SocketPath:          RootCmd.Socket,
		ContainerdAddress:   cfg.ContainerdAddress,
		ContainerdNamespace: cfg.ContainerdNamespace,
	})
	if err != nil {
		return err
	}

	if err := srv.Start(); err != nil {
		return err
	}

	slog.Info("slipway is running")

	// The daemon stops on SIGINT/SIGTERM or when a client sends the
	// shutdown command; either way Stop runs exactly once.
	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case <-srv.Done():
		slog.Info("daemon stopped")
	}

	return srv.Stop()
}
