package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/doclab/slipway/internal"
	"github.com/doclab/slipway/internal/build"
	"github.com/doclab/slipway/internal/protocol"
)

// Executes a recipe on behalf of a client.
//
// The build runs synchronously on the connection's goroutine; the client
// holds the connection open for the duration and receives the result (or
// error) as the single response. Disconnecting cancels the build.
func (s *Server) handleBuild(ctx context.Context, conn net.Conn, payload json.RawMessage) {
	req, err := protocol.DecodePayload[protocol.BuildRequest](payload)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	if req.Recipe == nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: "missing recipe"})
		return
	}

	run := uuid.NewString()
	slog.Info("build started", "run", run, "recipe", req.Recipe.Name, "resource", req.Resource)

	result, err := build.Run(ctx, s.runtime, build.Options{
		Recipe:    req.Recipe,
		Resource:  req.Resource,
		Output:    req.Output,
		Root:      req.Root,
		Platforms: req.Platforms,
	})
	if err != nil {
		slog.Error("build failed", "run", run, "error", err)
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	s.mu.Lock()
	s.builds++
	s.mu.Unlock()

	slog.Info("build finished", "run", run, "output", result.Output)
	s.respond(conn, protocol.CmdOK, &protocol.BuildResult{Output: result.Output})
}

// Reports daemon status.
func (s *Server) handleStatus(_ context.Context, conn net.Conn) {
	s.mu.Lock()
	builds := s.builds
	s.mu.Unlock()

	s.respond(conn, protocol.CmdOK, &protocol.StatusResult{
		Running: true,
		Version: internal.VersionString(),
		Pid:     os.Getpid(),
		Uptime:  time.Since(s.startedAt).Round(time.Second).String(),
		Builds:  builds,
	})
}

// Acknowledges the request and stops the server.
func (s *Server) handleShutdown(_ context.Context, conn net.Conn) {
	s.respond(conn, protocol.CmdOK, nil)

	slog.Info("shutdown requested")
	if err := s.Stop(); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// Imports an OCI archive into the content store under a tag.
func (s *Server) handleImageImport(ctx context.Context, conn net.Conn, payload json.RawMessage) {
	req, err := protocol.DecodePayload[protocol.ImageImportRequest](payload)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	if err := s.runtime.ImportImage(ctx, req.Path, req.Tag); err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	s.respond(conn, protocol.CmdOK, nil)
}

// Starts a container from a previously imported image.
func (s *Server) handleImageStart(ctx context.Context, conn net.Conn, payload json.RawMessage) {
	req, err := protocol.DecodePayload[protocol.ImageStartRequest](payload)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	id := req.ID
	if id == "" {
		id = req.Tag
	}

	if _, err := s.runtime.StartFromTag(ctx, req.Tag, id); err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	s.respond(conn, protocol.CmdOK, nil)
}

// Removes an imported image from the content store.
func (s *Server) handleImageDestroy(ctx context.Context, conn net.Conn, payload json.RawMessage) {
	req, err := protocol.DecodePayload[protocol.ImageDestroyRequest](payload)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	if err := s.runtime.DestroyImage(ctx, req.Tag); err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	s.respond(conn, protocol.CmdOK, nil)
}

// Stops a running container.
func (s *Server) handleContainerStop(ctx context.Context, conn net.Conn, payload json.RawMessage) {
	req, err := protocol.DecodePayload[protocol.ContainerRequest](payload)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	if err := s.runtime.Container(req.ID).Stop(ctx); err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	s.respond(conn, protocol.CmdOK, nil)
}

// Removes a container and its task.
func (s *Server) handleContainerDestroy(ctx context.Context, conn net.Conn, payload json.RawMessage) {
	req, err := protocol.DecodePayload[protocol.ContainerRequest](payload)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	s.runtime.Container(req.ID).Destroy(ctx)
	s.respond(conn, protocol.CmdOK, nil)
}

// Reports the lifecycle state of a container.
func (s *Server) handleContainerStatus(ctx context.Context, conn net.Conn, payload json.RawMessage) {
	req, err := protocol.DecodePayload[protocol.ContainerRequest](payload)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	state, err := s.runtime.Container(req.ID).Status(ctx)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	s.respond(conn, protocol.CmdOK, &protocol.ContainerStatusResult{State: state})
}

// Runs a command inside a container and returns its output.
func (s *Server) handleContainerExec(ctx context.Context, conn net.Conn, payload json.RawMessage) {
	req, err := protocol.DecodePayload[protocol.ContainerExecRequest](payload)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	if len(req.Args) == 0 {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{
			Message: fmt.Sprintf("%v: empty command", ErrServer),
		})
		return
	}

	result, err := s.runtime.Container(req.ID).ExecArgs(ctx, req.Args)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	s.respond(conn, protocol.CmdOK, &protocol.ContainerExecResult{
		ExitCode: result.ExitCode,
		Stdout:   result.Stdout,
		Stderr:   result.Stderr,
	})
}
