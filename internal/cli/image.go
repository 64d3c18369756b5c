package cli

import (
	"context"
	"log/slog"

	"github.com/doclab/slipway/internal"
	"github.com/doclab/slipway/internal/runtime"
)

// Represents the 'slipway image' command group.
type ImageCmd struct {
	Import  ImageImportCmd  `cmd:"" help:"Import an OCI archive under a tag."`
	Start   ImageStartCmd   `cmd:"" help:"Start a container from an imported image."`
	Destroy ImageDestroyCmd `cmd:"" help:"Remove an imported image."`
}

// Represents the 'slipway image import' command.
type ImageImportCmd struct {
	Path string `arg:"" help:"Path to the OCI archive." placeholder:"PATH"`
	Tag  string `arg:"" help:"Tag to store the image under." placeholder:"TAG"`
}

// Executes the image import command.
func (c *ImageImportCmd) Run(ctx context.Context) error {
	return withRuntime(func(rt *runtime.Runtime) error {
		if err := rt.ImportImage(ctx, c.Path, c.Tag); err != nil {
			return err
		}
		slog.Info("image imported", "tag", c.Tag)
		return nil
	})
}

// Represents the 'slipway image start' command.
type ImageStartCmd struct {
	Tag string `arg:"" help:"Tag of the imported image." placeholder:"TAG"`
	ID  string `help:"Container ID. Defaults to the tag." placeholder:"ID"`
}

// Executes the image start command.
func (c *ImageStartCmd) Run(ctx context.Context) error {
	id := c.ID
	if id == "" {
		id = c.Tag
	}

	return withRuntime(func(rt *runtime.Runtime) error {
		if _, err := rt.StartFromTag(ctx, c.Tag, id); err != nil {
			return err
		}
		slog.Info("container started", "id", id)
		return nil
	})
}

// Represents the 'slipway image destroy' command.
type ImageDestroyCmd struct {
	Tag string `arg:"" help:"Tag of the imported image." placeholder:"TAG"`
}

// Executes the image destroy command.
func (c *ImageDestroyCmd) Run(ctx context.Context) error {
	return withRuntime(func(rt *runtime.Runtime) error {
		if err := rt.DestroyImage(ctx, c.Tag); err != nil {
			return err
		}
		slog.Info("image destroyed", "tag", c.Tag)
		return nil
	})
}

// Connects to containerd using the resolved configuration and runs fn with
// the runtime, closing it afterward.
func withRuntime(fn func(*runtime.Runtime) error) error {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return err
	}

	rt, err := runtime.New(cfg.ContainerdAddress, cfg.ContainerdNamespace)
	if err != nil {
		return err
	}
	defer rt.Close()

	return fn(rt)
}
