package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/doclab/slipway/internal"
	"github.com/doclab/slipway/internal/build"
	"github.com/doclab/slipway/internal/manifest"
	"github.com/doclab/slipway/internal/pipeline"
	"github.com/doclab/slipway/internal/runtime"
)

// Represents the 'slipway build' command.
type BuildCmd struct {
	Recipe   string   `arg:"" help:"Built-in recipe name or path to a recipe file." placeholder:"RECIPE"`
	Output   string   `short:"o" help:"Directory for the exported image." placeholder:"DIR"`
	Resource string   `short:"r" help:"Resource name, used as a prefix for container IDs." placeholder:"NAME"`
	Root     string   `help:"Build context directory. Defaults to the current directory." placeholder:"DIR"`
	Platform []string `short:"p" help:"Target platform (e.g. linux/amd64). Repeatable." placeholder:"OS/ARCH"`
}

// Executes the build command.
//
// Resolves the recipe argument, connects to containerd, and runs the
// pipeline in-process. The daemon is not required.
func (c *BuildCmd) Run(ctx context.Context) error {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return err
	}

	recipe, err := c.resolveRecipe()
	if err != nil {
		return err
	}

	root := c.Root
	if root == "" {
		if root, err = os.Getwd(); err != nil {
			return err
		}
	}

	output := c.Output
	if output == "" {
		output = cfg.Output
	}

	rt, err := runtime.New(cfg.ContainerdAddress, cfg.ContainerdNamespace)
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := build.Run(ctx, rt, build.Options{
		Recipe:    recipe,
		Resource:  c.Resource,
		Output:    output,
		Root:      root,
		Platforms: c.Platform,
	})
	if err != nil {
		return err
	}

	slog.Info("image exported", "output", result.Output)
	return nil
}

// Resolves the recipe argument to a parsed recipe.
//
// A path to an existing file is loaded from disk; anything else is looked
// up among the built-in recipes.
func (c *BuildCmd) resolveRecipe() (*manifest.Recipe, error) {
	if _, err := os.Stat(c.Recipe); err == nil {
		return manifest.Load(c.Recipe)
	}
	return pipeline.Builtin(c.Recipe)
}
