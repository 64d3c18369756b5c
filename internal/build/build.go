package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	goruntime "runtime"

	"github.com/doclab/slipway/internal/manifest"
	"github.com/doclab/slipway/internal/paths"
	"github.com/doclab/slipway/internal/runtime"
)

// Controls recipe execution.
type Options struct {
	Recipe    *manifest.Recipe // Recipe to execute.
	Resource  string           // Resource name, used as a prefix for container IDs.
	Output    string           // Directory for the exported image.
	Root      string           // Build context, for resolving copy sources and archive paths.
	Platforms []string         // Target platforms (e.g., ["linux/amd64"]). Defaults to host.
}

// Returned after successful recipe execution.
type Result struct {
	Output string // Directory containing the exported image.
}

// Executes a recipe against the container runtime.
//
// Stages are built in declaration order. Each stage starts a container from
// its base image, executes the stage's steps, and the final stage is
// exported to the output directory with the recipe's entrypoint and port.
func Run(ctx context.Context, rt *runtime.Runtime, opts Options) (*Result, error) {
	if len(opts.Platforms) == 0 {
		opts.Platforms = []string{"linux/" + goruntime.GOARCH}
	}
	if opts.Resource == "" {
		opts.Resource = opts.Recipe.Name
	}

	if err := opts.Recipe.Validate(); err != nil {
		return nil, err
	}

	slog.Info("executing recipe",
		"resource", opts.Resource,
		"output", opts.Output,
		"stages", len(opts.Recipe.Stages),
		"platforms", opts.Platforms,
	)

	if err := os.MkdirAll(opts.Output, paths.DefaultDirMode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}

	return newRecipe(rt, opts).build(ctx, opts.Recipe.Stages)
}
