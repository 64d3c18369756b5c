package protocol

import "github.com/doclab/slipway/internal/manifest"

// Observable lifecycle state of a container.
type ContainerState string

const (
	ContainerRunning    ContainerState = "running"
	ContainerStopped    ContainerState = "stopped"
	ContainerNotCreated ContainerState = "not-created"
)

// Asks the daemon to execute a recipe.
type BuildRequest struct {
	Recipe    *manifest.Recipe `json:"recipe"`
	Resource  string           `json:"resource"`            // Name prefix for stage containers.
	Output    string           `json:"output"`              // Directory receiving the exported image.
	Root      string           `json:"root"`                // Build context for resolving copy sources.
	Platforms []string         `json:"platforms,omitempty"` // Target platforms; empty means host.
}

// Result of a successful build.
type BuildResult struct {
	Output string `json:"output"`
}

// Reported when a command fails.
type ErrorResult struct {
	Message string `json:"message"`
}

// Daemon status snapshot.
type StatusResult struct {
	Running bool   `json:"running"`
	Version string `json:"version"`
	Pid     int    `json:"pid"`
	Uptime  string `json:"uptime"`
	Builds  int    `json:"builds"`
}

// Asks the daemon to import an OCI archive under a tag.
type ImageImportRequest struct {
	Path string `json:"path"`
	Tag  string `json:"tag"`
}

// Asks the daemon to start a container from an imported image.
type ImageStartRequest struct {
	Tag string `json:"tag"`
	ID  string `json:"id"`
}

// Asks the daemon to remove an image and its containers.
type ImageDestroyRequest struct {
	Tag string `json:"tag"`
}

// Names a container for stop, destroy, and status commands.
type ContainerRequest struct {
	ID string `json:"id"`
}

// Container status response.
type ContainerStatusResult struct {
	State ContainerState `json:"state"`
}

// Asks the daemon to run a command inside a container.
type ContainerExecRequest struct {
	ID   string   `json:"id"`
	Args []string `json:"args"`
}

// Output of a container exec.
type ContainerExecResult struct {
	ExitCode int    `json:"exit_code"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
}
