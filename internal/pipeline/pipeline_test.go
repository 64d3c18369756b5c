package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doclab/slipway/internal/manifest"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"backend", "frontend"}, Names())
}

func TestBuiltinUnknown(t *testing.T) {
	_, err := Builtin("database")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown built-in recipe")
}

func TestBackend(t *testing.T) {
	r, err := Backend()
	require.NoError(t, err)

	assert.Equal(t, "backend", r.Name)
	assert.Equal(t, 8000, r.Port)
	require.Len(t, r.Stages, 1)
	assert.False(t, r.Stages[0].Transient)

	// The server binds all interfaces on the declared port.
	entry := strings.Join(r.Entrypoint, " ")
	assert.Contains(t, entry, "--host 0.0.0.0")
	assert.Contains(t, entry, "--port 8000")
}

func TestBackendDependencyOrdering(t *testing.T) {
	r, err := Backend()
	require.NoError(t, err)

	steps := r.Stages[0].Steps
	install := stepIndex(steps, func(s manifest.Step) bool {
		return strings.Contains(s.Run, "pip install")
	})
	manifestCopy := stepIndex(steps, func(s manifest.Step) bool {
		return strings.HasPrefix(s.Copy, "requirements.txt")
	})
	sourceCopy := stepIndex(steps, func(s manifest.Step) bool {
		return s.Copy == ". ."
	})

	require.GreaterOrEqual(t, manifestCopy, 0, "dependency manifest copy step missing")
	require.GreaterOrEqual(t, install, 0, "dependency install step missing")
	require.GreaterOrEqual(t, sourceCopy, 0, "source copy step missing")

	// Dependency layers must not be invalidated by source-only edits:
	// the manifest copy and install precede the full source copy.
	assert.Less(t, manifestCopy, install)
	assert.Less(t, install, sourceCopy)
}

func TestBackendWorkingDirectories(t *testing.T) {
	r, err := Backend()
	require.NoError(t, err)

	mkdir := findStep(r.Stages[0].Steps, func(s manifest.Step) bool {
		return strings.HasPrefix(s.Run, "mkdir")
	})
	require.NotNil(t, mkdir, "directory creation step missing")

	// Exactly the two directories the application reads and writes.
	assert.Contains(t, mkdir.Run, "uploaded_documents")
	assert.Contains(t, mkdir.Run, "output")
	assert.Len(t, strings.Fields(mkdir.Run), 4, "mkdir -p plus exactly two directories")
}

func TestFrontend(t *testing.T) {
	r, err := Frontend()
	require.NoError(t, err)

	assert.Equal(t, "frontend", r.Name)
	assert.Equal(t, 80, r.Port)
	require.Len(t, r.Stages, 2)

	// Build stage is discarded; only the serve stage is exported.
	assert.True(t, r.Stages[0].Transient)
	assert.False(t, r.Stages[1].Transient)

	// The static server stays in the foreground so the container's
	// lifecycle tracks the server process.
	assert.Contains(t, r.Entrypoint, "daemon off;")
}

func TestFrontendDependencyOrdering(t *testing.T) {
	r, err := Frontend()
	require.NoError(t, err)

	steps := r.Stages[0].Steps
	manifestCopy := stepIndex(steps, func(s manifest.Step) bool {
		return strings.HasPrefix(s.Copy, "package.json")
	})
	install := stepIndex(steps, func(s manifest.Step) bool {
		return s.Run == "npm ci"
	})
	sourceCopy := stepIndex(steps, func(s manifest.Step) bool {
		return s.Copy == ". ."
	})
	build := stepIndex(steps, func(s manifest.Step) bool {
		return s.Run == "npm run build"
	})

	require.GreaterOrEqual(t, manifestCopy, 0)
	require.GreaterOrEqual(t, install, 0)
	require.GreaterOrEqual(t, sourceCopy, 0)
	require.GreaterOrEqual(t, build, 0)

	assert.Less(t, manifestCopy, install)
	assert.Less(t, install, sourceCopy)
	assert.Less(t, sourceCopy, build)
}

func TestFrontendDocumentRoot(t *testing.T) {
	r, err := Frontend()
	require.NoError(t, err)

	serve := r.Stages[1]
	require.Len(t, serve.Steps, 1, "only the build output enters the runtime stage")

	src, dest, err := splitCopy(serve.Steps[0].Copy)
	require.NoError(t, err)

	stage, path, ok := manifest.StageRef(src)
	require.True(t, ok, "document root must come from the build stage")
	assert.Equal(t, "build", stage)
	assert.Equal(t, "/app/dist", path)
	assert.Equal(t, "/usr/share/nginx/html", dest)
}

func stepIndex(steps []manifest.Step, match func(manifest.Step) bool) int {
	for i, s := range steps {
		if match(s) {
			return i
		}
	}
	return -1
}

func findStep(steps []manifest.Step, match func(manifest.Step) bool) *manifest.Step {
	if i := stepIndex(steps, match); i >= 0 {
		return &steps[i]
	}
	return nil
}

func splitCopy(s string) (src, dest string, err error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return "", "", assert.AnError
	}
	return parts[0], parts[1], nil
}
