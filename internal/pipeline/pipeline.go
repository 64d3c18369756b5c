// Package pipeline ships the built-in recipes.
//
// Two recipes are embedded in the binary: "backend" assembles the Python
// service image (dependencies installed before the source tree, the two
// working directories pre-created, port 8000, uvicorn entrypoint), and
// "frontend" assembles the static site image (transient node build stage,
// nginx runtime stage serving the build output on port 80). Both are
// parsed and validated on access, so a broken embedded recipe surfaces
// as an error rather than a half-built image.
package pipeline

import (
	"embed"
	"fmt"
	"sort"

	"github.com/doclab/slipway/internal/manifest"
)

//go:embed backend.yaml frontend.yaml
var recipes embed.FS

// Returns the built-in backend service recipe.
func Backend() (*manifest.Recipe, error) {
	return Builtin("backend")
}

// Returns the built-in frontend static-site recipe.
func Frontend() (*manifest.Recipe, error) {
	return Builtin("frontend")
}

// Looks up a built-in recipe by name.
func Builtin(name string) (*manifest.Recipe, error) {
	data, err := recipes.ReadFile(name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown built-in recipe %q (have %v)", name, Names())
	}

	recipe, err := manifest.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("built-in recipe %q: %w", name, err)
	}

	return recipe, nil
}

// Lists the names of the built-in recipes.
func Names() []string {
	entries, err := recipes.ReadDir(".")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name()[:len(e.Name())-len(".yaml")])
	}
	sort.Strings(names)
	return names
}
