package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrManifest = errors.New("invalid manifest")

// A complete image-assembly recipe.
//
// Port and Entrypoint form the runtime declaration attached to the
// exported image: the process launched on container start and the port
// it binds. The final stage is the one exported; earlier stages exist
// only to produce artifacts for cross-stage copies.
type Recipe struct {
	Name       string   `yaml:"name"`       // Recipe name, used as the default resource name.
	Port       int      `yaml:"port"`       // Declared network port, 0 for none.
	Entrypoint []string `yaml:"entrypoint"` // Command launched when a container starts from the image.
	Stages     []Stage  `yaml:"stages"`     // Stages in execution order.
}

// One sequential phase of the pipeline, backed by a container created
// from the stage's base image.
type Stage struct {
	Name      string `yaml:"name,omitempty"`      // Optional name, required to be a cross-stage copy source.
	From      string `yaml:"from"`                // Base image source, see ParseFrom.
	Transient bool   `yaml:"transient,omitempty"` // Transient stages are discarded instead of exported.
	Steps     []Step `yaml:"steps"`               // Steps executed in order.
}

// A single build instruction.
//
// Run and Copy are operations; Shell, Workdir and Env are modifiers. A
// step with only modifiers updates the persistent step state. A step
// combining an operation with modifiers applies them to that operation
// only. A step may instead carry a nested Steps list; the group's
// modifiers are applied to the shared state before the nested steps run
// and persist afterward, like any other standalone modifier step. An
// operation and a nested group cannot appear on the same step.
type Step struct {
	Run     string            `yaml:"run,omitempty"`     // Shell command executed in the stage container.
	Copy    string            `yaml:"copy,omitempty"`    // "src dest" copy from the build context or another stage.
	Shell   string            `yaml:"shell,omitempty"`   // Shell used for subsequent run steps.
	Workdir string            `yaml:"workdir,omitempty"` // Working directory for subsequent steps.
	Env     map[string]string `yaml:"env,omitempty"`     // Environment variables for subsequent steps.
	Steps   []Step            `yaml:"steps,omitempty"`   // Nested group sharing this step's modifiers.
}

// Reads and parses a recipe file, then validates it.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifest, err)
	}
	return Parse(data)
}

// Parses recipe YAML and validates the result.
//
// Unknown fields are rejected so typos in recipe files surface as
// errors instead of silently dropped instructions.
func Parse(data []byte) (*Recipe, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var r Recipe
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifest, err)
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	return &r, nil
}
