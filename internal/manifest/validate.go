package manifest

import (
	"fmt"
	"strings"
)

// Checks the recipe against the structural invariants the build
// pipeline relies on.
//
// The runtime declaration must be complete: a non-empty entrypoint and
// at most one port in the valid range. The stage list must end with the
// single non-transient stage that becomes the exported image; every
// earlier stage must be transient. Cross-stage copy sources may only
// reference named stages declared earlier in the recipe.
func (r *Recipe) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: recipe has no name", ErrManifest)
	}

	if len(r.Entrypoint) == 0 {
		return fmt.Errorf("%w: recipe %q has no entrypoint", ErrManifest, r.Name)
	}

	if r.Port < 0 || r.Port > 65535 {
		return fmt.Errorf("%w: recipe %q declares invalid port %d", ErrManifest, r.Name, r.Port)
	}

	if len(r.Stages) == 0 {
		return fmt.Errorf("%w: recipe %q has no stages", ErrManifest, r.Name)
	}

	if err := r.validateStages(); err != nil {
		return err
	}

	return r.validateCopies()
}

// Validates stage ordering, transience, and name uniqueness.
func (r *Recipe) validateStages() error {
	last := len(r.Stages) - 1
	seen := make(map[string]bool, len(r.Stages))

	for i, stage := range r.Stages {
		if _, err := stage.ParseFrom(); err != nil {
			return err
		}

		if stage.Name != "" {
			if seen[stage.Name] {
				return fmt.Errorf("%w: duplicate stage name %q", ErrManifest, stage.Name)
			}
			seen[stage.Name] = true
		}

		if i == last && stage.Transient {
			return fmt.Errorf("%w: final stage %q is transient, nothing would be exported", ErrManifest, stage.Name)
		}
		if i != last && !stage.Transient {
			return fmt.Errorf("%w: stage %q is not transient but is not the final stage", ErrManifest, stage.Name)
		}
	}

	return nil
}

// Validates every copy step in the recipe.
//
// Copy strings must have exactly a source and a destination, and
// cross-stage sources must name a stage declared before the one the
// copy appears in.
func (r *Recipe) validateCopies() error {
	earlier := make(map[string]bool, len(r.Stages))

	for _, stage := range r.Stages {
		if err := validateSteps(stage.Steps, stage.Name, earlier); err != nil {
			return err
		}
		if stage.Name != "" {
			earlier[stage.Name] = true
		}
	}

	return nil
}

// Recursively validates steps within a step list.
//
// An operation and a nested group are mutually exclusive on one step;
// the executor dispatches to exactly one of them, so allowing both would
// silently drop the operation.
func validateSteps(steps []Step, stageName string, earlier map[string]bool) error {
	for _, step := range steps {
		if len(step.Steps) > 0 {
			if step.Run != "" || step.Copy != "" {
				return fmt.Errorf("%w: stage %q: a step cannot combine run or copy with a nested group", ErrManifest, stageName)
			}
			if err := validateSteps(step.Steps, stageName, earlier); err != nil {
				return err
			}
		}

		if step.Copy == "" {
			continue
		}

		parts := strings.Fields(step.Copy)
		if len(parts) != 2 {
			return fmt.Errorf("%w: stage %q: copy %q needs a source and a destination", ErrManifest, stageName, step.Copy)
		}

		if ref, _, ok := StageRef(parts[0]); ok && !earlier[ref] {
			return fmt.Errorf("%w: stage %q: copy references unknown stage %q", ErrManifest, stageName, ref)
		}
	}

	return nil
}
