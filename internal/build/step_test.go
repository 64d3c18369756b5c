package build

import (
	"context"
	"testing"

	"github.com/doclab/slipway/internal/manifest"
)

func TestGroupModifiersPersist(t *testing.T) {
	state := newStepState()

	group := manifest.Step{
		Workdir: "/app",
		Steps: []manifest.Step{
			{Shell: "/bin/bash"},
			{Env: map[string]string{"NODE_ENV": "production"}},
		},
	}

	// Modifier-only steps never touch the container, so nil is safe here.
	if err := executeStep(context.Background(), nil, group, state, "", nil); err != nil {
		t.Fatalf("executeStep: %v", err)
	}

	// Group modifiers accumulate into the shared state and stay in
	// effect for the steps that follow the group.
	if state.workdir != "/app" {
		t.Fatalf("workdir = %q, want /app", state.workdir)
	}
	if state.shell != "/bin/bash" {
		t.Fatalf("shell = %q, want /bin/bash", state.shell)
	}
	if state.env["NODE_ENV"] != "production" {
		t.Fatalf("env = %v, want NODE_ENV=production", state.env)
	}
}
