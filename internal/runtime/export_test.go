package runtime

import (
	"testing"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

func TestApplyRuntimeConfig(t *testing.T) {
	config := ocispec.Image{}
	config.Config.Entrypoint = []string{"/old"}
	config.Config.Cmd = []string{"--flag"}

	applyRuntimeConfig(&config, []string{"nginx", "-g", "daemon off;"}, 80)

	if len(config.Config.Entrypoint) != 3 || config.Config.Entrypoint[0] != "nginx" {
		t.Fatalf("entrypoint = %v, want nginx -g 'daemon off;'", config.Config.Entrypoint)
	}
	if config.Config.Cmd != nil {
		t.Fatalf("cmd = %v, want nil", config.Config.Cmd)
	}
	if _, ok := config.Config.ExposedPorts["80/tcp"]; !ok {
		t.Fatalf("exposed ports = %v, want 80/tcp", config.Config.ExposedPorts)
	}
	if len(config.Config.ExposedPorts) != 1 {
		t.Fatalf("len(exposed ports) = %d, want 1", len(config.Config.ExposedPorts))
	}
}

func TestApplyRuntimeConfigNoPort(t *testing.T) {
	config := ocispec.Image{}

	applyRuntimeConfig(&config, []string{"/server"}, 0)

	if config.Config.ExposedPorts != nil {
		t.Fatalf("exposed ports = %v, want nil", config.Config.ExposedPorts)
	}
}

func TestApplyRuntimeConfigKeepsBaseEntrypoint(t *testing.T) {
	config := ocispec.Image{}
	config.Config.Entrypoint = []string{"/base"}
	config.Config.Cmd = []string{"serve"}

	applyRuntimeConfig(&config, nil, 8000)

	if len(config.Config.Entrypoint) != 1 || config.Config.Entrypoint[0] != "/base" {
		t.Fatalf("entrypoint = %v, want /base preserved", config.Config.Entrypoint)
	}
	if len(config.Config.Cmd) != 1 {
		t.Fatalf("cmd = %v, want preserved", config.Config.Cmd)
	}
	if _, ok := config.Config.ExposedPorts["8000/tcp"]; !ok {
		t.Fatalf("exposed ports = %v, want 8000/tcp", config.Config.ExposedPorts)
	}
}

func TestManifestGCLabels(t *testing.T) {
	m := ocispec.Manifest{
		Config: ocispec.Descriptor{
			Digest: digest.FromString("config"),
		},
		Layers: []ocispec.Descriptor{
			{Digest: digest.FromString("layer0")},
			{Digest: digest.FromString("layer1")},
		},
	}

	labels := manifestGCLabels(m)

	configLabel := labels["containerd.io/gc.ref.content.config"]
	if configLabel != m.Config.Digest.String() {
		t.Fatalf("config label = %q, want %q", configLabel, m.Config.Digest.String())
	}

	for i, layer := range m.Layers {
		key := "containerd.io/gc.ref.content.l." + string(rune('0'+i))
		got := labels[key]
		if got != layer.Digest.String() {
			t.Fatalf("labels[%q] = %q, want %q", key, got, layer.Digest.String())
		}
	}

	if len(labels) != 3 {
		t.Fatalf("len(labels) = %d, want 3", len(labels))
	}
}

func TestIndexGCLabels(t *testing.T) {
	idx := ocispec.Index{
		Manifests: []ocispec.Descriptor{
			{Digest: digest.FromString("m0")},
			{Digest: digest.FromString("m1")},
		},
	}

	labels := indexGCLabels(idx)
	if len(labels) != 2 {
		t.Fatalf("len(labels) = %d, want 2", len(labels))
	}
	if labels["containerd.io/gc.ref.content.m.0"] != idx.Manifests[0].Digest.String() {
		t.Fatal("manifest 0 label mismatch")
	}
	if labels["containerd.io/gc.ref.content.m.1"] != idx.Manifests[1].Digest.String() {
		t.Fatal("manifest 1 label mismatch")
	}
}
