package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEmbeddedPrefabsDecode(t *testing.T) {
	lib := NewLibrary("")
	for _, name := range []string{"crate", "ground", "spark", "orbiter"} {
		spec, err := LoadEntityBuildSpec(lib, name)
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		if spec.Name != name {
			t.Fatalf("expected name %q, got %q", name, spec.Name)
		}
		if _, ok := spec.Components["position"]; !ok {
			t.Fatalf("%s: expected a position component", name)
		}
	}
}

func TestLoadSceneSpec(t *testing.T) {
	scene, err := LoadSceneSpec(NewLibrary(""), "demo")
	if err != nil {
		t.Fatalf("load scene: %v", err)
	}
	if scene.Gravity.Y >= 0 {
		t.Fatalf("expected downward gravity, got %+v", scene.Gravity)
	}
	if got := scene.Clear.Or(color.RGBA{}); got != (color.RGBA{R: 0x10, G: 0x14, B: 0x18, A: 0xff}) {
		t.Fatalf("unexpected clear colour %+v", got)
	}
	if len(scene.Spawn) == 0 {
		t.Fatalf("expected spawn entries")
	}
}

func TestDecodeComponentSpec(t *testing.T) {
	spec, err := LoadEntityBuildSpec(NewLibrary(""), "crate")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	shape, err := DecodeComponentSpec[ShapeComponentSpec](spec.Components["shape"])
	if err != nil {
		t.Fatalf("decode shape: %v", err)
	}
	if shape.Width != 24 || shape.Layer != 1 {
		t.Fatalf("unexpected shape %+v", shape)
	}
	if got := shape.Color.Or(color.RGBA{}); got != (color.RGBA{R: 0xc8, G: 0x87, B: 0x3a, A: 0xff}) {
		t.Fatalf("unexpected colour %+v", got)
	}

	empty, err := DecodeComponentSpec[BodyComponentSpec](nil)
	if err != nil || empty != (BodyComponentSpec{}) {
		t.Fatalf("expected zero spec for nil raw, got %+v, %v", empty, err)
	}
}

func TestDiskShadowsEmbedded(t *testing.T) {
	dir := t.TempDir()
	data := []byte("name: crate-override\ncomponents:\n  position: {x: 1, y: 2}\n")
	if err := os.WriteFile(filepath.Join(dir, "crate.yaml"), data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	lib := NewLibrary(dir)
	spec, err := LoadEntityBuildSpec(lib, "prefabs/crate.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if spec.Name != "crate-override" {
		t.Fatalf("expected disk prefab to win, got %q", spec.Name)
	}
	if _, ok := lib.ModTime("crate"); !ok {
		t.Fatalf("expected mod time for disk prefab")
	}

	ground, err := LoadEntityBuildSpec(lib, "ground")
	if err != nil || ground.Name != "ground" {
		t.Fatalf("expected embedded fallback, got %+v, %v", ground, err)
	}
}

func TestLibraryListing(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "barrel.yaml"), []byte("name: barrel\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	names, err := NewLibrary(dir).Names()
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	want := []string{"barrel", "crate", "ground", "orbiter", "spark"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}

	scenes, err := NewLibrary(dir).Scenes()
	if err != nil || len(scenes) != 1 || scenes[0] != "demo" {
		t.Fatalf("expected only the embedded demo scene, got %v, %v", scenes, err)
	}
}

func TestCleanPaths(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{cleanPrefabPath("crate"), "crate.yaml"},
		{cleanPrefabPath("prefabs/crate.yaml"), "crate.yaml"},
		{cleanScriptPath("orbit"), "scripts/orbit.tengo"},
		{cleanScriptPath("prefabs/scripts/orbit.tengo"), "scripts/orbit.tengo"},
		{cleanScenePath("scenes/demo"), "scenes/demo.yaml"},
	}
	for _, tc := range tests {
		if tc.got != tc.want {
			t.Fatalf("got %q, want %q", tc.got, tc.want)
		}
	}
	if ScriptName("/tmp/prefabs/scripts/orbit.tengo") != "orbit" {
		t.Fatalf("unexpected script name")
	}
	if ScriptName("crate.yaml") != "" {
		t.Fatalf("expected yaml path to map to no script")
	}
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	path := filepath.Join(dir, "crate.yaml")
	if err := os.WriteFile(path, []byte("name: crate\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case name := <-w.Events:
		if filepath.Base(name) != "crate.yaml" {
			t.Fatalf("unexpected event for %q", name)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for watcher event")
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	for range w.Events {
	}
}
