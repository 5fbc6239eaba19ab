package probe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
)

func TestDefaultModelProbeNoBuildFileErrors(t *testing.T) {
	dir := t.TempDir()
	var p DefaultModelProbe
	if _, err := p.Probe(dir, ProbeOptions{Log: logr.Discard()}); err == nil {
		t.Fatalf("expected error for missing build file")
	}
}

func TestDefaultModelProbeJavaProject(t *testing.T) {
	dir := t.TempDir()
	mkSourceSet(t, dir, "main", "java")
	if err := os.WriteFile(filepath.Join(dir, "build.gradle.kts"), []byte("plugins {\n id(\"java\")\n}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var p DefaultModelProbe
	models, err := p.Probe(dir, ProbeOptions{Log: logr.Discard(), Offline: true})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if len(models) != 1 || models[0].SourceSetName != "main" {
		t.Fatalf("unexpected models: %+v", models)
	}
}

func TestDefaultModelProbeAndroidProject(t *testing.T) {
	dir := t.TempDir()
	content := "plugins {\n id(\"com.android.application\")\n}\n"
	if err := os.WriteFile(filepath.Join(dir, "build.gradle.kts"), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var p DefaultModelProbe
	models, err := p.Probe(dir, ProbeOptions{Log: logr.Discard()})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if len(models) == 0 {
		t.Fatalf("expected android variants")
	}
}
