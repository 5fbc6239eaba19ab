package aggregate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"

	"gradlebsp/pkg/model"
	"gradlebsp/pkg/probe"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestRunDiscoversMultipleProjectsAndOrdersStably(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "settings.gradle.kts"), "rootProject.name = \"root\"\n")
	writeFile(t, filepath.Join(root, "build.gradle.kts"), "plugins { id(\"java\") }\n")
	writeFile(t, filepath.Join(root, "src", "main", "java", "App.java"), "class App {}\n")
	writeFile(t, filepath.Join(root, "lib", "build.gradle.kts"), "plugins { id(\"java\") }\n")
	writeFile(t, filepath.Join(root, "lib", "src", "main", "java", "Foo.java"), "class Foo {}\n")

	result, err := Run(context.Background(), root, Options{Log: logr.Discard(), Opts: probe.ProbeOptions{Log: logr.Discard()}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Models) == 0 {
		t.Fatalf("expected at least one model")
	}

	var sawRoot, sawLib bool
	for _, m := range result.Models {
		if m.ProjectDir == root {
			sawRoot = true
		}
		if m.ProjectDir == filepath.Join(root, "lib") {
			sawLib = true
		}
	}
	if !sawRoot || !sawLib {
		t.Fatalf("expected models from both root and lib project, got %+v", result.Models)
	}
	if result.Models[0].ProjectDir != root {
		t.Fatalf("expected the root project's models first, got %s first", result.Models[0].ProjectDir)
	}

	again, err := Run(context.Background(), root, Options{Log: logr.Discard(), Opts: probe.ProbeOptions{Log: logr.Discard()}})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if len(again.Models) != len(result.Models) {
		t.Fatalf("second Run returned %d models, first returned %d", len(again.Models), len(result.Models))
	}
	for i := range result.Models {
		if again.Models[i].Identity() != result.Models[i].Identity() {
			t.Fatalf("model order differs between runs at %d: %+v vs %+v", i, result.Models[i].Identity(), again.Models[i].Identity())
		}
	}
}

func TestRunFollowsIncludedBuilds(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "settings.gradle.kts"), "rootProject.name = \"root\"\nincludeBuild(\"../other\")\n")
	writeFile(t, filepath.Join(root, "build.gradle.kts"), "plugins { id(\"java\") }\n")

	other := filepath.Join(filepath.Dir(root), "other")
	writeFile(t, filepath.Join(other, "settings.gradle.kts"), "rootProject.name = \"other\"\n")
	writeFile(t, filepath.Join(other, "build.gradle.kts"), "plugins { id(\"java\") }\n")
	writeFile(t, filepath.Join(other, "src", "main", "java", "Bar.java"), "class Bar {}\n")

	builds, err := discoverBuilds(root)
	if err != nil {
		t.Fatalf("discoverBuilds: %v", err)
	}
	if len(builds) != 2 || builds[0] != root || builds[1] != other {
		t.Fatalf("unexpected build discovery order: %v", builds)
	}
}

func TestRunToleratesPerProjectProbeFailure(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "settings.gradle.kts"), "rootProject.name = \"root\"\n")
	writeFile(t, filepath.Join(root, "build.gradle.kts"), "plugins { id(\"java\") }\n")
	writeFile(t, filepath.Join(root, "broken", "build.gradle.kts"), "plugins { id(\"java\") }\n")

	result, err := Run(context.Background(), root, Options{
		Log:  logr.Discard(),
		Opts: probe.ProbeOptions{Log: logr.Discard()},
		Probe: failingOnSubdirProbe{failDir: filepath.Join(root, "broken")},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected exactly one probe error, got %v", result.Errors)
	}
}

type failingOnSubdirProbe struct {
	failDir string
}

func (p failingOnSubdirProbe) Probe(projectDir string, opts probe.ProbeOptions) ([]*model.SourceSetModel, error) {
	if projectDir == p.failDir {
		return nil, errProbeFailed
	}
	return (probe.DefaultModelProbe{}).Probe(projectDir, opts)
}

var errProbeFailed = &probeFailedErr{}

type probeFailedErr struct{}

func (*probeFailedErr) Error() string { return "synthetic probe failure" }
