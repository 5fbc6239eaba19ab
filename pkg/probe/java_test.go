package probe

import (
	"os"
	"path/filepath"
	"testing"

	"gradlebsp/pkg/model"
)

func mkSourceSet(t *testing.T, projectDir, name, lang string) {
	t.Helper()
	dir := filepath.Join(projectDir, "src", name, lang)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
}

func TestProbeJavaProjectMainAndTest(t *testing.T) {
	dir := t.TempDir()
	mkSourceSet(t, dir, "main", "java")
	mkSourceSet(t, dir, "test", "java")
	if err := os.WriteFile(filepath.Join(dir, "src", "test", "java", "FooTest.java"), []byte("import org.junit.Test;\nclass FooTest { @Test void x() {} }\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	models := ProbeJavaProject(dir, nil, &BuildFileInfo{}, ResolveClassifierOpts{})
	if len(models) != 2 {
		t.Fatalf("expected 2 source sets, got %d", len(models))
	}

	var main, test *model.SourceSetModel
	for _, m := range models {
		switch m.SourceSetName {
		case "main":
			main = m
		case "test":
			test = m
		}
	}
	if main == nil || test == nil {
		t.Fatalf("expected both main and test source sets, got %+v", models)
	}
	if !test.HasTests {
		t.Fatalf("expected test source set to be flagged HasTests")
	}
	if main.HasTests {
		t.Fatalf("expected main source set to not be flagged HasTests")
	}
	if len(main.ArchiveOutputFiles) != 1 {
		t.Fatalf("expected main to register exactly one archive output, got %+v", main.ArchiveOutputFiles)
	}
}

func TestProbeJavaProjectNoSourceReturnsNil(t *testing.T) {
	dir := t.TempDir()
	models := ProbeJavaProject(dir, nil, &BuildFileInfo{}, ResolveClassifierOpts{})
	if len(models) != 0 {
		t.Fatalf("expected no source sets, got %d", len(models))
	}
}

func TestPopulateDependenciesExternalAndCatalog(t *testing.T) {
	dir := t.TempDir()
	mkSourceSet(t, dir, "main", "java")

	buildInfo := &BuildFileInfo{Dependencies: []BuildFileDependency{
		{Kind: DependencyExternal, Group: "com.google.guava", Name: "guava", Version: "33.0.0-jre", Raw: "implementation(\"com.google.guava:guava:33.0.0-jre\")"},
		{Kind: DependencyCatalog, CatalogRef: "junit.jupiter", Raw: "implementation(libs.junit.jupiter)"},
	}}
	catalog := &ArtefactVersions{Libraries: map[string]LibraryCoordinate{
		"junit-jupiter": {Group: "org.junit.jupiter", Name: "junit-jupiter", Version: "5.10.2"},
	}}

	models := ProbeJavaProject(dir, catalog, buildInfo, ResolveClassifierOpts{})
	if len(models) != 1 {
		t.Fatalf("expected 1 source set, got %d", len(models))
	}
	deps := models[0].ModuleDependencies
	if len(deps) != 2 {
		t.Fatalf("expected 2 module dependencies, got %d: %+v", len(deps), deps)
	}
}
