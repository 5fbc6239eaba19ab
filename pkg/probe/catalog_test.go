package probe

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleCatalog = `
[versions]
junit = "5.10.2"
kotlin = "1.9.24"

[libraries]
junit-jupiter = { module = "org.junit.jupiter:junit-jupiter", version.ref = "junit" }
kotlin-stdlib = "org.jetbrains.kotlin:kotlin-stdlib:1.9.24"

[plugins]
kotlin-jvm = { id = "org.jetbrains.kotlin.jvm", version.ref = "kotlin" }
`

func writeCatalog(t *testing.T, dir string) string {
	t.Helper()
	gradleDir := filepath.Join(dir, "gradle")
	if err := os.MkdirAll(gradleDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(gradleDir, "libs.versions.toml")
	if err := os.WriteFile(path, []byte(sampleCatalog), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestParseVersionCatalogResolvesVersionRef(t *testing.T) {
	dir := t.TempDir()
	path := writeCatalog(t, dir)

	cat, err := ParseVersionCatalog(path)
	if err != nil {
		t.Fatalf("ParseVersionCatalog: %v", err)
	}
	lib, ok := cat.GetLibraryVersion("junit-jupiter")
	if !ok {
		t.Fatalf("expected junit-jupiter to be present")
	}
	if lib.Group != "org.junit.jupiter" || lib.Name != "junit-jupiter" || lib.Version != "5.10.2" {
		t.Fatalf("unexpected coordinate: %+v", lib)
	}
}

func TestParseVersionCatalogStringForm(t *testing.T) {
	dir := t.TempDir()
	path := writeCatalog(t, dir)

	cat, err := ParseVersionCatalog(path)
	if err != nil {
		t.Fatalf("ParseVersionCatalog: %v", err)
	}
	lib, ok := cat.GetLibraryVersion("kotlin-stdlib")
	if !ok {
		t.Fatalf("expected kotlin-stdlib to be present")
	}
	if lib.Version != "1.9.24" {
		t.Fatalf("unexpected version: %+v", lib)
	}
}

func TestFindVersionCatalogSearchesUpward(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir)
	sub := filepath.Join(dir, "app", "sub")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found := FindVersionCatalog(sub)
	if found == "" {
		t.Fatalf("expected to find catalog by walking upward")
	}
}

func TestGetLibraryVersionHyphenFallback(t *testing.T) {
	cat := &ArtefactVersions{Libraries: map[string]LibraryCoordinate{
		"junit-jupiter": {Group: "org.junit.jupiter", Name: "junit-jupiter", Version: "5.10.2"},
	}}
	if _, ok := cat.GetLibraryVersion("junit.jupiter"); !ok {
		t.Fatalf("expected dots-to-hyphens fallback to resolve junit.jupiter")
	}
}
