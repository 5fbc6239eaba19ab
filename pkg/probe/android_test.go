package probe

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetectAndroidPlugin(t *testing.T) {
	info := &BuildFileInfo{Plugins: []string{"com.android.application", "kotlin-android"}}
	kind, ok := DetectAndroidPlugin(info)
	if !ok || kind != AndroidApplication {
		t.Fatalf("got kind=%v ok=%v", kind, ok)
	}
}

func TestDetectAndroidPluginAbsent(t *testing.T) {
	info := &BuildFileInfo{Plugins: []string{"java-library"}}
	if _, ok := DetectAndroidPlugin(info); ok {
		t.Fatalf("expected no android plugin detected")
	}
}

func TestBuildTypesDefaultsWhenNoCustomTypes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "build.gradle.kts")
	if err := os.WriteFile(path, []byte("android {}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	types := BuildTypes(path)
	if len(types) != 2 || types[0] != "debug" || types[1] != "release" {
		t.Fatalf("unexpected default build types: %v", types)
	}
}

func TestBuildTypesCustom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "build.gradle.kts")
	content := "android {\n buildTypes {\n create(\"staging\")\n }\n}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	types := BuildTypes(path)
	found := false
	for _, tp := range types {
		if tp == "staging" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected staging in %v", types)
	}
}

func TestProbeAndroidProjectApplicationVariants(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "build.gradle.kts")
	if err := os.WriteFile(path, []byte("android {}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	models := ProbeAndroidProject(dir, AndroidApplication, path)
	names := map[string]bool{}
	for _, m := range models {
		names[m.SourceSetName] = true
	}
	for _, want := range []string{"debug", "release", "debugUnitTest", "releaseUnitTest"} {
		if !names[want] {
			t.Errorf("expected variant %q among %v", want, names)
		}
	}

	for _, m := range models {
		if m.SourceSetName == "debugUnitTest" && !m.HasTests {
			t.Errorf("expected debugUnitTest to be flagged HasTests")
		}
		hasUnknownGroup := false
		for _, dep := range m.ModuleDependencies {
			if dep.Group == "UNKNOWN" {
				hasUnknownGroup = true
			}
		}
		if !hasUnknownGroup {
			t.Errorf("expected synthetic UNKNOWN module dependencies on variant %s", m.SourceSetName)
		}
	}
}
