package probe

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLanguageSourceDirsOnlyReturnsPresent(t *testing.T) {
	dir := t.TempDir()
	javaDir := filepath.Join(dir, "src", "main", "java")
	if err := os.MkdirAll(javaDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	dirs := LanguageSourceDirs(dir, "main")
	if len(dirs) != 1 || dirs["java"] != javaDir {
		t.Fatalf("unexpected result: %+v", dirs)
	}
}

func TestDirHasTestSources(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "FooTest.kt")
	content := "import org.junit.jupiter.api.Test\nclass FooTest {\n @Test fun bar() {}\n}\n"
	if err := os.WriteFile(testFile, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !DirHasTestSources(dir) {
		t.Fatalf("expected DirHasTestSources to detect @Test-annotated file")
	}
}

func TestDirHasTestSourcesFalseForPlainCode(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Foo.kt"), []byte("class Foo\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if DirHasTestSources(dir) {
		t.Fatalf("expected no test sources detected")
	}
}
