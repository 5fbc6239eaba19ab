package link

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gradlebsp/pkg/model"
)

func writeSettingsFile(t *testing.T, root string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(root, "settings.gradle"), []byte("rootProject.name = \"repo\"\n"), 0o644); err != nil {
		t.Fatalf("write settings.gradle: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(root, "login-audit", "service"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
}

func TestLinkRewritesSiblingOutputIntoDependency(t *testing.T) {
	lib := model.New("/repo/lib", "main")
	lib.SourceOutputDirs["/repo/lib/build/classes/java/main"] = struct{}{}

	app := model.New("/repo/app", "main")
	app.CompileClasspath = []string{"/repo/lib/build/classes/java/main", "/external/guava.jar"}

	linked := Link([]*model.SourceSetModel{lib, app})

	var linkedApp *model.SourceSetModel
	for _, m := range linked {
		if m.ProjectDir == "/repo/app" {
			linkedApp = m
		}
	}
	if linkedApp == nil {
		t.Fatalf("missing app model in output")
	}

	if _, ok := linkedApp.BuildTargetDependencies[lib.Identity()]; !ok {
		t.Fatalf("expected app to depend on lib, got %+v", linkedApp.BuildTargetDependencies)
	}
	if diff := cmp.Diff([]string{"/repo/lib/build/classes/java/main", "/external/guava.jar"}, linkedApp.CompileClasspath); diff != "" {
		t.Fatalf("unrecognized classpath entries must be preserved unchanged (-want +got):\n%s", diff)
	}
}

func TestLinkExpandsArchiveIntoClassDirsWithoutSelfDependency(t *testing.T) {
	m := model.New("/repo/app", "main")
	m.ArchiveOutputFiles["/repo/app/build/libs/app.jar"] = []string{"/repo/app/build/classes/java/main"}
	m.CompileClasspath = []string{"/repo/app/build/libs/app.jar"}

	linked := Link([]*model.SourceSetModel{m})[0]

	if diff := cmp.Diff([]string{"/repo/app/build/classes/java/main"}, linked.CompileClasspath); diff != "" {
		t.Fatalf("expected archive entry expanded in place (-want +got):\n%s", diff)
	}
	if len(linked.BuildTargetDependencies) != 0 {
		t.Fatalf("expected no self-dependency, got %+v", linked.BuildTargetDependencies)
	}
}

func TestLinkIsIdempotent(t *testing.T) {
	lib := model.New("/repo/lib", "main")
	lib.SourceOutputDirs["/repo/lib/build/classes/java/main"] = struct{}{}
	lib.ArchiveOutputFiles["/repo/lib/build/libs/lib.jar"] = []string{"/repo/lib/build/classes/java/main"}

	app := model.New("/repo/app", "main")
	app.CompileClasspath = []string{"/repo/lib/build/libs/lib.jar", "/external/guava.jar"}

	once := Link([]*model.SourceSetModel{lib, app})
	twice := Link(once)

	for i := range once {
		if diff := cmp.Diff(once[i].CompileClasspath, twice[i].CompileClasspath); diff != "" {
			t.Fatalf("classpath changed on second link pass (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(once[i].BuildTargetDependencies, twice[i].BuildTargetDependencies); diff != "" {
			t.Fatalf("dependency set changed on second link pass (-want +got):\n%s", diff)
		}
	}
}

func TestLinkDoesNotMutateInput(t *testing.T) {
	lib := model.New("/repo/lib", "main")
	lib.SourceOutputDirs["/repo/lib/build/classes/java/main"] = struct{}{}

	app := model.New("/repo/app", "main")
	app.CompileClasspath = []string{"/repo/lib/build/classes/java/main"}
	originalLen := len(app.BuildTargetDependencies)

	_ = Link([]*model.SourceSetModel{lib, app})

	if len(app.BuildTargetDependencies) != originalLen {
		t.Fatalf("Link must not mutate its input models in place")
	}
}

func TestProjectPathOfNestedDirectory(t *testing.T) {
	root := t.TempDir()
	writeSettingsFile(t, root)

	nested := filepath.Join(root, "login-audit", "service")
	if got, want := ProjectPathOf(root, nested), ":login-audit:service"; got != want {
		t.Fatalf("ProjectPathOf(%q) = %q, want %q", nested, got, want)
	}
}

func TestProjectPathOfRootItself(t *testing.T) {
	root := t.TempDir()
	writeSettingsFile(t, root)

	if got := ProjectPathOf(root, root); got != "" {
		t.Fatalf("ProjectPathOf(root, root) = %q, want empty", got)
	}
}
