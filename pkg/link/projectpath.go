package link

import (
	"os"
	"path/filepath"
	"strings"
)

// projectPathOf walks upward from projectDir looking for the nearest
// settings.gradle(.kts), stopping at rootDir if reached first, and
// renders the relative path as a Gradle project path (":a:b").
func projectPathOf(rootDir, projectDir string) string {
	current := projectDir
	var settingsRoot string

	for {
		if hasSettingsFile(current) {
			settingsRoot = current
			break
		}
		if current == rootDir {
			break
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	if settingsRoot == "" {
		settingsRoot = rootDir
	}

	relPath, err := filepath.Rel(settingsRoot, projectDir)
	if err != nil || relPath == "." {
		return ""
	}
	return ":" + strings.ReplaceAll(relPath, string(filepath.Separator), ":")
}

// ResolveProjectDir is the inverse of ProjectPathOf: given any directory
// inside a build (typically the dependent project's own directory) and
// a Gradle-style colon-separated project path (":a:b"), it returns the
// absolute directory that path names, resolved against the nearest
// enclosing settings.gradle(.kts).
func ResolveProjectDir(projectDir, projectPath string) string {
	root := settingsRootOf(projectDir)
	trimmed := strings.TrimPrefix(projectPath, ":")
	if trimmed == "" {
		return root
	}
	parts := strings.Split(trimmed, ":")
	return filepath.Join(append([]string{root}, parts...)...)
}

func settingsRootOf(dir string) string {
	current := dir
	for {
		if hasSettingsFile(current) {
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			return dir
		}
		current = parent
	}
}

func hasSettingsFile(dir string) bool {
	for _, name := range []string{"settings.gradle", "settings.gradle.kts"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}
