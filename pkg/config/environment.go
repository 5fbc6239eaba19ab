package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ResolveGradleHome implements the GRADLE_HOME fallback chain: an
// explicit preference wins; otherwise the environment variable;
// otherwise a PATH scan for a gradle executable whose
// sibling ../lib directory holds a gradle-launcher-*.jar, which is how
// a non-wrapper Gradle installation is identified on disk.
func ResolveGradleHome(prefs *Preferences) string {
	if prefs != nil && prefs.GradleHome != "" {
		return prefs.GradleHome
	}
	if home := os.Getenv("GRADLE_HOME"); home != "" {
		return home
	}
	return scanPathForGradleHome()
}

// ResolveGradleUserHome implements the GRADLE_USER_HOME fallback chain:
// explicit preference, then environment variable, then Gradle's own
// default of $HOME/.gradle.
func ResolveGradleUserHome(prefs *Preferences) string {
	if prefs != nil && prefs.GradleUserHome != "" {
		return prefs.GradleUserHome
	}
	if home := os.Getenv("GRADLE_USER_HOME"); home != "" {
		return home
	}
	if userHome, err := os.UserHomeDir(); err == nil {
		return filepath.Join(userHome, ".gradle")
	}
	return ""
}

var launcherJarPattern = regexp.MustCompile(`^gradle-launcher-.*\.jar$`)

// scanPathForGradleHome walks PATH looking for a "gradle" executable
// and confirms it's a real installation (not merely a wrapper shim) by
// checking for a gradle-launcher-*.jar alongside it in ../lib.
func scanPathForGradleHome() string {
	pathEnv := os.Getenv("PATH")
	for _, dir := range filepath.SplitList(pathEnv) {
		candidate := filepath.Join(dir, "gradle")
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		libDir := filepath.Join(dir, "..", "lib")
		entries, err := os.ReadDir(libDir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if launcherJarPattern.MatchString(entry.Name()) {
				return filepath.Dir(libDir)
			}
		}
	}
	return ""
}

// IsWrapperPresent reports whether projectDir contains a Gradle wrapper
// script, the signal GradleDriver.connect uses to prefer the
// project-pinned Gradle version over any GRADLE_HOME installation.
func IsWrapperPresent(projectDir string) bool {
	for _, name := range []string{"gradlew", "gradlew.bat"} {
		if _, err := os.Stat(filepath.Join(projectDir, name)); err == nil {
			return true
		}
	}
	return false
}

// GradleCommand picks the wrapper script when present, else a
// gradleHome-rooted installation (as resolved by ResolveGradleHome) when
// one was found, else falls back to "gradle" on PATH.
func GradleCommand(projectDir, gradleHome string) string {
	windows := strings.HasPrefix(os.Getenv("OS"), "Windows")
	if IsWrapperPresent(projectDir) {
		if windows {
			return filepath.Join(projectDir, "gradlew.bat")
		}
		return filepath.Join(projectDir, "gradlew")
	}
	if gradleHome != "" {
		if windows {
			return filepath.Join(gradleHome, "bin", "gradle.bat")
		}
		return filepath.Join(gradleHome, "bin", "gradle")
	}
	return "gradle"
}
