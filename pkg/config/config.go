// Package config loads adapter preferences from a hierarchy of
// gradlebsp.conf.json files, closest directory wins.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the preferences file this loader looks for at every
// directory level from startDir up to the filesystem root.
const FileName = "gradlebsp.conf.json"

// Preferences is the effective, merged adapter configuration. When every
// conf file leaves GradleHome or GradleUserHome unset, ResolveGradleHome
// and ResolveGradleUserHome fall back to the process environment.
type Preferences struct {
	// GradleHome overrides GRADLE_HOME discovery.
	GradleHome string `json:"gradleHome,omitempty"`
	// GradleUserHome overrides GRADLE_USER_HOME discovery.
	GradleUserHome string `json:"gradleUserHome,omitempty"`
	// JavaHome names a JDK home. It is loaded and merged, but nothing in
	// this module reads it: the Gradle command runs with the inherited
	// environment.
	JavaHome string `json:"javaHome,omitempty"`
	// Offline disables network access during classifier resolution.
	Offline bool `json:"offline,omitempty"`
	// ClassifierRepositories lists additional Maven repository base
	// URLs consulted by pkg/probe's classifier resolution fallback.
	ClassifierRepositories []string `json:"classifierRepositories,omitempty"`
	// Parallelism is a worker count. It is loaded and merged, but nothing
	// in this module reads it: the aggregator's fan-out width comes from
	// the CLI's -j flag.
	Parallelism int `json:"parallelism,omitempty"`
}

// Load walks from startDir up to the filesystem root collecting every
// FileName found, then merges root-to-leaf so the most specific
// (deepest) file wins field by field.
func Load(startDir string) (*Preferences, error) {
	var configFiles []string
	dir := startDir
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			configFiles = append(configFiles, candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	prefs := &Preferences{}
	for i := len(configFiles) - 1; i >= 0; i-- {
		if err := mergeFile(prefs, configFiles[i]); err != nil {
			return nil, err
		}
	}
	return prefs, nil
}

func mergeFile(prefs *Preferences, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var overlay Preferences
	if err := json.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if overlay.GradleHome != "" {
		prefs.GradleHome = overlay.GradleHome
	}
	if overlay.GradleUserHome != "" {
		prefs.GradleUserHome = overlay.GradleUserHome
	}
	if overlay.JavaHome != "" {
		prefs.JavaHome = overlay.JavaHome
	}
	if overlay.Offline {
		prefs.Offline = true
	}
	if len(overlay.ClassifierRepositories) > 0 {
		prefs.ClassifierRepositories = overlay.ClassifierRepositories
	}
	if overlay.Parallelism != 0 {
		prefs.Parallelism = overlay.Parallelism
	}
	return nil
}
