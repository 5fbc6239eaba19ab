package driver

import (
	"fmt"
	"os"
	"path/filepath"
)

// probeInitScript is the Gradle init script applied to every probed
// build: it registers a listener that prints enough of the project
// model as a parseable marker line for the probe to consume without a
// live Tooling API connection.
const probeInitScript = `
allprojects {
    afterEvaluate {
        println("GRADLEBSP_PROJECT_PROBE:" + project.path + ":" + project.projectDir)
    }
}
`

// FileSystemPluginInjector writes the probe init script once under a
// server-owned plugin directory and returns its path on every call,
// regenerating the file only when missing.
type FileSystemPluginInjector struct {
	PluginDir string
}

// InitScriptPath implements PluginInjector.
func (p FileSystemPluginInjector) InitScriptPath() (string, error) {
	if p.PluginDir == "" {
		return "", fmt.Errorf("plugin directory not configured")
	}
	if err := os.MkdirAll(p.PluginDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create plugin directory: %w", err)
	}

	path := filepath.Join(p.PluginDir, "gradlebsp-probe-init.gradle")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.WriteFile(path, []byte(probeInitScript), 0o644); err != nil {
		return "", fmt.Errorf("failed to write init script: %w", err)
	}
	return path, nil
}
