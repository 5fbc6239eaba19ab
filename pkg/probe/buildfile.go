package probe

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// DependencyKind classifies one parsed dependency declaration.
type DependencyKind int

const (
	DependencyExternal DependencyKind = iota
	DependencyProject
	DependencyCatalog
)

// BuildFileDependency is one line parsed out of a dependencies { }
// block in build.gradle / build.gradle.kts.
type BuildFileDependency struct {
	Configuration string // implementation, testImplementation, api, ...
	Kind          DependencyKind
	Group         string
	Name          string
	Version       string
	ProjectPath   string // for DependencyProject
	CatalogRef    string // for DependencyCatalog, e.g. "junit.jupiter"
	Raw           string
}

// BuildFileInfo is the parsed shape of a single build.gradle(.kts) file.
// This is a line-oriented, best-effort parse, not a real Kotlin/Groovy
// DSL parser — Gradle's own evaluation is the source of truth; this is
// only a fallback used when no live Tooling API connection is
// available.
type BuildFileInfo struct {
	ProjectDir   string
	Dependencies []BuildFileDependency
	Plugins      []string
}

var (
	dependencyLineRe = regexp.MustCompile(`^\s*(implementation|testImplementation|api|compileOnly|runtimeOnly|testRuntimeOnly)\s*\(\s*(.+)\s*\)`)
	projectDepRe     = regexp.MustCompile(`project\s*\(\s*["']([^"']+)["']\s*\)`)
	stringDepRe      = regexp.MustCompile(`["']([^"']+)["']`)
	catalogDepRe     = regexp.MustCompile(`libs\.([A-Za-z0-9._-]+)`)
	pluginLineRe     = regexp.MustCompile(`^\s*(id|kotlin)\s*\(\s*["']([^"']+)["']\s*\)`)
)

// ParseBuildFile scans a build.gradle.kts (or build.gradle) file for
// dependency and plugin declarations, tolerating one common subset of
// the Gradle DSL: bracketed `configuration(...)` calls inside a literal
// `dependencies { }` block and `id("...")`/`kotlin("...")` calls inside
// `plugins { }`.
func ParseBuildFile(path string) (*BuildFileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open build file %s: %w", path, err)
	}
	defer f.Close()

	info := &BuildFileInfo{}
	inDeps, inPlugins := false, false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "dependencies") && strings.Contains(trimmed, "{"):
			inDeps = true
			continue
		case strings.HasPrefix(trimmed, "plugins") && strings.Contains(trimmed, "{"):
			inPlugins = true
			continue
		case trimmed == "}":
			inDeps, inPlugins = false, false
			continue
		}

		if inDeps {
			if dep := parseDependencyLine(line); dep != nil {
				info.Dependencies = append(info.Dependencies, *dep)
			}
		}
		if inPlugins {
			if m := pluginLineRe.FindStringSubmatch(line); m != nil {
				info.Plugins = append(info.Plugins, m[2])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan build file %s: %w", path, err)
	}
	return info, nil
}

func parseDependencyLine(line string) *BuildFileDependency {
	m := dependencyLineRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	configuration, body := m[1], m[2]

	if pm := projectDepRe.FindStringSubmatch(body); pm != nil {
		return &BuildFileDependency{Configuration: configuration, Kind: DependencyProject, ProjectPath: pm[1], Raw: line}
	}
	if cm := catalogDepRe.FindStringSubmatch(body); cm != nil {
		return &BuildFileDependency{Configuration: configuration, Kind: DependencyCatalog, CatalogRef: cm[1], Raw: line}
	}
	if sm := stringDepRe.FindStringSubmatch(body); sm != nil {
		coord := parseGroupNameVersion(sm[1])
		return &BuildFileDependency{Configuration: configuration, Kind: DependencyExternal, Group: coord.Group, Name: coord.Name, Version: coord.Version, Raw: line}
	}
	return nil
}

// HasPlugin reports whether pluginID was declared in a plugins{} block.
func (b *BuildFileInfo) HasPlugin(pluginID string) bool {
	for _, p := range b.Plugins {
		if p == pluginID {
			return true
		}
	}
	return false
}

// ExternalDependencies returns only the non-project, non-catalog
// dependency declarations.
func (b *BuildFileInfo) ExternalDependencies() []BuildFileDependency {
	var out []BuildFileDependency
	for _, d := range b.Dependencies {
		if d.Kind == DependencyExternal {
			out = append(out, d)
		}
	}
	return out
}

// ProjectDependencies returns the Gradle project paths (e.g. ":lib:core")
// referenced via project(":...") declarations.
func (b *BuildFileInfo) ProjectDependencies() []string {
	var out []string
	for _, d := range b.Dependencies {
		if d.Kind == DependencyProject {
			out = append(out, d.ProjectPath)
		}
	}
	return out
}
